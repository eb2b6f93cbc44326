package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/meetuphub/internal/domain/file"
	"github.com/geocoder89/meetuphub/internal/domain/meetup"
	"github.com/geocoder89/meetuphub/internal/domain/user"
)

// MeetupsRepo keeps meetups, and the users and files they join, in process memory.
type MeetupsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]meetup.Meetup
	users  map[int64]user.User
	files  map[int64]file.File
}

func NewMeetupsRepo() *MeetupsRepo {
	return &MeetupsRepo{
		items: make(map[int64]meetup.Meetup),
		users: make(map[int64]user.User),
		files: make(map[int64]file.File),
	}
}

func (r *MeetupsRepo) AddUser(u user.User) {
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
}

func (r *MeetupsRepo) AddFile(f file.File) {
	r.mu.Lock()
	r.files[f.ID] = f
	r.mu.Unlock()
}

func (r *MeetupsRepo) Create(_ context.Context, m meetup.Meetup) (meetup.Meetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	m.ID = r.nextID
	m.Organizer = nil
	m.Banner = nil
	r.items[m.ID] = m

	return m, nil
}

func (r *MeetupsRepo) GetByID(_ context.Context, id int64) (meetup.Meetup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[id]
	if !ok {
		return meetup.Meetup{}, meetup.ErrNotFound
	}

	return m, nil
}

func (r *MeetupsRepo) Update(_ context.Context, m meetup.Meetup) (meetup.Meetup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[m.ID]
	if !ok {
		return meetup.Meetup{}, meetup.ErrNotFound
	}

	m.UserID = current.UserID
	m.CreatedAt = current.CreatedAt
	m.Organizer = nil
	m.Banner = nil
	r.items[m.ID] = m

	return m, nil
}

func (r *MeetupsRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return meetup.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

func (r *MeetupsRepo) List(_ context.Context, filter meetup.ListMeetupsFilter) ([]meetup.Meetup, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]meetup.Meetup, 0, len(r.items))
	for _, m := range r.items {
		if filter.From != nil && m.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.Date.After(*filter.To) {
			continue
		}

		if u, ok := r.users[m.UserID]; ok {
			s := u.Summary()
			m.Organizer = &s
		}
		matched = append(matched, m)
	}

	sortByDate(matched)
	total := len(matched)

	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if filter.Offset >= total {
		return []meetup.Meetup{}, total, nil
	}

	end := total
	if filter.Limit > 0 && filter.Limit < total-filter.Offset {
		end = filter.Offset + filter.Limit
	}

	return matched[filter.Offset:end], total, nil
}

func (r *MeetupsRepo) ListByOwner(_ context.Context, ownerID int64) ([]meetup.Meetup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]meetup.Meetup, 0)
	for _, m := range r.items {
		if m.UserID != ownerID {
			continue
		}

		if m.FileID != nil {
			if f, ok := r.files[*m.FileID]; ok {
				m.Banner = &file.Banner{ID: f.ID, Path: f.Path}
			}
		}
		out = append(out, m)
	}

	sortByDate(out)

	return out, nil
}

func sortByDate(items []meetup.Meetup) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].ID < items[j].ID
		}
		return items[i].Date.Before(items[j].Date)
	})
}
