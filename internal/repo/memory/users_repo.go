package memory

import (
	"context"
	"sync"
	"time"

	"github.com/geocoder89/meetuphub/internal/domain/user"
)

// UsersRepo keeps accounts in memory. When linked to a MeetupsRepo, new users
// become available as organizers in meetup listings.
type UsersRepo struct {
	mu      sync.RWMutex
	byEmail map[string]user.User
	nextID  int64
	meetups *MeetupsRepo
	now     func() time.Time
}

func NewUsersRepo(meetups *MeetupsRepo) *UsersRepo {
	return &UsersRepo{
		byEmail: make(map[string]user.User),
		meetups: meetups,
		now:     time.Now,
	}
}

func (r *UsersRepo) Create(_ context.Context, name, email, passwordHash string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return user.User{}, user.ErrEmailTaken
	}

	r.nextID++
	now := r.now().UTC()
	u := user.User{
		ID:           r.nextID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byEmail[email] = u

	if r.meetups != nil {
		r.meetups.AddUser(u)
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}
