package meetups

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/geocoder89/meetuphub/internal/cache"
	"github.com/geocoder89/meetuphub/internal/clock"
	"github.com/geocoder89/meetuphub/internal/domain/file"
	"github.com/geocoder89/meetuphub/internal/domain/meetup"
	"github.com/geocoder89/meetuphub/internal/utils"
	"github.com/geocoder89/meetuphub/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Repository is the data store the service runs against.
type Repository interface {
	Create(ctx context.Context, m meetup.Meetup) (meetup.Meetup, error)
	GetByID(ctx context.Context, id int64) (meetup.Meetup, error)
	Update(ctx context.Context, m meetup.Meetup) (meetup.Meetup, error)
	Delete(ctx context.Context, id int64) error
	// List returns one page of meetups with the organizer joined, plus the total match count.
	List(ctx context.Context, filter meetup.ListMeetupsFilter) ([]meetup.Meetup, int, error)
	// ListByOwner returns every meetup of ownerID with its banner joined.
	ListByOwner(ctx context.Context, ownerID int64) ([]meetup.Meetup, error)
}

type ListQuery struct {
	Date string
	Page int
}

type Page struct {
	Items []meetup.Meetup `json:"items"`
	Count int             `json:"count"`
	Total int             `json:"total"`
	Page  int             `json:"page"`
}

type Service struct {
	repo         Repository
	clock        clock.Clock
	validate     *validator.Validate
	cache        cache.Store
	log          *slog.Logger
	loc          *time.Location
	filesBaseURL string
}

type Option func(*Service)

func WithCache(c cache.Store) Option {
	return func(s *Service) { s.cache = c }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithLocation sets the timezone calendar days are resolved in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithFilesBaseURL(base string) Option {
	return func(s *Service) { s.filesBaseURL = base }
}

func NewService(repo Repository, clk clock.Clock, opts ...Option) *Service {
	if clk == nil {
		clk = clock.Real{}
	}

	s := &Service{
		repo:     repo,
		clock:    clk,
		validate: validation.New(),
		log:      slog.Default(),
		loc:      time.UTC,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Store(ctx context.Context, actorID int64, req meetup.CreateMeetupRequest) (meetup.Meetup, error) {
	if err := s.validateInput(req); err != nil {
		return meetup.Meetup{}, err
	}

	now := s.clock.Now()

	if meetup.IsPast(req.Date, now) {
		return meetup.Meetup{}, meetup.ErrPastDate
	}

	created, err := s.repo.Create(ctx, meetup.NewFromCreateRequest(actorID, req, now))
	if err != nil {
		return meetup.Meetup{}, fmt.Errorf("create meetup: %w", err)
	}

	s.invalidateOrganizing(ctx, actorID)
	s.log.InfoContext(ctx, "meetup_created", "meetup_id", created.ID, "user_id", actorID)

	return s.decorate(created, now), nil
}

// Update applies a partial update to a meetup owned by actorID.
func (s *Service) Update(ctx context.Context, actorID, meetupID int64, req meetup.UpdateMeetupRequest) (meetup.Meetup, error) {
	return s.update(ctx, actorID, meetupID, func(out *meetup.UpdateMeetupRequest) error {
		*out = req
		return nil
	})
}

// UpdateJSON is Update for a raw JSON body. The body is only decoded once the
// actor is known to own a meetup that is still editable, so a non-owner is
// refused whatever they send. An empty body is an empty update.
func (s *Service) UpdateJSON(ctx context.Context, actorID, meetupID int64, body []byte) (meetup.Meetup, error) {
	return s.update(ctx, actorID, meetupID, func(out *meetup.UpdateMeetupRequest) error {
		if len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		return json.Unmarshal(body, out)
	})
}

func (s *Service) update(ctx context.Context, actorID, meetupID int64, decode func(*meetup.UpdateMeetupRequest) error) (meetup.Meetup, error) {
	now := s.clock.Now()

	current, err := s.editable(ctx, actorID, meetupID, now)
	if err != nil {
		return meetup.Meetup{}, err
	}

	var req meetup.UpdateMeetupRequest
	if err := decode(&req); err != nil {
		return meetup.Meetup{}, fmt.Errorf("%w: %w", meetup.ErrInvalidInput, err)
	}

	if err := s.validateInput(req); err != nil {
		return meetup.Meetup{}, err
	}

	if req.Date != nil && meetup.IsPast(*req.Date, now) {
		return meetup.Meetup{}, meetup.ErrPastDate
	}

	next := current.Apply(req)
	next.UpdatedAt = now

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		return meetup.Meetup{}, fmt.Errorf("update meetup %d: %w", meetupID, err)
	}

	s.invalidateOrganizing(ctx, actorID)
	s.log.InfoContext(ctx, "meetup_updated", "meetup_id", meetupID, "user_id", actorID)

	return s.decorate(updated, now), nil
}

func (s *Service) Delete(ctx context.Context, actorID, meetupID int64) error {
	now := s.clock.Now()

	if _, err := s.editable(ctx, actorID, meetupID, now); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, meetupID); err != nil {
		return fmt.Errorf("delete meetup %d: %w", meetupID, err)
	}

	s.invalidateOrganizing(ctx, actorID)
	s.log.InfoContext(ctx, "meetup_deleted", "meetup_id", meetupID, "user_id", actorID)

	return nil
}

// List serves the date-filtered, paginated listing across all organizers.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > utils.MaxPage {
		page = utils.MaxPage
	}

	filter := meetup.ListMeetupsFilter{
		Limit:  meetup.PageSize,
		Offset: utils.PageOffset(page, meetup.PageSize),
	}

	if raw := strings.TrimSpace(q.Date); raw != "" {
		day, err := meetup.ParseDay(raw, s.loc)
		if err != nil {
			return Page{}, fmt.Errorf("%w: date must be YYYY-MM-DD", meetup.ErrInvalidInput)
		}

		from, to := meetup.DayBounds(day)
		filter.From = &from
		filter.To = &to
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return Page{}, fmt.Errorf("list meetups: %w", err)
	}

	now := s.clock.Now()
	for i := range items {
		items[i] = s.decorate(items[i], now)
	}

	return Page{Items: items, Count: len(items), Total: total, Page: page}, nil
}

// ListOrganizing returns the actor's own meetups with their banners.
func (s *Service) ListOrganizing(ctx context.Context, actorID int64) ([]meetup.Listing, error) {
	now := s.clock.Now()

	// the generation is read before the repo so a write landing in between
	// leaves this listing under a key nobody reads again
	gen := s.organizingGen(ctx, actorID)
	key := utils.BuildOrganizingCacheKey(actorID, gen)

	if gen != "" {
		if listings, ok := s.cachedListings(ctx, key); ok {
			for i := range listings {
				listings[i].Past = meetup.IsPast(listings[i].Date, now)
			}
			return listings, nil
		}
	}

	items, err := s.repo.ListByOwner(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("list organizing meetups: %w", err)
	}

	listings := make([]meetup.Listing, 0, len(items))
	for _, m := range items {
		listings = append(listings, s.decorate(m, now).ToListing())
	}

	if gen != "" {
		if b, err := json.Marshal(listings); err == nil {
			if err := s.cache.Set(ctx, key, b); err != nil {
				s.log.WarnContext(ctx, "organizing_cache_set_failed", "user_id", actorID, "err", err)
			}
		}
	}

	return listings, nil
}

// organizingGen returns the owner's current cache generation, starting one
// when none exists. Empty means the cache is off or unavailable.
func (s *Service) organizingGen(ctx context.Context, actorID int64) string {
	if s.cache == nil {
		return ""
	}

	genKey := utils.BuildOrganizingGenKey(actorID)

	b, ok, err := s.cache.Get(ctx, genKey)
	if err != nil {
		s.log.WarnContext(ctx, "organizing_cache_get_failed", "key", genKey, "err", err)
		return ""
	}
	if ok && len(b) > 0 {
		return string(b)
	}

	return s.bumpOrganizingGen(ctx, actorID)
}

func (s *Service) bumpOrganizingGen(ctx context.Context, actorID int64) string {
	gen := uuid.NewString()

	if err := s.cache.Set(ctx, utils.BuildOrganizingGenKey(actorID), []byte(gen)); err != nil {
		s.log.WarnContext(ctx, "organizing_cache_invalidate_failed", "user_id", actorID, "err", err)
		return ""
	}

	return gen
}

// editable loads a meetup and checks it can still be changed by actorID.
func (s *Service) editable(ctx context.Context, actorID, meetupID int64, now time.Time) (meetup.Meetup, error) {
	m, err := s.repo.GetByID(ctx, meetupID)
	if err != nil {
		return meetup.Meetup{}, err
	}

	if m.UserID != actorID {
		return meetup.Meetup{}, meetup.ErrNotOwner
	}

	if meetup.IsPast(m.Date, now) {
		return meetup.Meetup{}, meetup.ErrMeetupPast
	}

	return m, nil
}

func (s *Service) validateInput(in any) error {
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", meetup.ErrInvalidInput, err)
	}

	return nil
}

func (s *Service) decorate(m meetup.Meetup, now time.Time) meetup.Meetup {
	m.Past = meetup.IsPast(m.Date, now)

	if m.Banner != nil {
		banner := *m.Banner
		banner.URL = file.PublicURL(s.filesBaseURL, banner.Path)
		m.Banner = &banner
	}

	return m
}

func (s *Service) cachedListings(ctx context.Context, key string) ([]meetup.Listing, bool) {
	if s.cache == nil {
		return nil, false
	}

	b, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "organizing_cache_get_failed", "key", key, "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var listings []meetup.Listing
	if err := json.Unmarshal(b, &listings); err != nil {
		return nil, false
	}

	return listings, true
}

func (s *Service) invalidateOrganizing(ctx context.Context, actorID int64) {
	if s.cache == nil {
		return
	}

	s.bumpOrganizingGen(ctx, actorID)
}
