package meetup

import (
	"errors"
	"time"

	"github.com/geocoder89/meetuphub/internal/domain/file"
	"github.com/geocoder89/meetuphub/internal/domain/user"
)

// PageSize is the fixed window of the date-filtered listing.
const PageSize = 10

type Meetup struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	FileID      *int64    `json:"file_id"`
	Past        bool      `json:"past"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Organizer *user.Summary `json:"organizer,omitempty"`
	Banner    *file.Banner  `json:"banner,omitempty"`
}

// Listing is the field subset returned to an organizer for their own meetups.
type Listing struct {
	ID          int64        `json:"id"`
	UserID      int64        `json:"user_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Location    string       `json:"location"`
	Date        time.Time    `json:"date"`
	FileID      *int64       `json:"file_id"`
	Past        bool         `json:"past"`
	Banner      *file.Banner `json:"banner"`
}

// with pointers if optional, it will be nil
type ListMeetupsFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

var (
	ErrNotFound     = errors.New("meetup not found")
	ErrNotOwner     = errors.New("actor is not the meetup organizer")
	ErrPastDate     = errors.New("meetup date is in the past")
	ErrMeetupPast   = errors.New("meetup already happened")
	ErrInvalidInput = errors.New("invalid meetup input")
)

type CreateMeetupRequest struct {
	Title       string    `json:"title" binding:"required,notblank,max=120"`
	Description string    `json:"description" binding:"required,notblank,max=2000"`
	Location    string    `json:"location" binding:"required,notblank,max=200"`
	Date        time.Time `json:"date" binding:"required"`
	FileID      *int64    `json:"file_id" binding:"omitempty,min=1"`
}

// UpdateMeetupRequest is a partial update; nil fields are left untouched.
type UpdateMeetupRequest struct {
	Title       *string    `json:"title" binding:"omitempty,notblank,max=120"`
	Description *string    `json:"description" binding:"omitempty,notblank,max=2000"`
	Location    *string    `json:"location" binding:"omitempty,notblank,max=200"`
	Date        *time.Time `json:"date"`
	FileID      *int64     `json:"file_id" binding:"omitempty,min=1"`
}

// Apply copies the set fields of req onto m.
func (m Meetup) Apply(req UpdateMeetupRequest) Meetup {
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Location != nil {
		m.Location = *req.Location
	}
	if req.Date != nil {
		m.Date = *req.Date
	}
	if req.FileID != nil {
		id := *req.FileID
		m.FileID = &id
	}

	return m
}

func (m Meetup) ToListing() Listing {
	return Listing{
		ID:          m.ID,
		UserID:      m.UserID,
		Title:       m.Title,
		Description: m.Description,
		Location:    m.Location,
		Date:        m.Date,
		FileID:      m.FileID,
		Past:        m.Past,
		Banner:      m.Banner,
	}
}
