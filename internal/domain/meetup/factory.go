package meetup

import "time"

func NewFromCreateRequest(ownerID int64, req CreateMeetupRequest, now time.Time) Meetup {
	return Meetup{
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		FileID:      req.FileID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
