package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/meetuphub/internal/domain/meetup"
	"github.com/geocoder89/meetuphub/internal/http/middlewares"
	"github.com/geocoder89/meetuphub/internal/meetups"
	"github.com/geocoder89/meetuphub/internal/utils"
	"github.com/gin-gonic/gin"
)

type MeetupService interface {
	Store(ctx context.Context, actorID int64, req meetup.CreateMeetupRequest) (meetup.Meetup, error)
	UpdateJSON(ctx context.Context, actorID, meetupID int64, body []byte) (meetup.Meetup, error)
	Delete(ctx context.Context, actorID, meetupID int64) error
	List(ctx context.Context, q meetups.ListQuery) (meetups.Page, error)
	ListOrganizing(ctx context.Context, actorID int64) ([]meetup.Listing, error)
}

type MeetupsHandler struct {
	svc     MeetupService
	log     *slog.Logger
	timeout time.Duration
}

func NewMeetupsHandler(svc MeetupService, log *slog.Logger) *MeetupsHandler {
	if log == nil {
		log = slog.Default()
	}

	return &MeetupsHandler{svc: svc, log: log, timeout: 3 * time.Second}
}

func (h *MeetupsHandler) CreateMeetup(ctx *gin.Context) {
	actorID, ok := actorFrom(ctx)
	if !ok {
		return
	}

	var req meetup.CreateMeetupRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	created, err := h.svc.Store(cctx, actorID, req)
	if err != nil {
		h.respondMeetupError(ctx, err, &req)
		return
	}

	ctx.JSON(http.StatusOK, created)
}

// UpdateMeetup hands the raw body to the service, which decodes it only after
// the ownership checks. Only an unreadable body is refused here.
func (h *MeetupsHandler) UpdateMeetup(ctx *gin.Context) {
	actorID, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	body, err := io.ReadAll(ctx.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", "Request body is too large", nil)
			return
		}
		RespondBadRequest(ctx, msgValidationFails, gin.H{"reason": "body could not be read"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	updated, err := h.svc.UpdateJSON(cctx, actorID, id, body)
	if err != nil {
		h.respondMeetupError(ctx, err, &meetup.UpdateMeetupRequest{})
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *MeetupsHandler) ListMeetups(ctx *gin.Context) {
	if _, ok := actorFrom(ctx); !ok {
		return
	}

	page := utils.ParsePage(ctx.Query("page"))

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.svc.List(cctx, meetups.ListQuery{Date: ctx.Query("date"), Page: page})
	if err != nil {
		h.respondMeetupError(ctx, err, nil)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, result)
}

func (h *MeetupsHandler) ListOrganizing(ctx *gin.Context) {
	actorID, ok := actorFrom(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	items, err := h.svc.ListOrganizing(cctx, actorID)
	if err != nil {
		h.respondMeetupError(ctx, err, nil)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *MeetupsHandler) DeleteMeetup(ctx *gin.Context) {
	actorID, ok := actorFrom(ctx)
	if !ok {
		return
	}

	id, ok := parseMeetupID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	if err := h.svc.Delete(cctx, actorID, id); err != nil {
		h.respondMeetupError(ctx, err, nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
}

// respondMeetupError is the single place domain errors become responses.
func (h *MeetupsHandler) respondMeetupError(ctx *gin.Context, err error, payload interface{}) {
	switch {
	case errors.Is(err, meetup.ErrInvalidInput):
		RespondBadRequest(ctx, msgValidationFails, parseBindError(err, payload))
	case errors.Is(err, meetup.ErrPastDate):
		RespondError(ctx, http.StatusBadRequest, "past_date", "Meetup date invalid", nil)
	case errors.Is(err, meetup.ErrMeetupPast):
		RespondError(ctx, http.StatusBadRequest, "meetup_past", "Date of event invalid", nil)
	case errors.Is(err, meetup.ErrNotFound):
		RespondError(ctx, http.StatusBadRequest, "not_found", "Meetup not found", nil)
	case errors.Is(err, meetup.ErrNotOwner):
		RespondUnauthorized(ctx, "not_owner", "You're not the creator of the meetup.")
	case errors.Is(err, context.DeadlineExceeded):
		RespondError(ctx, http.StatusGatewayTimeout, "timeout", "Request timed out", nil)
	default:
		h.log.ErrorContext(ctx.Request.Context(), "meetup_request_failed",
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		RespondInternal(ctx, "Something went wrong")
	}
}

func actorFrom(ctx *gin.Context) (int64, bool) {
	id, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthorized", "Authentication required")
		return 0, false
	}

	return id, true
}

func parseMeetupID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		RespondError(ctx, http.StatusBadRequest, "not_found", "Meetup not found", nil)
		return 0, false
	}

	return id, true
}
