package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/meetuphub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

type UserWriter interface {
	Create(ctx context.Context, name, email, passwordHash string) (user.User, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Check(hash, plain string) error
}

type TokenIssuer interface {
	GenerateAccessToken(userID int64, email string) (string, error)
}

type AuthHandler struct {
	users      UserReader
	userWriter UserWriter
	hasher     PasswordHasher
	tokens     TokenIssuer
	log        *slog.Logger
}

func NewAuthHandler(users UserReader, userWriter UserWriter, hasher PasswordHasher, tokens TokenIssuer, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}

	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		hasher:     hasher,
		tokens:     tokens,
		log:        log,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type sessionResponse struct {
	User        user.User `json:"user"`
	AccessToken string    `json:"accessToken"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u, err := h.userWriter.Create(cctx, strings.TrimSpace(req.Name), normalizeEmail(req.Email), hash)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondConflict(ctx, "email_taken", "Email is already in use.")
			return
		}

		h.log.ErrorContext(cctx, "signup_failed", "err", err)
		RespondInternal(ctx, "Could not create user")
		return
	}

	accessToken, err := h.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	h.log.InfoContext(cctx, "user_signed_up", "user_id", u.ID)

	ctx.JSON(http.StatusCreated, sessionResponse{User: u, AccessToken: accessToken})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// short timeout for DB lookup
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	foundUser, err := h.users.GetByEmail(cctx, normalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			h.log.ErrorContext(cctx, "login_lookup_failed", "err", err)
		}
		RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	if err := h.hasher.Check(foundUser.PasswordHash, req.Password); err != nil {
		RespondUnauthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	accessToken, err := h.tokens.GenerateAccessToken(foundUser.ID, foundUser.Email)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, sessionResponse{User: foundUser, AccessToken: accessToken})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
