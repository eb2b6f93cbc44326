package http

import (
	"log/slog"

	"github.com/geocoder89/meetuphub/internal/auth"
	"github.com/geocoder89/meetuphub/internal/config"
	"github.com/geocoder89/meetuphub/internal/http/handlers"
	"github.com/geocoder89/meetuphub/internal/http/middlewares"
	"github.com/geocoder89/meetuphub/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Tokens issues access tokens at login and verifies them on protected routes.
type Tokens interface {
	GenerateAccessToken(userID int64, email string) (string, error)
	VerifyAccessToken(token string) (*auth.Claims, error)
}

type Users interface {
	handlers.UserReader
	handlers.UserWriter
}

// Deps is everything the router wires into handlers. Storage and Files are
// optional; without them POST /files is not mounted.
type Deps struct {
	Log     *slog.Logger
	Config  config.Config
	Meetups handlers.MeetupService
	Users   Users
	Hasher  handlers.PasswordHasher
	Tokens  Tokens
	Storage handlers.ObjectStorage
	Files   handlers.FilesWriter
	Prom    *observability.Prom
	Ready   map[string]handlers.Pinger
}

func NewRouter(d Deps) *gin.Engine {
	if !d.Config.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware("meetuphub-api"))
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders("/docs"))
	r.Use(middlewares.CORSMiddleware(d.Config.CORSAllowedOrigins))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
		r.GET("/metrics", gin.WrapH(d.Prom.Handler()))
	}

	// health
	h := handlers.NewHealthHandler(d.Ready)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	// docs
	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	limiter := middlewares.NewRateLimiter(d.Config.RateLimit, d.Config.RateWindow)
	authMW := middlewares.NewAuthMiddleware(d.Tokens)

	jsonBody := []gin.HandlerFunc{
		middlewares.RequireJSON(),
		middlewares.MaxBodyBytes(d.Config.MaxBodyBytes),
	}

	// public auth routes
	authHandler := handlers.NewAuthHandler(d.Users, d.Users, d.Hasher, d.Tokens, log)
	public := r.Group("/", limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	public.Use(jsonBody...)
	public.POST("/users", authHandler.SignUp)
	public.POST("/sessions", authHandler.Login)

	// everything below acts on behalf of the token holder
	protected := r.Group("/", authMW.RequireAuth(), limiter.RateLimiterMiddleware(middlewares.KeyByUserOrIP))

	meetupsHandler := handlers.NewMeetupsHandler(d.Meetups, log)
	protected.GET("/meetups", meetupsHandler.ListMeetups)
	protected.GET("/organizing", meetupsHandler.ListOrganizing)
	protected.DELETE("/meetups/:id", meetupsHandler.DeleteMeetup)

	writes := protected.Group("/", jsonBody...)
	writes.POST("/meetups", meetupsHandler.CreateMeetup)
	writes.PUT("/meetups/:id", meetupsHandler.UpdateMeetup)

	if d.Storage != nil && d.Files != nil {
		filesHandler := handlers.NewFilesHandler(d.Storage, d.Files, d.Config.FilesPublicURL, log)
		uploads := protected.Group("/",
			middlewares.RequireContentType("multipart/form-data"),
			middlewares.MaxBodyBytes(d.Config.MaxUploadBytes),
		)
		uploads.POST("/files", filesHandler.Upload)
	}

	return r
}
