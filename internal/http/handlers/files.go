package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/geocoder89/meetuphub/internal/domain/file"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}

type FilesWriter interface {
	Create(ctx context.Context, name, path string) (file.File, error)
}

var allowedBannerTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type FilesHandler struct {
	storage ObjectStorage
	files   FilesWriter
	baseURL string
	log     *slog.Logger
}

func NewFilesHandler(storage ObjectStorage, files FilesWriter, baseURL string, log *slog.Logger) *FilesHandler {
	if log == nil {
		log = slog.Default()
	}

	return &FilesHandler{storage: storage, files: files, baseURL: baseURL, log: log}
}

// Upload stores a banner image and records it so meetups can reference it by id.
func (h *FilesHandler) Upload(ctx *gin.Context) {
	if _, ok := actorFrom(ctx); !ok {
		return
	}

	header, err := ctx.FormFile("file")
	if err != nil {
		RespondBadRequest(ctx, msgValidationFails, gin.H{"field": "file", "reason": "is required"})
		return
	}

	src, err := header.Open()
	if err != nil {
		RespondBadRequest(ctx, msgValidationFails, gin.H{"field": "file", "reason": "could not be read"})
		return
	}
	defer src.Close()

	// sniff the real type instead of trusting the part header
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		RespondBadRequest(ctx, msgValidationFails, gin.H{"field": "file", "reason": "could not be read"})
		return
	}

	contentType := http.DetectContentType(head[:n])
	ext, ok := allowedBannerTypes[contentType]
	if !ok {
		RespondBadRequest(ctx, msgValidationFails, gin.H{"field": "file", "reason": "must be a supported image type"})
		return
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		RespondInternal(ctx, "Could not store file")
		return
	}

	key := "banners/" + uuid.NewString() + ext

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.storage.Put(cctx, key, src, header.Size, contentType); err != nil {
		h.log.ErrorContext(cctx, "file_upload_failed", "key", key, "err", err)
		RespondInternal(ctx, "Could not store file")
		return
	}

	stored, err := h.files.Create(cctx, originalName(header.Filename), key)
	if err != nil {
		h.log.ErrorContext(cctx, "file_record_failed", "key", key, "err", err)
		RespondInternal(ctx, "Could not store file")
		return
	}

	stored.URL = file.PublicURL(h.baseURL, stored.Path)

	ctx.JSON(http.StatusOK, stored)
}

func originalName(name string) string {
	name = strings.TrimSpace(filepath.Base(name))
	if name == "" || name == "." || name == "/" {
		return "banner"
	}

	return name
}
