package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/meetuphub/internal/domain/file"
	"github.com/geocoder89/meetuphub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type fakeObjectStorage struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (f *fakeObjectStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.key, f.contentType, f.data = key, contentType, b
	return nil
}

type fakeFilesWriter struct {
	createFn func(ctx context.Context, name, path string) (file.File, error)
}

func (f *fakeFilesWriter) Create(ctx context.Context, name, path string) (file.File, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, path)
	}
	return file.File{ID: 1, Name: name, Path: path}, nil
}

// smallest valid PNG header is enough for content sniffing
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	return buf, mw.FormDataContentType()
}

func setupFilesRouter(storage handlers.ObjectStorage, files handlers.FilesWriter) *gin.Engine {
	r := gin.New()
	h := handlers.NewFilesHandler(storage, files, "https://cdn.example.com/", nil)
	r.POST("/files", asUser(3), h.Upload)
	return r
}

func TestUploadBanner(t *testing.T) {
	storage := &fakeObjectStorage{}
	r := setupFilesRouter(storage, &fakeFilesWriter{})

	body, ct := multipartBody(t, "file", "../cover.png", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/files", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
	}
	if storage.contentType != "image/png" || !bytes.Equal(storage.data, pngBytes) {
		t.Fatalf("unexpected stored object type=%q len=%d", storage.contentType, len(storage.data))
	}
	if !strings.HasPrefix(storage.key, "banners/") || !strings.HasSuffix(storage.key, ".png") {
		t.Fatalf("unexpected key %q", storage.key)
	}

	var got file.File
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Name != "cover.png" || got.Path != storage.key {
		t.Fatalf("unexpected file %+v", got)
	}
	if got.URL != "https://cdn.example.com/"+storage.key {
		t.Fatalf("unexpected url %q", got.URL)
	}
}

func TestUploadBanner_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		data    []byte
		storage *fakeObjectStorage
		want    int
	}{
		{"missing field", "other", pngBytes, &fakeObjectStorage{}, http.StatusBadRequest},
		{"not an image", "file", []byte("hello, plain text"), &fakeObjectStorage{}, http.StatusBadRequest},
		{"storage failure", "file", pngBytes, &fakeObjectStorage{err: errors.New("bucket gone")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupFilesRouter(tt.storage, &fakeFilesWriter{})

			body, ct := multipartBody(t, tt.field, "x.png", tt.data)
			req := httptest.NewRequest(http.MethodPost, "/files", body)
			req.Header.Set("Content-Type", ct)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d body=%s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
