package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestEtagListed(t *testing.T) {
	tests := []struct {
		name   string
		header string
		tag    string
		want   bool
	}{
		{"empty header", "", `"abc"`, false},
		{"exact", `"abc"`, `"abc"`, true},
		{"weak candidate", `W/"abc"`, `"abc"`, true},
		{"list", `"x", "abc"`, `"abc"`, true},
		{"wildcard", " * ", `"abc"`, true},
		{"mismatch", `"x"`, `"abc"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := etagListed(tt.header, tt.tag); got != tt.want {
				t.Fatalf("etagListed(%q, %q) = %v, want %v", tt.header, tt.tag, got, tt.want)
			}
		})
	}
}

func TestContentETagIsStable(t *testing.T) {
	a := contentETag([]byte(`{"count":1}`))
	b := contentETag([]byte(`{"count":1}`))
	c := contentETag([]byte(`{"count":2}`))

	if a != b || a == c {
		t.Fatalf("unexpected etags %s %s %s", a, b, c)
	}
}

func TestRespondJSONWithETag_NotModified(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", func(ctx *gin.Context) {
		RespondJSONWithETag(ctx, http.StatusOK, gin.H{"count": 1})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Code != http.StatusOK || w.Body.String() != `{"count":1}` {
		t.Fatalf("first response: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get("Cache-Control") != "private, no-cache" {
		t.Fatalf("cache-control = %q", w.Header().Get("Cache-Control"))
	}

	tag := w.Header().Get("ETag")
	if tag == "" {
		t.Fatal("missing etag")
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("If-None-Match", "W/"+tag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotModified || w.Body.Len() != 0 {
		t.Fatalf("revalidation: %d %q", w.Code, w.Body.String())
	}
}
