package file

import (
	"strings"
	"time"
)

// File is an uploaded banner image. Path is the object key in the bucket.
type File struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Banner is the file subset joined onto meetups.
type Banner struct {
	ID   int64  `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

// PublicURL joins the configured public base with an object path.
// An empty base leaves the URL empty.
func PublicURL(base, path string) string {
	if base == "" || path == "" {
		return ""
	}

	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
