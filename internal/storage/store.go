package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStore is the slice of the object-storage service the gallery needs:
// upload, best-effort delete, and public URL resolution.
type ObjectStore interface {
	Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, name string) error
	PublicURL(name string) string
}

// NewObjectName returns a fresh unique object name with a jpg extension,
// since every stored image is re-encoded as JPEG before upload.
func NewObjectName() string {
	return fmt.Sprintf("%d-%s.jpg", time.Now().Unix(), uuid.NewString()[:8])
}

// ObjectNameFromURL extracts the object name from a public URL. Returns ""
// when the URL carries no usable path segment.
func ObjectNameFromURL(publicURL string) string {
	u, err := url.Parse(publicURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}
