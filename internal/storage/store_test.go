package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewObjectNameIsUniqueJPEG(t *testing.T) {
	a := NewObjectName()
	b := NewObjectName()
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
}

func TestObjectNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://storage.local/prompt-images/1717500000-ab12cd34.jpg", "1717500000-ab12cd34.jpg"},
		{"http://minio:9000/prompt-images/x.jpg", "x.jpg"},
		{"https://storage.local/prompt-images/x.jpg/", "x.jpg"},
		{"", ""},
		{"://bad url", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ObjectNameFromURL(tt.url), tt.url)
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	require.NoError(t, s.Upload(ctx, "a.jpg", strings.NewReader("bytes"), 5, "image/jpeg"))
	assert.True(t, s.Has("a.jpg"))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "https://storage.local/prompt-images/a.jpg", s.PublicURL("a.jpg"))

	require.NoError(t, s.Remove(ctx, "a.jpg"))
	assert.False(t, s.Has("a.jpg"))

	// Removing an absent object stays quiet, like the real bucket.
	require.NoError(t, s.Remove(ctx, "a.jpg"))
}
