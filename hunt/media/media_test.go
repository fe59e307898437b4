package media

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		ct      string
		want    models.MediaKind
		wantErr bool
	}{
		{"image/jpeg", models.MediaPhoto, false},
		{"IMAGE/PNG", models.MediaPhoto, false},
		{"video/mp4", models.MediaVideo, false},
		{"application/pdf", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := KindOf(tt.ct)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnsupportedType, tt.ct)
			continue
		}
		require.NoError(t, err, tt.ct)
		assert.Equal(t, tt.want, got, tt.ct)
	}
}

func TestNewUploadSniffsContentType(t *testing.T) {
	up, err := NewUpload("selfie", "", bytes.NewReader(pngBytes(t, 4, 4)))
	require.NoError(t, err)
	assert.Equal(t, "image/png", up.ContentType)
	assert.Equal(t, ".png", up.Ext())

	// reader is rewound after sniffing
	var buf bytes.Buffer
	_, err = buf.ReadFrom(up.Reader)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestLocalStorageSaveWritesThumbnail(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads", logger.Discard())
	require.NoError(t, err)

	up, err := NewUpload("team.png", "image/png", bytes.NewReader(pngBytes(t, 800, 600)))
	require.NoError(t, err)

	stored, err := s.Save(context.Background(), "profile", up)
	require.NoError(t, err)
	assert.Equal(t, models.MediaPhoto, stored.Kind)
	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/profile-"))
	assert.True(t, strings.HasPrefix(stored.ThumbnailURL, "/uploads/thumbs/"))

	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(stored.URL, "/uploads/")))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "thumbs", filepath.Base(stored.ThumbnailURL)))
	assert.NoError(t, err)
}

func TestLocalStorageRejectsNonMedia(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "/uploads", logger.Discard())
	require.NoError(t, err)

	up, err := NewUpload("notes.txt", "text/plain", bytes.NewReader([]byte("hello")))
	require.NoError(t, err)
	_, err = s.Save(context.Background(), "other", up)
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStorageArchiveAndReset(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/uploads", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("video"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, s.Archive(context.Background(), &buf, nil))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "a.mp4", zr.File[0].Name)

	require.NoError(t, s.Reset(context.Background(), nil))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "thumbs", entries[0].Name())
}

func TestCloudinaryURLHelpers(t *testing.T) {
	url := "https://res.cloudinary.com/demo/image/upload/v1712345678/hunt/sidequest/abc-123.jpg"

	assert.Equal(t,
		"https://res.cloudinary.com/demo/image/upload/c_thumb,w_400/v1712345678/hunt/sidequest/abc-123.jpg",
		ThumbnailURL(url))

	id, ok := PublicID(url)
	require.True(t, ok)
	assert.Equal(t, "hunt/sidequest/abc-123", id)

	id, ok = PublicID(ThumbnailURL(url))
	require.True(t, ok)
	assert.Equal(t, "hunt/sidequest/abc-123", id)

	id, ok = PublicID("https://res.cloudinary.com/demo/image/upload/v1/other/pic.png")
	require.True(t, ok)
	assert.Equal(t, "other/pic", id)

	_, ok = PublicID("/uploads/local.png")
	assert.False(t, ok)
}
