// Package media stores uploaded photos and videos and produces archives of them.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
)

// ThumbnailWidth is the width thumbnails are resized to; height keeps the aspect ratio.
const ThumbnailWidth = 400

var ErrUnsupportedType = errors.New("only image and video uploads are accepted")

// Upload is a file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.ReadSeeker
	closer      io.Closer
}

// NewUpload wraps r and sniffs the content type when none is given.
func NewUpload(filename, contentType string, r io.ReadSeeker) (*Upload, error) {
	u := &Upload{Filename: filename, ContentType: contentType, Reader: r}
	if u.ContentType == "" || u.ContentType == "application/octet-stream" {
		sniffed, err := sniff(r)
		if err != nil {
			return nil, err
		}
		u.ContentType = sniffed
	}
	return u, nil
}

// FromFileHeader opens a multipart file part. Callers must Close the result.
func FromFileHeader(fh *multipart.FileHeader) (*Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %q: %w", fh.Filename, err)
	}
	u, err := NewUpload(fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		f.Close()
		return nil, err
	}
	u.Size = fh.Size
	u.closer = f
	return u, nil
}

func (u *Upload) Close() error {
	if u == nil || u.closer == nil {
		return nil
	}
	return u.closer.Close()
}

// Kind reports whether the upload is a photo or a video.
func (u *Upload) Kind() (models.MediaKind, error) {
	return KindOf(u.ContentType)
}

// Ext returns the file extension to store the upload under.
func (u *Upload) Ext() string {
	if ext := strings.ToLower(filepath.Ext(u.Filename)); ext != "" {
		return ext
	}
	switch u.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	}
	return ""
}

func sniff(r io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload header: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind upload: %w", err)
	}
	return http.DetectContentType(buf[:n]), nil
}

// KindOf maps a MIME type onto photo or video.
func KindOf(contentType string) (models.MediaKind, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return models.MediaPhoto, nil
	case strings.HasPrefix(ct, "video/"):
		return models.MediaVideo, nil
	}
	return "", ErrUnsupportedType
}

// Stored describes where an upload ended up.
type Stored struct {
	URL          string
	ThumbnailURL string
	MimeType     string
	Kind         models.MediaKind
}

// Storage persists uploads. Folder groups uploads by purpose (profile, sidequest...).
type Storage interface {
	Save(ctx context.Context, folder string, up *Upload) (*Stored, error)
	// Archive writes a zip of every stored upload to w.
	Archive(ctx context.Context, w io.Writer, media []models.Media) error
	// Reset removes every stored upload.
	Reset(ctx context.Context, media []models.Media) error
}
