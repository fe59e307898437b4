package media

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

const cloudinaryRoot = "hunt"

// CloudinaryStorage keeps uploads on Cloudinary. Thumbnails are derived URLs.
type CloudinaryStorage struct {
	cld  *cloudinary.Cloudinary
	http *http.Client
	log  *logger.Logger
}

func NewCloudinaryStorage(cloudName, apiKey, apiSecret string, log *logger.Logger) (*CloudinaryStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary configuration is missing")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorage{
		cld:  cld,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  log,
	}, nil
}

func (s *CloudinaryStorage) Save(ctx context.Context, folder string, up *Upload) (*Stored, error) {
	kind, err := up.Kind()
	if err != nil {
		return nil, err
	}

	res, err := s.cld.Upload.Upload(ctx, up.Reader, uploader.UploadParams{
		PublicID:     uuid.NewString(),
		Folder:       path.Join(cloudinaryRoot, folder),
		ResourceType: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if res.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}

	stored := &Stored{URL: res.SecureURL, MimeType: up.ContentType, Kind: kind}
	if kind == models.MediaPhoto {
		stored.ThumbnailURL = ThumbnailURL(res.SecureURL)
	}
	return stored, nil
}

// ThumbnailURL inserts a width-limited thumb transformation into a delivery URL.
func ThumbnailURL(url string) string {
	const marker = "/upload/"
	i := strings.Index(url, marker)
	if i < 0 {
		return url
	}
	return fmt.Sprintf("%sc_thumb,w_%d/%s", url[:i+len(marker)], ThumbnailWidth, url[i+len(marker):])
}

// PublicID extracts the public ID from a delivery URL, dropping any
// transformation, the version segment and the extension.
func PublicID(url string) (string, bool) {
	const marker = "/upload/"
	i := strings.Index(url, marker)
	if i < 0 {
		return "", false
	}
	rest := url[i+len(marker):]
	if j := strings.Index(rest, cloudinaryRoot+"/"); j >= 0 {
		rest = rest[j:]
	} else if seg, tail, ok := strings.Cut(rest, "/"); ok && len(seg) > 1 && seg[0] == 'v' && isDigits(seg[1:]) {
		rest = tail
	}
	id := strings.TrimSuffix(rest, path.Ext(rest))
	return id, id != ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func resourceType(m models.Media) string {
	if strings.HasPrefix(m.MimeType, "video/") || strings.Contains(m.URL, "/video/upload/") {
		return "video"
	}
	return "image"
}

// Archive downloads every media item and zips them.
func (s *CloudinaryStorage) Archive(ctx context.Context, w io.Writer, media []models.Media) error {
	zw := zip.NewWriter(w)
	for _, m := range media {
		if err := s.fetchInto(ctx, zw, m); err != nil {
			s.log.Warn("Skipping %s in archive: %v", m.URL, err)
		}
	}
	return zw.Close()
}

func (s *CloudinaryStorage) fetchInto(ctx context.Context, zw *zip.Writer, m models.Media) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.URL, nil)
	if err != nil {
		return err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	entry, err := zw.Create(m.ID.Hex() + path.Ext(m.URL))
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, resp.Body)
	return err
}

// Reset destroys every known media item on Cloudinary.
func (s *CloudinaryStorage) Reset(ctx context.Context, media []models.Media) error {
	var failed int
	for _, m := range media {
		id, ok := PublicID(m.URL)
		if !ok {
			continue
		}
		if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: id, ResourceType: resourceType(m)}); err != nil {
			s.log.Warn("Failed to delete %s from cloudinary: %v", id, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to delete %d of %d media items", failed, len(media))
	}
	return nil
}
