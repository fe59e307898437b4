package media

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// LocalStorage writes uploads under a server-local directory served at URLPrefix.
type LocalStorage struct {
	dir       string
	urlPrefix string
	log       *logger.Logger
}

func NewLocalStorage(dir, urlPrefix string, log *logger.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(filepath.Join(dir, "thumbs"), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, urlPrefix: urlPrefix, log: log}, nil
}

func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Save(_ context.Context, folder string, up *Upload) (*Stored, error) {
	kind, err := up.Kind()
	if err != nil {
		return nil, err
	}

	name := folder + "-" + uuid.NewString() + up.Ext()
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, up.Reader); err != nil {
		dst.Close()
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", name, err)
	}

	stored := &Stored{
		URL:      path.Join(s.urlPrefix, name),
		MimeType: up.ContentType,
		Kind:     kind,
	}
	if kind == models.MediaPhoto {
		thumb, err := s.thumbnail(name)
		if err != nil {
			// original stays usable without a thumbnail
			s.log.Warn("Thumbnail for %s failed: %v", name, err)
		} else {
			stored.ThumbnailURL = path.Join(s.urlPrefix, "thumbs", thumb)
		}
	}
	return stored, nil
}

func (s *LocalStorage) thumbnail(name string) (string, error) {
	img, err := imaging.Open(filepath.Join(s.dir, name), imaging.AutoOrientation(true))
	if err != nil {
		return "", err
	}
	thumbName := name[:len(name)-len(filepath.Ext(name))] + ".jpg"
	resized := imaging.Resize(img, ThumbnailWidth, 0, imaging.Lanczos)
	if err := imaging.Save(resized, filepath.Join(s.dir, "thumbs", thumbName), imaging.JPEGQuality(80)); err != nil {
		return "", err
	}
	return thumbName, nil
}

// Archive zips the whole uploads directory, thumbnails included.
func (s *LocalStorage) Archive(ctx context.Context, w io.Writer, _ []models.Media) error {
	zw := zip.NewWriter(w)
	err := filepath.WalkDir(s.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, p)
		if err != nil {
			return err
		}
		return addFile(zw, filepath.ToSlash(rel), p)
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("failed to archive uploads: %w", err)
	}
	return zw.Close()
}

func addFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	entry, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, f)
	return err
}

// Reset empties the uploads directory and recreates its layout.
func (s *LocalStorage) Reset(_ context.Context, _ []models.Media) error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("failed to remove uploads directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Join(s.dir, "thumbs"), 0o755); err != nil {
		return fmt.Errorf("failed to recreate uploads directory: %w", err)
	}
	return nil
}
