package service

import (
	"context"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
)

// saveUpload stores up and records it in the gallery using row as the template.
// A nil upload is a no-op.
func saveUpload(ctx context.Context, stores Stores, storage media.Storage, up *media.Upload, folder string, row models.Media) (*models.Media, error) {
	if up == nil {
		return nil, nil
	}
	stored, err := storage.Save(ctx, folder, up)
	if errors.Is(err, media.ErrUnsupportedType) {
		return nil, ValidationError("file", err.Error())
	}
	if err != nil {
		return nil, errors.Wrap(err, "store upload")
	}

	row.URL = stored.URL
	row.ThumbnailURL = stored.ThumbnailURL
	row.MimeType = stored.MimeType
	if err := stores.Media.Create(ctx, &row); err != nil {
		return nil, errors.Wrap(err, "record upload")
	}
	return &row, nil
}

// storeOnly keeps an upload without a gallery row (settings artwork, clue images).
func storeOnly(ctx context.Context, storage media.Storage, up *media.Upload, folder string) (string, error) {
	if up == nil {
		return "", nil
	}
	stored, err := storage.Save(ctx, folder, up)
	if errors.Is(err, media.ErrUnsupportedType) {
		return "", ValidationError("file", err.Error())
	}
	if err != nil {
		return "", errors.Wrap(err, "store upload")
	}
	return stored.URL, nil
}
