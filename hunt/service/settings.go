package service

import (
	"context"
	"io"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/media"
	"github.com/Ftotnem/HUNT-SERVICES/shared/logger"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
)

// ResetConfirmation must be sent verbatim to wipe the game.
const ResetConfirmation = "definitely"

type SettingsUpdate struct {
	GameTitle   *string
	Tagline     *string
	Theme       *models.Theme
	QRBaseURL   *string
	Scoring     *models.ScoreWeights
	Logo        *media.Upload
	Favicon     *media.Upload
	Placeholder *media.Upload
}

type SettingsService struct {
	stores  Stores
	storage media.Storage
	log     *logger.Logger
}

func NewSettingsService(stores Stores, storage media.Storage, log *logger.Logger) *SettingsService {
	return &SettingsService{stores: stores, storage: storage, log: log}
}

func (s *SettingsService) Get(ctx context.Context) (*models.Settings, error) {
	st, err := s.stores.Settings.Get(ctx)
	return st, errors.Wrap(err, "load settings")
}

func (s *SettingsService) Update(ctx context.Context, in SettingsUpdate) (*models.Settings, error) {
	st, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load settings")
	}

	if in.GameTitle != nil {
		v := strings.TrimSpace(*in.GameTitle)
		if v == "" {
			return nil, ValidationError("gameTitle", "gameTitle cannot be empty")
		}
		st.GameTitle = v
	}
	if in.Tagline != nil {
		st.Tagline = strings.TrimSpace(*in.Tagline)
	}
	if in.Theme != nil {
		st.Theme = *in.Theme
	}
	if in.QRBaseURL != nil {
		st.QRBaseURL = strings.TrimRight(strings.TrimSpace(*in.QRBaseURL), "/")
	}
	if w := in.Scoring; w != nil {
		if w.CorrectAnswer < 0 || w.SideQuestCompleted < 0 || w.SideQuestCreated < 0 {
			return nil, ValidationError("scoring", "score weights cannot be negative")
		}
		st.Scoring = *w
	}

	for _, art := range []struct {
		up  *media.Upload
		dst *string
		as  string
	}{
		{in.Logo, &st.LogoURL, "logo"},
		{in.Favicon, &st.FaviconURL, "favicon"},
		{in.Placeholder, &st.PlaceholderURL, "placeholder"},
	} {
		url, err := storeOnly(ctx, s.storage, art.up, art.as)
		if err != nil {
			return nil, err
		}
		if url != "" {
			*art.dst = url
		}
	}

	if err := s.stores.Settings.Save(ctx, st); err != nil {
		return nil, errors.Wrap(err, "save settings")
	}
	return st, nil
}

// MasterReset wipes every player-generated collection and all uploaded files.
// Settings, admins and games survive.
func (s *SettingsService) MasterReset(ctx context.Context, confirm string) error {
	if confirm != ResetConfirmation {
		return ErrResetNotConfirmed
	}

	files, err := s.stores.Media.List(ctx, true)
	if err != nil {
		return errors.Wrap(err, "list media")
	}

	steps := []struct {
		what string
		fn   func(context.Context) error
	}{
		{"players", s.stores.Users.DeleteAll},
		{"teams", s.stores.Teams.DeleteAll},
		{"questions", s.stores.Questions.DeleteAll},
		{"clues", s.stores.Clues.DeleteAll},
		{"side quests", s.stores.SideQuests.DeleteAll},
		{"media", s.stores.Media.DeleteAll},
		{"scans", s.stores.Scans.DeleteAll},
		{"notifications", s.stores.Notifications.DeleteAll},
		{"reactions", s.stores.Reactions.DeleteAll},
		{"wall posts", s.stores.Walls.DeleteAll},
		{"kudos votes", s.stores.Kudos.DeleteAllVotes},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return errors.Wrapf(err, "reset %s", step.what)
		}
	}

	if err := s.storage.Reset(ctx, files); err != nil {
		return errors.Wrap(err, "reset uploads")
	}
	s.log.Warn("Master reset completed: %d uploaded files removed", len(files))
	return nil
}

// ArchiveMedia streams a zip of every uploaded file to w.
func (s *SettingsService) ArchiveMedia(ctx context.Context, w io.Writer) error {
	files, err := s.stores.Media.List(ctx, true)
	if err != nil {
		return errors.Wrap(err, "list media")
	}
	return errors.Wrap(s.storage.Archive(ctx, w, files), "archive uploads")
}
