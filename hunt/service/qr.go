package service

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QRSize is the rendered PNG edge in pixels.
const QRSize = 512

// QRCode is a rendered code and the link it encodes.
type QRCode struct {
	URL     string `json:"url"`
	DataURL string `json:"qrCodeData"`
}

// QRService renders QR codes and caches them on the item, keyed by the base URL
// they were rendered for.
type QRService struct {
	stores        Stores
	publicBaseURL string
}

func NewQRService(stores Stores, publicBaseURL string) *QRService {
	return &QRService{stores: stores, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *QRService) Clue(ctx context.Context, id primitive.ObjectID) (*QRCode, error) {
	c, err := s.stores.Clues.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrClueNotFound, "load clue")
	}
	return s.render(ctx, models.ItemClue, id, c.QRCodeData, c.QRBaseURL, s.stores.Clues.SetQRCode)
}

func (s *QRService) Question(ctx context.Context, id primitive.ObjectID) (*QRCode, error) {
	q, err := s.stores.Questions.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrQuestionNotFound, "load question")
	}
	return s.render(ctx, models.ItemQuestion, id, q.QRCodeData, q.QRBaseURL, s.stores.Questions.SetQRCode)
}

func (s *QRService) SideQuest(ctx context.Context, id primitive.ObjectID) (*QRCode, error) {
	q, err := s.stores.SideQuests.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrSideQuestNotFound, "load side quest")
	}
	return s.render(ctx, models.ItemSideQuest, id, q.QRCodeData, q.QRBaseURL, s.stores.SideQuests.SetQRCode)
}

func (s *QRService) Player(ctx context.Context, id primitive.ObjectID) (*QRCode, error) {
	u, err := s.stores.Users.Get(ctx, id)
	if err != nil {
		return nil, lookup(err, ErrUserNotFound, "load player")
	}
	return s.render(ctx, models.ItemPlayer, id, u.QRCodeData, u.QRBaseURL, s.stores.Users.SetQRCode)
}

type saveQR func(ctx context.Context, id primitive.ObjectID, data, baseURL string) error

func (s *QRService) render(ctx context.Context, itemType models.ItemType, id primitive.ObjectID, cached, cachedBase string, save saveQR) (*QRCode, error) {
	base, err := s.baseURL(ctx)
	if err != nil {
		return nil, err
	}
	link := base + ItemLink(itemType, id)
	if cached != "" && cachedBase == base {
		return &QRCode{URL: link, DataURL: cached}, nil
	}

	data, err := EncodeQR(link)
	if err != nil {
		return nil, err
	}
	if err := save(ctx, id, data, base); err != nil {
		return nil, errors.Wrapf(err, "cache %s QR code", itemType)
	}
	return &QRCode{URL: link, DataURL: data}, nil
}

func (s *QRService) baseURL(ctx context.Context) (string, error) {
	st, err := s.stores.Settings.Get(ctx)
	if err != nil {
		return "", errors.Wrap(err, "load settings")
	}
	if base := strings.TrimRight(st.QRBaseURL, "/"); base != "" {
		return base, nil
	}
	return s.publicBaseURL, nil
}

// EncodeQR renders content as a PNG data URL.
func EncodeQR(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, QRSize)
	if err != nil {
		return "", errors.Wrap(err, "encode QR code")
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
