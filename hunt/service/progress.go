package service

import (
	"context"
	"time"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/Ftotnem/HUNT-SERVICES/shared/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Per-team progress labels.
const (
	StatusNew        = "NEW"
	StatusDone       = "DONE!"
	StatusIncomplete = "INCOMPLETE"
	StatusNotFound   = "NOT FOUND"
)

// ItemProgress is one row of the progress view.
type ItemProgress struct {
	ID            primitive.ObjectID `json:"id"`
	Title         string             `json:"title"`
	Status        string             `json:"status"`
	ScannedBy     string             `json:"scannedBy,omitempty"`
	LastScannedBy string             `json:"lastScannedBy,omitempty"`
	TotalScans    int                `json:"totalScans"`

	// side quests only
	QuestType   models.QuestType `json:"questType,omitempty"`
	SetBy       string           `json:"setBy,omitempty"`
	SetByTeam   string           `json:"setByTeam,omitempty"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
	CompletedBy string           `json:"completedBy,omitempty"`
}

// ProgressItem is the minimum the aggregator needs about an item.
type ProgressItem struct {
	ID        primitive.ObjectID
	Title     string
	QuestType models.QuestType
	CreatedBy *models.Principal
}

// ProgressInput is everything BuildItemProgress reads.
type ProgressInput struct {
	ItemType      models.ItemType
	Items         []ProgressItem
	Scans         []models.Scan // oldest first
	Users         []models.User
	Teams         []models.Team
	RequesterTeam *primitive.ObjectID
}

// BuildItemProgress derives the per-item view for the requester's team.
func BuildItemProgress(in ProgressInput) []ItemProgress {
	users := make(map[primitive.ObjectID]*models.User, len(in.Users))
	for i := range in.Users {
		users[in.Users[i].ID] = &in.Users[i]
	}
	teams := make(map[primitive.ObjectID]*models.Team, len(in.Teams))
	for i := range in.Teams {
		teams[in.Teams[i].ID] = &in.Teams[i]
	}
	scansByItem := make(map[primitive.ObjectID][]models.Scan)
	for _, s := range in.Scans {
		scansByItem[s.ItemID] = append(scansByItem[s.ItemID], s)
	}

	var requesterTeam *models.Team
	if in.RequesterTeam != nil {
		requesterTeam = teams[*in.RequesterTeam]
	}

	out := make([]ItemProgress, 0, len(in.Items))
	for _, item := range in.Items {
		scans := scansByItem[item.ID]
		row := ItemProgress{ID: item.ID, Title: item.Title}

		var teamScans []models.Scan
		if in.RequesterTeam != nil {
			for _, s := range scans {
				if s.Team != nil && *s.Team == *in.RequesterTeam {
					teamScans = append(teamScans, s)
				}
			}
		}

		if in.ItemType == models.ItemSideQuest {
			row.Status = sideQuestStatus(teamScans)
		} else if len(teamScans) > 0 {
			row.Status = teamScans[len(teamScans)-1].Status
		} else {
			row.Status = StatusNotFound
		}

		for _, s := range teamScans {
			if u, ok := users[s.User]; ok {
				row.ScannedBy = u.DisplayName()
				break
			}
		}
		for i := len(scans) - 1; i >= 0; i-- {
			if u, ok := users[scans[i].User]; ok {
				row.LastScannedBy = u.DisplayName()
				break
			}
		}
		distinct := make(map[primitive.ObjectID]struct{})
		for _, s := range scans {
			if _, ok := users[s.User]; ok {
				distinct[s.User] = struct{}{}
			}
		}
		row.TotalScans = len(distinct)

		if in.ItemType == models.ItemSideQuest {
			row.QuestType = item.QuestType
			row.SetBy, row.SetByTeam = creatorNames(item.CreatedBy, users, teams)
			if requesterTeam != nil {
				if entry := requesterTeam.SideQuestEntry(item.ID); entry != nil {
					at := entry.CompletedAt
					row.CompletedAt = &at
					if entry.CompletedBy != nil {
						if u, ok := users[*entry.CompletedBy]; ok {
							row.CompletedBy = u.DisplayName()
						}
					}
				}
			}
		}
		out = append(out, row)
	}
	return out
}

func sideQuestStatus(teamScans []models.Scan) string {
	if len(teamScans) == 0 {
		return StatusNew
	}
	for _, s := range teamScans {
		if s.Status == models.ScanSolved {
			return StatusDone
		}
	}
	return StatusIncomplete
}

func creatorNames(p *models.Principal, users map[primitive.ObjectID]*models.User, teams map[primitive.ObjectID]*models.Team) (string, string) {
	if p == nil {
		return "", ""
	}
	if p.IsAdmin() {
		return "Game Master", ""
	}
	u, ok := users[p.ID]
	if !ok {
		return "", ""
	}
	if u.Team != nil {
		if t, ok := teams[*u.Team]; ok {
			return u.DisplayName(), t.Name
		}
	}
	return u.DisplayName(), ""
}

// ProgressService loads the data BuildItemProgress needs.
type ProgressService struct {
	stores Stores
}

func NewProgressService(stores Stores) *ProgressService {
	return &ProgressService{stores: stores}
}

// GetItemScanStats returns progress for every item of the named type.
func (s *ProgressService) GetItemScanStats(ctx context.Context, itemType string, requester *models.User) ([]ItemProgress, error) {
	t, ok := models.ParseItemType(itemType)
	if !ok {
		return nil, badRequest("Unknown item type %q", itemType)
	}

	items, err := s.items(ctx, t)
	if err != nil {
		return nil, err
	}
	scans, err := s.stores.Scans.ListByItemType(ctx, t)
	if err != nil {
		return nil, errors.Wrap(err, "load scans")
	}
	users, err := s.stores.Users.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load players")
	}
	teams, err := s.stores.Teams.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load teams")
	}

	in := ProgressInput{ItemType: t, Items: items, Scans: scans, Users: users, Teams: teams}
	if requester != nil {
		in.RequesterTeam = requester.Team
	}
	return BuildItemProgress(in), nil
}

func (s *ProgressService) items(ctx context.Context, t models.ItemType) ([]ProgressItem, error) {
	var out []ProgressItem
	switch t {
	case models.ItemClue:
		clues, err := s.stores.Clues.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "load clues")
		}
		for _, c := range clues {
			out = append(out, ProgressItem{ID: c.ID, Title: c.Title})
		}
	case models.ItemQuestion:
		questions, err := s.stores.Questions.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "load questions")
		}
		for _, q := range questions {
			out = append(out, ProgressItem{ID: q.ID, Title: q.Title})
		}
	case models.ItemSideQuest:
		quests, err := s.stores.SideQuests.List(ctx, store.SideQuestFilter{ActiveOnly: true})
		if err != nil {
			return nil, errors.Wrap(err, "load side quests")
		}
		for _, q := range quests {
			createdBy := q.CreatedBy
			out = append(out, ProgressItem{ID: q.ID, Title: q.Title, QuestType: q.QuestType, CreatedBy: &createdBy})
		}
	case models.ItemPlayer:
		users, err := s.stores.Users.List(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "load players")
		}
		for i := range users {
			out = append(out, ProgressItem{ID: users[i].ID, Title: users[i].DisplayName()})
		}
	}
	return out, nil
}
