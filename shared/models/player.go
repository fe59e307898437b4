// shared/models/player.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationCategory names one of the per-player notification preferences.
type NotificationCategory string

const (
	NotifyScans      NotificationCategory = "scans"
	NotifySideQuests NotificationCategory = "sideQuests"
	NotifyRank       NotificationCategory = "rank"
	NotifyWall       NotificationCategory = "wall"
	NotifyKudos      NotificationCategory = "kudos"
	NotifyBroadcast  NotificationCategory = "broadcast"
)

// NotificationPrefs holds per-category opt-ins. New players get everything enabled.
type NotificationPrefs struct {
	Scans      bool `bson:"scans" json:"scans"`
	SideQuests bool `bson:"sideQuests" json:"sideQuests"`
	Rank       bool `bson:"rank" json:"rank"`
	Wall       bool `bson:"wall" json:"wall"`
	Kudos      bool `bson:"kudos" json:"kudos"`
	Broadcast  bool `bson:"broadcast" json:"broadcast"`
}

func DefaultNotificationPrefs() NotificationPrefs {
	return NotificationPrefs{Scans: true, SideQuests: true, Rank: true, Wall: true, Kudos: true, Broadcast: true}
}

// Wants reports whether the player opted in to the given category.
func (p NotificationPrefs) Wants(c NotificationCategory) bool {
	switch c {
	case NotifyScans:
		return p.Scans
	case NotifySideQuests:
		return p.SideQuests
	case NotifyRank:
		return p.Rank
	case NotifyWall:
		return p.Wall
	case NotifyKudos:
		return p.Kudos
	case NotifyBroadcast:
		return p.Broadcast
	}
	return false
}

// User is a player. IsAdmin marks the team leader, not a game administrator.
type User struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name              string              `bson:"name" json:"name"`
	FirstName         string              `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName          string              `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email             string              `bson:"email,omitempty" json:"email,omitempty"`
	PasswordHash      string              `bson:"passwordHash,omitempty" json:"-"`
	PhotoURL          string              `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Team              *primitive.ObjectID `bson:"team,omitempty" json:"team,omitempty"`
	IsAdmin           bool                `bson:"isAdmin" json:"isAdmin"`
	NotificationPrefs NotificationPrefs   `bson:"notificationPrefs" json:"notificationPrefs"`
	QRCodeData        string              `bson:"qrCodeData,omitempty" json:"-"`
	QRBaseURL         string              `bson:"qrBaseUrl,omitempty" json:"-"`
	CreatedAt         time.Time           `bson:"createdAt" json:"createdAt"`
}

// DisplayName prefers "First Last" when both parts are present.
func (u *User) DisplayName() string {
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Name
}

// OnTeam reports whether the player belongs to the given team.
func (u *User) OnTeam(teamID primitive.ObjectID) bool {
	return u.Team != nil && *u.Team == teamID
}

// Admin is a game administrator account.
type Admin struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
