package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PrincipalKind string

const (
	PrincipalUser  PrincipalKind = "user"
	PrincipalAdmin PrincipalKind = "admin"
)

// Principal identifies who authored something: a player or an administrator.
type Principal struct {
	Kind PrincipalKind      `bson:"kind" json:"kind"`
	ID   primitive.ObjectID `bson:"id" json:"id"`
}

func UserPrincipal(id primitive.ObjectID) Principal {
	return Principal{Kind: PrincipalUser, ID: id}
}

func AdminPrincipal(id primitive.ObjectID) Principal {
	return Principal{Kind: PrincipalAdmin, ID: id}
}

func (p Principal) IsUser() bool  { return p.Kind == PrincipalUser }
func (p Principal) IsAdmin() bool { return p.Kind == PrincipalAdmin }

func (p Principal) String() string {
	return fmt.Sprintf("%s:%s", p.Kind, p.ID.Hex())
}
