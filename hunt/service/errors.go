package service

import (
	"fmt"

	"github.com/Ftotnem/HUNT-SERVICES/hunt/store"
	"github.com/pkg/errors"
)

// Kind classifies a service error for the API layer.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a client-facing failure. Anything else reaching the API layer is internal.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string { return e.Message }

func badRequest(format string, args ...interface{}) error {
	return &Error{Kind: KindBadRequest, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// ValidationError reports a single invalid field.
func ValidationError(field, message string) error {
	return &Error{Kind: KindBadRequest, Message: message, Fields: map[string]string{field: message}}
}

// KindOf returns the kind of err, treating store.ErrNotFound as not-found.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, store.ErrNotFound) {
		return KindNotFound
	}
	return KindInternal
}

// Custom errors for clear communication to the API layer.
var (
	ErrUserNotFound      = notFound("Player")
	ErrAdminNotFound     = notFound("Admin")
	ErrTeamNotFound      = notFound("Team")
	ErrClueNotFound      = notFound("Clue")
	ErrQuestionNotFound  = notFound("Question")
	ErrSideQuestNotFound = notFound("Side quest")
	ErrMediaNotFound     = notFound("Media")
	ErrCategoryNotFound  = notFound("Kudos category")
	ErrGameNotFound      = notFound("Game")
	ErrNotification      = notFound("Notification")

	ErrNoTeam            = &Error{Kind: KindBadRequest, Message: "You must be on a team to do that"}
	ErrAlreadyCompleted  = &Error{Kind: KindBadRequest, Message: "Your team has already completed this side quest"}
	ErrAlreadyAnswered   = &Error{Kind: KindBadRequest, Message: "Your team has already answered this question"}
	ErrIncorrectPasscode = &Error{Kind: KindBadRequest, Message: "Incorrect passcode"}
	ErrIncorrectAnswer   = &Error{Kind: KindBadRequest, Message: "Incorrect answer"}
	ErrQuestInactive     = &Error{Kind: KindBadRequest, Message: "This side quest is not active"}
	ErrProofRequired     = &Error{Kind: KindBadRequest, Message: "A photo or video is required as proof"}
	ErrMediaMismatch     = &Error{Kind: KindBadRequest, Message: "Uploaded file does not match the required media type"}
	ErrVoteForSelf       = &Error{Kind: KindBadRequest, Message: "You cannot vote for yourself"}
	ErrResetNotConfirmed = &Error{Kind: KindBadRequest, Message: `Master reset requires confirm: "definitely"`}

	ErrInvalidCredentials = &Error{Kind: KindUnauthorized, Message: "Invalid credentials"}
	ErrNotTeamMember      = &Error{Kind: KindForbidden, Message: "Only team members can do that"}
	ErrNotTeamLeader      = &Error{Kind: KindForbidden, Message: "Only the team leader can do that"}
	ErrNotOwner           = &Error{Kind: KindForbidden, Message: "You can only edit your own side quests"}

	ErrNameTaken     = &Error{Kind: KindConflict, Message: "That name is already taken"}
	ErrTeamNameTaken = &Error{Kind: KindConflict, Message: "A team with that name already exists"}
	ErrUsernameTaken = &Error{Kind: KindConflict, Message: "That admin username is already taken"}
)

// lookup converts store.ErrNotFound into the given service error and wraps the rest.
func lookup(err error, missing error, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return missing
	}
	return errors.Wrap(err, action)
}
