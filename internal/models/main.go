// Package models defines the core data structures for identities and
// calendar tasks.
package models

import (
	"errors"
	"fmt"
	"time"
)

// GuestID is the reserved identity ID for anonymous/offline usage.
// It never collides with backend-issued user IDs.
const GuestID = "guest"

// MaxTitleLength bounds the free-text title of a calendar task.
const MaxTitleLength = 200

// Identity represents the resolved current user: authenticated, guest,
// or (as a nil pointer at call sites) signed out.
type Identity struct {
	// ID is the unique identifier for the identity. Equal to GuestID
	// for the guest identity.
	ID string `json:"id"`
	// Email is empty for the guest identity.
	Email string `json:"email,omitempty"`
	// DisplayName is optional, display-only.
	DisplayName string `json:"displayName,omitempty"`
	// AvatarRef is an optional reference to a profile image.
	AvatarRef string `json:"avatarRef,omitempty"`
	// IsGuest is true only for the guest sentinel identity.
	IsGuest bool `json:"isGuest"`
}

// NewGuestIdentity returns the guest sentinel identity.
func NewGuestIdentity() Identity {
	return Identity{
		ID:          GuestID,
		DisplayName: "Guest",
		IsGuest:     true,
	}
}

// NewIdentity builds an authenticated identity. The id must be non-empty
// and must not be the guest sentinel.
func NewIdentity(id, email, displayName, avatarRef string) (Identity, error) {
	if id == "" {
		return Identity{}, errors.New("identity: empty id")
	}
	if id == GuestID {
		return Identity{}, errors.New("identity: reserved id")
	}
	return Identity{
		ID:          id,
		Email:       email,
		DisplayName: displayName,
		AvatarRef:   avatarRef,
	}, nil
}

// Account is the server-side user record backing an authenticated
// identity.
type Account struct {
	// ID is the unique identifier for the account.
	ID string
	// Email is the login email, unique per account.
	Email string
	// PasswordHash is the bcrypt hash of the account password.
	PasswordHash []byte
	// DisplayName is optional, display-only.
	DisplayName string
	// AvatarRef is an optional reference to a profile image.
	AvatarRef string
}

// TaskType defines the set of valid calendar task kinds.
type TaskType string

const (
	// TaskPublish marks a slot for publishing a finished video.
	TaskPublish TaskType = "publish"
	// TaskRecord marks a slot reserved for recording.
	TaskRecord TaskType = "record"
	// TaskIdea marks a captured content idea.
	TaskIdea TaskType = "idea"
)

// TaskOrigin identifies who created a task.
type TaskOrigin string

const (
	// OriginUser marks a task entered by the user.
	OriginUser TaskOrigin = "user"
	// OriginAI marks a task suggested by the scoring pipeline.
	OriginAI TaskOrigin = "ai"
)

// CalendarTask is a user-owned calendar record. Tasks are immutable after
// creation except for deletion; an edit is a delete plus a recreate.
type CalendarTask struct {
	// ID is unique within an owner's record set, assigned at creation.
	ID string `json:"id"`
	// Date is the calendar date in YYYY-MM-DD form.
	Date string `json:"date"`
	// Hour is the time of day in zero-padded HH:MM form.
	Hour string `json:"hour"`
	// Type is one of publish, record, idea.
	Type TaskType `json:"type"`
	// Title is free text, bounded by MaxTitleLength.
	Title string `json:"title"`
	// CreatedBy is one of user, ai.
	CreatedBy TaskOrigin `json:"createdBy"`
	// CreatedAt is the creation timestamp.
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the caller-supplied fields of a task. ID and CreatedAt
// are assigned by the facade and are not inspected here.
func (t CalendarTask) Validate() error {
	if _, err := time.Parse("2006-01-02", t.Date); err != nil {
		return fmt.Errorf("task: invalid date %q", t.Date)
	}
	if _, err := time.Parse("15:04", t.Hour); err != nil {
		return fmt.Errorf("task: invalid hour %q", t.Hour)
	}
	switch t.Type {
	case TaskPublish, TaskRecord, TaskIdea:
	default:
		return fmt.Errorf("task: unknown type %q", t.Type)
	}
	switch t.CreatedBy {
	case OriginUser, OriginAI:
	default:
		return fmt.Errorf("task: unknown origin %q", t.CreatedBy)
	}
	if t.Title == "" {
		return errors.New("task: empty title")
	}
	if len(t.Title) > MaxTitleLength {
		return fmt.Errorf("task: title exceeds %d characters", MaxTitleLength)
	}
	return nil
}
