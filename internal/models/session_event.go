package models

import (
	"fmt"
	"time"
)

// SessionEventKind names a session transition.
type SessionEventKind string

const (
	EventLogin       SessionEventKind = "login"
	EventLoginFailed SessionEventKind = "login_failed"
	EventRegister    SessionEventKind = "register"
	EventLogout      SessionEventKind = "logout"
	EventInvalidated SessionEventKind = "invalidated"
)

// SessionEvent is a locally persisted record of a session transition.
type SessionEvent struct {
	id        string
	sequence  int
	kind      SessionEventKind
	username  string
	createdAt time.Time
}

var _ Model = (*SessionEvent)(nil)

// NewSessionEvent creates an unsaved event stamped with the current time.
func NewSessionEvent(kind SessionEventKind, username string) *SessionEvent {
	return &SessionEvent{kind: kind, username: username, createdAt: time.Now().UTC()}
}

func (e *SessionEvent) ID() string               { return e.id }
func (e *SessionEvent) Sequence() int            { return e.sequence }
func (e *SessionEvent) Kind() SessionEventKind   { return e.kind }
func (e *SessionEvent) Username() string         { return e.username }
func (e *SessionEvent) CreatedAt() time.Time     { return e.createdAt }
func (e *SessionEvent) SetID(id string)          { e.id = id }
func (e *SessionEvent) SetSequence(n int)        { e.sequence = n }
func (e *SessionEvent) SetCreatedAt(t time.Time) { e.createdAt = t }

// Validate checks the event has a known kind.
func (e *SessionEvent) Validate() error {
	switch e.kind {
	case EventLogin, EventLoginFailed, EventRegister, EventLogout, EventInvalidated:
		return nil
	default:
		return fmt.Errorf("unknown session event kind %q", e.kind)
	}
}
