// Package view is the screen state machine of one reader: which view is
// active, which issue is open and whether the admin role is simulated.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/bilgisen/gazette/internal/models"
)

// State names one screen
type State string

const (
	Home        State = "home"
	Archive     State = "archive"
	Suggestions State = "suggestions"
	Admin       State = "admin"
	Reader      State = "reader"
)

var (
	// ErrUnknownView rejects a view name outside the five states
	ErrUnknownView = errors.New("unknown view")
	// ErrIssueRequired is returned when the reader is entered without an issue
	ErrIssueRequired = errors.New("reader requires an issue")
)

// ParseState validates a view name
func ParseState(s string) (State, error) {
	switch st := State(s); st {
	case Home, Archive, Suggestions, Admin, Reader:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
}

// Source is the read side of the store plus the side effect of opening an
// issue.
type Source interface {
	Issues() []models.GazetteIssue
	Suggestions() []models.ArticleSuggestion
	Notification() models.Notification
	HasUnread() bool
	MarkRead(ctx context.Context, issueID string)
}

// Router is not safe for concurrent use; its owner serializes calls.
type Router struct {
	src      Source
	current  State
	isAdmin  bool
	selected *models.GazetteIssue
}

func NewRouter(src Source) *Router {
	return &Router{src: src, current: Home}
}

func (r *Router) Current() State { return r.current }

func (r *Router) IsAdmin() bool { return r.isAdmin }

// Selected returns the open issue, if the reader is active
func (r *Router) Selected() (models.GazetteIssue, bool) {
	if r.selected == nil {
		return models.GazetteIssue{}, false
	}
	return *r.selected, true
}

// Navigate switches to a top-level view. The admin view is always entered;
// whether its tools are shown is decided when rendering.
func (r *Router) Navigate(to State) error {
	switch to {
	case Home, Archive, Suggestions, Admin:
	case Reader:
		return ErrIssueRequired
	default:
		return fmt.Errorf("%w: %q", ErrUnknownView, to)
	}
	r.current = to
	r.selected = nil
	return nil
}

// Read opens issue in the reader and marks it read.
func (r *Router) Read(ctx context.Context, issue models.GazetteIssue) {
	r.src.MarkRead(ctx, issue.ID)
	issue.IsNew = false
	r.selected = &issue
	r.current = Reader
}

// Back leaves the reader for home. Outside the reader it does nothing.
func (r *Router) Back() {
	if r.current != Reader {
		return
	}
	r.current = Home
	r.selected = nil
}

// ToggleAdmin flips the simulated admin role. Dropping the role while on
// the admin view falls back to home.
func (r *Router) ToggleAdmin() bool {
	r.isAdmin = !r.isAdmin
	if !r.isAdmin && r.current == Admin {
		r.current = Home
	}
	return r.isAdmin
}

// CanPublish is the single guard for admin-only mutations. Replace it with
// a credential check if the role ever needs to mean something.
func (r *Router) CanPublish() bool {
	return r.isAdmin && r.current == Admin
}
