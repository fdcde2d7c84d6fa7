package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bilgisen/gazette/internal/gazette"
	"github.com/bilgisen/gazette/internal/models"
	"github.com/bilgisen/gazette/internal/view"
)

var (
	// ErrRestricted rejects admin actions outside the admin tools
	ErrRestricted = errors.New("restricted to the admin view")
	// ErrSubmissionPending rejects a suggestion while another one is in flight
	ErrSubmissionPending = errors.New("a suggestion is already being analysed")
	// ErrNoIssues is returned when there is nothing to open
	ErrNoIssues = errors.New("no issue published yet")
)

// Screen is the router projection plus the suggestion form state
type Screen struct {
	view.Screen
	Submitting bool   `json:"submitting"`
	Feedback   string `json:"feedback,omitempty"`
}

// Session is one reader's UI state. Its router is only touched under mu;
// the suggestion call runs outside it so the screen stays readable.
type Session struct {
	ID string

	store *gazette.Store

	mu         sync.Mutex
	router     *view.Router
	submitting bool
	feedback   string
	lastSeen   time.Time
}

func newSession(id string, store *gazette.Store, now time.Time) *Session {
	return &Session{
		ID:       id,
		store:    store,
		router:   view.NewRouter(store),
		lastSeen: now,
	}
}

// Screen renders the current view
func (s *Session) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screenLocked()
}

func (s *Session) Navigate(to view.State) (Screen, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.router.Navigate(to); err != nil {
		return Screen{}, err
	}
	return s.screenLocked(), nil
}

// Read opens an issue by id
func (s *Session) Read(ctx context.Context, issueID string) (Screen, error) {
	issue, err := s.store.Issue(issueID)
	if err != nil {
		return Screen{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.router.Read(ctx, issue)
	return s.screenLocked(), nil
}

// ReadLatest dismisses the notification and opens the newest issue
func (s *Session) ReadLatest(ctx context.Context) (Screen, error) {
	s.store.DismissNotification()

	issue, ok := s.store.Latest()
	if !ok {
		return Screen{}, ErrNoIssues
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.router.Read(ctx, issue)
	return s.screenLocked(), nil
}

func (s *Session) Back() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.router.Back()
	return s.screenLocked()
}

func (s *Session) ToggleAdmin() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.router.ToggleAdmin()
	return s.screenLocked()
}

// Publish is only reachable from the admin tools with the admin role
func (s *Session) Publish(ctx context.Context, draft models.IssueDraft) (models.GazetteIssue, error) {
	s.mu.Lock()
	allowed := s.router.CanPublish()
	s.mu.Unlock()

	if !allowed {
		return models.GazetteIssue{}, ErrRestricted
	}
	return s.store.PublishIssue(ctx, draft)
}

// SubmitSuggestion records a suggestion. Only one submission per session
// may be in flight.
func (s *Session) SubmitSuggestion(ctx context.Context, topic, description string) (models.ArticleSuggestion, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return models.ArticleSuggestion{}, ErrSubmissionPending
	}
	s.submitting = true
	s.mu.Unlock()

	suggestion, err := s.store.AddSuggestion(ctx, topic, description)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if err != nil {
		return models.ArticleSuggestion{}, fmt.Errorf("submit suggestion: %w", err)
	}
	s.feedback = suggestion.AIFeedback
	return suggestion, nil
}

// CloseFeedback hides the last assistant feedback
func (s *Session) CloseFeedback() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = ""
	return s.screenLocked()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) screenLocked() Screen {
	return Screen{
		Screen:     s.router.Render(),
		Submitting: s.submitting,
		Feedback:   s.feedback,
	}
}
