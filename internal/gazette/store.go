// Package gazette owns the issue and suggestion collections and keeps the
// issue list in sync with its persisted blob.
package gazette

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/bilgisen/gazette/internal/logger"
	"github.com/bilgisen/gazette/internal/models"
)

var (
	// ErrValidation is returned when a required field is empty. The store is
	// left untouched.
	ErrValidation = errors.New("missing required field")
	// ErrIssueNotFound reports an unknown issue id
	ErrIssueNotFound = errors.New("issue not found")
)

const (
	// DefaultNamespace is the blob key holding the issue list
	DefaultNamespace = "agency_gazettes"
	// DefaultNotificationDelay is how long a publish banner stays up
	DefaultNotificationDelay = 8 * time.Second

	anonymousUser = "Collaborateur Anonyme"
	summaryLength = 150
	hapticPulse   = 200 * time.Millisecond
	dateLayout    = "02/01/2006"
)

// Persistence is a synchronous key/value blob store
type Persistence interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Refiner is the editorial assistant consulted on each suggestion
type Refiner interface {
	RefineSuggestion(ctx context.Context, topic, description string) (string, error)
}

// Haptics is an optional platform capability pulsed on publish
type Haptics interface {
	Vibrate(d time.Duration) error
}

// Store holds the canonical collections. All methods are safe for
// concurrent use; mutations are serialized by one mutex.
type Store struct {
	mu          sync.Mutex
	issues      []models.GazetteIssue
	suggestions []models.ArticleSuggestion
	notice      notifier

	persistence Persistence
	refiner     Refiner
	haptics     Haptics
	namespace   string
	validate    *validator.Validate
	log         *zerolog.Logger
	now         func() time.Time
	intn        func(n int) int
}

// Option customizes a Store
type Option func(*Store)

// WithRefiner sets the editorial assistant. Without one every suggestion
// gets the fallback feedback.
func WithRefiner(r Refiner) Option {
	return func(s *Store) { s.refiner = r }
}

// WithHaptics sets the vibration capability
func WithHaptics(h Haptics) Option {
	return func(s *Store) { s.haptics = h }
}

// WithNamespace overrides the blob key
func WithNamespace(ns string) Option {
	return func(s *Store) { s.namespace = ns }
}

// WithNotificationDelay overrides how long the publish banner stays visible
func WithNotificationDelay(d time.Duration) Option {
	return func(s *Store) { s.notice.delay = d }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRandom replaces the issue number source; intn must return a value in [0,n).
func WithRandom(intn func(n int) int) Option {
	return func(s *Store) { s.intn = intn }
}

// WithLogger replaces the global logger
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func NewStore(p Persistence, opts ...Option) *Store {
	s := &Store{
		persistence: p,
		namespace:   DefaultNamespace,
		validate:    validator.New(),
		log:         logger.Get(),
		now:         time.Now,
		intn:        rand.Intn,
	}
	s.notice.delay = DefaultNotificationDelay
	s.notice.mu = &s.mu
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadInitial reads the persisted issues. When nothing is stored yet the
// two canonical issues are seeded and written immediately; an existing
// collection is never overwritten.
func (s *Store) LoadInitial(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, found, err := s.persistence.Get(ctx, s.namespace)
	if err != nil {
		return fmt.Errorf("load issues: %w", err)
	}

	if found {
		var issues []models.GazetteIssue
		if err := json.Unmarshal(data, &issues); err != nil {
			return fmt.Errorf("decode issues: %w", err)
		}
		s.issues = issues
		s.log.Info().Int("issues", len(issues)).Msg("Loaded persisted issues")
		return nil
	}

	s.issues = seedIssues()
	if err := s.persistLocked(ctx); err != nil {
		return fmt.Errorf("seed issues: %w", err)
	}
	s.log.Info().Int("issues", len(s.issues)).Msg("Seeded example issues")
	return nil
}

// PublishIssue prepends a new unread issue built from draft, persists the
// collection and raises the publish notification.
func (s *Store) PublishIssue(ctx context.Context, draft models.IssueDraft) (models.GazetteIssue, error) {
	if err := s.check(draft); err != nil {
		return models.GazetteIssue{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	imageURL := draft.ImageURL
	if imageURL == "" {
		imageURL = fmt.Sprintf("https://picsum.photos/seed/%d/800/400", now.UnixMilli())
	}

	issue := models.GazetteIssue{
		ID:       s.nextIDLocked(now),
		Title:    draft.Title,
		Number:   s.intn(100),
		Date:     now.Format(dateLayout),
		Summary:  summarize(draft.Content),
		ImageURL: imageURL,
		Content:  draft.Content,
		IsNew:    true,
	}

	s.issues = append([]models.GazetteIssue{issue}, s.issues...)
	s.persistOrLogLocked(ctx, "publish")

	s.notice.raise(
		fmt.Sprintf("🔔 Nouveau numéro disponible : \"%s\"", issue.Title),
		issue.ID,
	)

	if s.haptics != nil {
		if err := s.haptics.Vibrate(hapticPulse); err != nil {
			s.log.Debug().Err(err).Msg("Haptic pulse unavailable")
		}
	}

	s.log.Info().
		Str("id", issue.ID).
		Str("title", issue.Title).
		Int("number", issue.Number).
		Msg("Published issue")

	return issue, nil
}

// MarkRead clears the unread flag of the issue and persists the collection.
// An unknown id is a no-op.
func (s *Store) MarkRead(ctx context.Context, issueID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(issueID)
	if idx < 0 {
		return
	}
	s.issues[idx].IsNew = false
	s.persistOrLogLocked(ctx, "mark read")
}

// AddSuggestion asks the editorial assistant for feedback, then prepends a
// pending suggestion. Assistant failures never surface: the suggestion gets
// the fallback feedback instead. Suggestions are kept in memory only.
func (s *Store) AddSuggestion(ctx context.Context, topic, description string) (models.ArticleSuggestion, error) {
	req := models.SuggestionRequest{Topic: topic, Description: description}
	if err := s.check(req); err != nil {
		return models.ArticleSuggestion{}, err
	}

	// The assistant may be slow; the lock is not held meanwhile.
	refinement := s.refine(ctx, topic, description)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	suggestion := models.ArticleSuggestion{
		ID:            s.nextSuggestionIDLocked(now),
		User:          anonymousUser,
		Topic:         topic,
		Description:   description,
		Status:        models.StatusPending,
		CreatedAt:     now.Format(dateLayout),
		AIFeedback:    refinement.Text(),
		AIUnavailable: refinement.Unavailable,
	}
	s.suggestions = append([]models.ArticleSuggestion{suggestion}, s.suggestions...)

	s.log.Info().
		Str("id", suggestion.ID).
		Str("topic", topic).
		Bool("ai_unavailable", refinement.Unavailable).
		Msg("Recorded suggestion")

	return suggestion, nil
}

// DismissNotification clears the notification slot
func (s *Store) DismissNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice.clear()
}

// Issues returns a copy of the issues, newest first
func (s *Store) Issues() []models.GazetteIssue {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.GazetteIssue(nil), s.issues...)
}

// Issue returns one issue by id
func (s *Store) Issue(issueID string) (models.GazetteIssue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(issueID)
	if idx < 0 {
		return models.GazetteIssue{}, fmt.Errorf("%w: %s", ErrIssueNotFound, issueID)
	}
	return s.issues[idx], nil
}

// Latest returns the newest issue
func (s *Store) Latest() (models.GazetteIssue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.issues) == 0 {
		return models.GazetteIssue{}, false
	}
	return s.issues[0], true
}

// Suggestions returns a copy of the suggestions, newest first
func (s *Store) Suggestions() []models.ArticleSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ArticleSuggestion(nil), s.suggestions...)
}

// Notification returns the current notification slot
func (s *Store) Notification() models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notice.current
}

// HasUnread reports whether any issue is still flagged new
func (s *Store) HasUnread() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, issue := range s.issues {
		if issue.IsNew {
			return true
		}
	}
	return false
}

// Close stops the pending notification timer
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice.stop()
}

func (s *Store) refine(ctx context.Context, topic, description string) models.Refinement {
	if s.refiner == nil {
		return models.Unavailable()
	}

	feedback, err := s.refiner.RefineSuggestion(ctx, topic, description)
	if err != nil || feedback == "" {
		s.log.Warn().Err(err).Str("topic", topic).Msg("Editorial assistant unavailable")
		return models.Unavailable()
	}
	return models.Refined(feedback)
}

func (s *Store) check(v interface{}) error {
	if err := s.validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return fmt.Errorf("%w: %s", ErrValidation, fields[0].Field())
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (s *Store) persistOrLogLocked(ctx context.Context, op string) {
	if err := s.persistLocked(ctx); err != nil {
		s.log.Error().Err(err).Str("op", op).Msg("Failed to persist issues")
	}
}

// persistLocked rewrites the whole blob
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.issues)
	if err != nil {
		return fmt.Errorf("encode issues: %w", err)
	}
	return s.persistence.Set(ctx, s.namespace, data)
}

func (s *Store) indexLocked(issueID string) int {
	for i := range s.issues {
		if s.issues[i].ID == issueID {
			return i
		}
	}
	return -1
}

// nextIDLocked derives an id from the clock, bumped past any id in use
func (s *Store) nextIDLocked(now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		if s.indexLocked(id) < 0 {
			return id
		}
		ms++
	}
}

func (s *Store) nextSuggestionIDLocked(now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := strconv.FormatInt(ms, 10)
		taken := false
		for _, sug := range s.suggestions {
			if sug.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
		ms++
	}
}

// summarize keeps the first 150 characters of the body and always appends
// an ellipsis
func summarize(content string) string {
	runes := []rune(content)
	if len(runes) > summaryLength {
		runes = runes[:summaryLength]
	}
	return string(runes) + "..."
}
