package models

// SuggestionStatus is the review state of a suggestion
type SuggestionStatus string

const (
	StatusPending  SuggestionStatus = "pending"
	StatusReviewed SuggestionStatus = "reviewed"
	StatusAccepted SuggestionStatus = "accepted"
)

// FeedbackUnavailable is recorded as feedback when the editorial assistant
// could not be reached.
const FeedbackUnavailable = "Désolé, l'assistant éditorial est temporairement indisponible."

// ArticleSuggestion is an article topic proposed by a reader
type ArticleSuggestion struct {
	ID            string           `json:"id"`
	User          string           `json:"user"`
	Topic         string           `json:"topic"`
	Description   string           `json:"description"`
	Status        SuggestionStatus `json:"status"`
	CreatedAt     string           `json:"createdAt"`
	AIFeedback    string           `json:"aiFeedback,omitempty"`
	AIUnavailable bool             `json:"aiUnavailable,omitempty"`
}

// SuggestionRequest is the body of a suggestion submission
type SuggestionRequest struct {
	Topic       string `json:"topic" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Refinement is the outcome of asking the editorial assistant about a
// suggestion: either feedback text or unavailable.
type Refinement struct {
	Feedback    string
	Unavailable bool
}

// Refined wraps assistant feedback.
func Refined(feedback string) Refinement {
	return Refinement{Feedback: feedback}
}

// Unavailable is the refinement used when the assistant failed.
func Unavailable() Refinement {
	return Refinement{Unavailable: true}
}

// Text returns the feedback, or the fixed fallback when unavailable.
func (r Refinement) Text() string {
	if r.Unavailable {
		return FeedbackUnavailable
	}
	return r.Feedback
}
