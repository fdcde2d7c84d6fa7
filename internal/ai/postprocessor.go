package ai

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyFeedback is returned when the assistant answered with nothing usable
var ErrEmptyFeedback = errors.New("empty feedback")

var (
	controlChars  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	scriptBlocks  = regexp.MustCompile(`(?is)<(script|iframe|object|embed|style)[^>]*>.*?</(script|iframe|object|embed|style)>`)
	dangerousTags = regexp.MustCompile(`(?i)</?(script|iframe|object|embed|link|meta|style)[^>]*>`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

type PostProcessor struct {
	maxFeedbackLength int
}

func NewPostProcessor() *PostProcessor {
	return &PostProcessor{
		maxFeedbackLength: 8000,
	}
}

// CleanFeedback sanitizes assistant output before it is shown to readers.
// Markdown and line breaks survive; markup that could run in a page does not.
func (p *PostProcessor) CleanFeedback(text string) (string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = scriptBlocks.ReplaceAllString(text, "")
	text = dangerousTags.ReplaceAllString(text, "")
	text = controlChars.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if text == "" {
		return "", ErrEmptyFeedback
	}

	if runes := []rune(text); len(runes) > p.maxFeedbackLength {
		text = string(runes[:p.maxFeedbackLength-3]) + "..."
	}
	return text, nil
}
