package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanFeedback(t *testing.T) {
	p := NewPostProcessor()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"keeps markdown", "## Conseils\n\n- Soyez concret", "## Conseils\n\n- Soyez concret"},
		{"drops scripts", "Bravo<script>alert(1)</script> !", "Bravo !"},
		{"drops iframes", `Voir <iframe src="x">`, "Voir"},
		{"drops control characters", "Bon\x00jour\x07", "Bonjour"},
		{"collapses blank runs", "a\r\n\r\n\r\n\r\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.CleanFeedback(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanFeedback_Empty(t *testing.T) {
	_, err := NewPostProcessor().CleanFeedback("<script></script>\n ")
	assert.ErrorIs(t, err, ErrEmptyFeedback)
}

func TestCleanFeedback_Truncates(t *testing.T) {
	p := &PostProcessor{maxFeedbackLength: 10}

	got, err := p.CleanFeedback(strings.Repeat("é", 20))
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", 7)+"...", got)
}
