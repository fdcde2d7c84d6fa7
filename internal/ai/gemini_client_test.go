package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiServer(t *testing.T, status int, body string, seen *geminiRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		if seen != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefineSuggestion_ReturnsCandidateText(t *testing.T) {
	var seen geminiRequest
	srv := geminiServer(t, http.StatusOK,
		`{"candidates":[{"content":{"parts":[{"text":"  Excellente idée !\n\n1. Sous-titre  "}]}}]}`, &seen)

	client := NewGeminiClient("secret", "gemini-test", WithBaseURL(srv.URL))
	text, err := client.RefineSuggestion(context.Background(), "Télétravail", "Retour\nd'expérience")

	require.NoError(t, err)
	assert.Equal(t, "Excellente idée !\n\n1. Sous-titre", text)

	require.Len(t, seen.Contents, 1)
	require.Len(t, seen.Contents[0].Parts, 1)
	prompt := seen.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "Sujet : Télétravail")
	assert.Contains(t, prompt, "Description : Retour d'expérience")
}

func TestRefineSuggestion_APIError(t *testing.T) {
	srv := geminiServer(t, http.StatusBadRequest, `{"error":{"message":"API key not valid"}}`, nil)

	client := NewGeminiClient("secret", "gemini-test", WithBaseURL(srv.URL))
	_, err := client.RefineSuggestion(context.Background(), "t", "d")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestRefineSuggestion_ServerErrorWithoutBody(t *testing.T) {
	srv := geminiServer(t, http.StatusInternalServerError, `{}`, nil)

	client := NewGeminiClient("secret", "gemini-test", WithBaseURL(srv.URL))
	_, err := client.RefineSuggestion(context.Background(), "t", "d")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestRefineSuggestion_NoCandidates(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, `{"candidates":[]}`, nil)

	client := NewGeminiClient("secret", "gemini-test", WithBaseURL(srv.URL))
	_, err := client.RefineSuggestion(context.Background(), "t", "d")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content")
}

func TestRefineSuggestion_BlankTextIsAnError(t *testing.T) {
	srv := geminiServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"   "}]}}]}`, nil)

	client := NewGeminiClient("secret", "gemini-test", WithBaseURL(srv.URL))
	_, err := client.RefineSuggestion(context.Background(), "t", "d")

	assert.ErrorIs(t, err, ErrEmptyFeedback)
}

func TestRefineSuggestion_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := NewGeminiClient("secret", "gemini-test", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := client.RefineSuggestion(context.Background(), "t", "d")

	assert.Error(t, err)
}

func TestSummarizeIssue_UsesSummaryPrompt(t *testing.T) {
	var seen geminiRequest
	srv := geminiServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"- un\n- deux\n- trois"}]}}]}`, &seen)

	client := NewGeminiClient("secret", "gemini-test", WithBaseURL(srv.URL))
	text, err := client.SummarizeIssue(context.Background(), "Helios est en ligne")

	require.NoError(t, err)
	assert.Equal(t, "- un\n- deux\n- trois", text)
	assert.True(t, strings.HasPrefix(seen.Contents[0].Parts[0].Text, "Résume le contenu suivant"))
	assert.Contains(t, seen.Contents[0].Parts[0].Text, "Contenu : Helios est en ligne")
}
