package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/gazette/internal/cache"
	"github.com/bilgisen/gazette/internal/config"
	"github.com/bilgisen/gazette/internal/gazette"
	"github.com/bilgisen/gazette/internal/middleware"
	"github.com/bilgisen/gazette/internal/models"
	"github.com/bilgisen/gazette/internal/session"
)

type fakeSummarizer struct {
	text string
	err  error
}

func (f fakeSummarizer) SummarizeIssue(ctx context.Context, content string) (string, error) {
	return f.text, f.err
}

type testServer struct {
	app   *fiber.App
	store *gazette.Store
}

func newTestServer(t *testing.T, summarizer Summarizer) *testServer {
	t.Helper()
	store := gazette.NewStore(cache.NewMemoryStore())
	t.Cleanup(store.Close)
	require.NoError(t, store.LoadInitial(context.Background()))

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	SetupRoutes(app, NewHandlers(config.FromEnv(), store, session.NewManager(store), summarizer))
	return &testServer{app: app, store: store}
}

func (s *testServer) do(t *testing.T, method, path, sessionID, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/v1/sessions", "", "")
	require.Equal(t, fiber.StatusCreated, status)
	id, ok := body["id"].(string)
	require.True(t, ok)
	return id
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodGet, "/api/v1/health", "", "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 2, body["issues"])
}

func TestGetIssues_ETag(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := srv.app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/issues", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	etag := resp.Header.Get(fiber.HeaderETag)
	require.NotEmpty(t, etag)

	var issues []models.GazetteIssue
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&issues))
	require.Len(t, issues, 2)
	assert.Equal(t, "1", issues[0].ID)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/issues", nil)
	req.Header.Set(fiber.HeaderIfNoneMatch, etag)
	resp, err = srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotModified, resp.StatusCode)

	_, err = srv.store.PublishIssue(context.Background(), models.IssueDraft{Title: "Nouveau", Content: "Texte"})
	require.NoError(t, err)

	resp, err = srv.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEqual(t, etag, resp.Header.Get(fiber.HeaderETag))
}

func TestGetIssueByID(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodGet, "/api/v1/issues/1", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "1", body["id"])

	status, _ = srv.do(t, http.MethodGet, "/api/v1/issues/404", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetHighlights(t *testing.T) {
	tests := []struct {
		name       string
		summarizer Summarizer
		want       string
		available  bool
	}{
		{"no assistant", nil, HighlightsUnavailable, false},
		{"assistant answers", fakeSummarizer{text: "- Point clé"}, "- Point clé", true},
		{"assistant fails", fakeSummarizer{err: errors.New("quota")}, HighlightsUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.summarizer)

			status, body := srv.do(t, http.MethodGet, "/api/v1/issues/2/highlights", "", "")

			assert.Equal(t, fiber.StatusOK, status)
			assert.Equal(t, tt.want, body["highlights"])
			assert.Equal(t, tt.available, body["available"])
		})
	}
}

func TestSessionRoutesRequireHeader(t *testing.T) {
	srv := newTestServer(t, nil)

	status, _ := srv.do(t, http.MethodGet, "/api/v1/session", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = srv.do(t, http.MethodGet, "/api/v1/session", "bogus", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestNavigate(t *testing.T) {
	srv := newTestServer(t, nil)
	id := srv.newSession(t)

	status, body := srv.do(t, http.MethodPost, "/api/v1/session/navigate", id, `{"view":"archive"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "archive", body["view"])

	status, body = srv.do(t, http.MethodPost, "/api/v1/session/navigate", id, `{"view":"admin"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Accès restreint.", body["restricted"])

	status, _ = srv.do(t, http.MethodPost, "/api/v1/session/navigate", id, `{"view":"reader"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/session/navigate", id, `{"view":"settings"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/session/navigate", id, `{}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestReadAndBack(t *testing.T) {
	srv := newTestServer(t, nil)
	id := srv.newSession(t)

	status, body := srv.do(t, http.MethodPost, "/api/v1/session/read/2", id, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "reader", body["view"])
	selected, ok := body["selected"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, selected["isNew"])

	issue, err := srv.store.Issue("2")
	require.NoError(t, err)
	assert.False(t, issue.IsNew)

	status, body = srv.do(t, http.MethodPost, "/api/v1/session/back", id, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "home", body["view"])

	status, _ = srv.do(t, http.MethodPost, "/api/v1/session/read/missing", id, "")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPublishFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	editor := srv.newSession(t)
	reader := srv.newSession(t)
	draft := `{"title":"Édition spéciale","content":"Contenu du numéro"}`

	status, body := srv.do(t, http.MethodPost, "/api/v1/session/publish", editor, draft)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Accès restreint.", body["error"])

	status, body = srv.do(t, http.MethodPost, "/api/v1/session/admin", editor, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["isAdmin"])

	status, _ = srv.do(t, http.MethodPost, "/api/v1/session/navigate", editor, `{"view":"admin"}`)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/session/publish", editor, `{"title":"Sans contenu"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, body = srv.do(t, http.MethodPost, "/api/v1/session/publish", editor, draft)
	require.Equal(t, fiber.StatusCreated, status)
	issue, ok := body["issue"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Édition spéciale", issue["title"])

	status, body = srv.do(t, http.MethodGet, "/api/v1/notification", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["visible"])
	assert.Equal(t, issue["id"], body["issueId"])

	status, body = srv.do(t, http.MethodPost, "/api/v1/session/read-latest", reader, "")
	require.Equal(t, fiber.StatusOK, status)
	selected, ok := body["selected"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, issue["id"], selected["id"])

	_, body = srv.do(t, http.MethodGet, "/api/v1/notification", "", "")
	assert.Equal(t, false, body["visible"])
}

func TestDismissNotification(t *testing.T) {
	srv := newTestServer(t, nil)
	_, err := srv.store.PublishIssue(context.Background(), models.IssueDraft{Title: "T", Content: "C"})
	require.NoError(t, err)

	status, body := srv.do(t, http.MethodDelete, "/api/v1/notification", "", "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["visible"])
}

func TestSubmitSuggestion(t *testing.T) {
	srv := newTestServer(t, nil)
	id := srv.newSession(t)

	status, body := srv.do(t, http.MethodPost, "/api/v1/session/suggestions", id, `{"topic":"Cantine","description":"Nouveaux menus"}`)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, models.FeedbackUnavailable, body["aiFeedback"])

	_, body = srv.do(t, http.MethodGet, "/api/v1/session", id, "")
	assert.Equal(t, models.FeedbackUnavailable, body["feedback"])

	_, body = srv.do(t, http.MethodDelete, "/api/v1/session/feedback", id, "")
	assert.Nil(t, body["feedback"])

	status, _ = srv.do(t, http.MethodPost, "/api/v1/session/suggestions", id, `{"topic":"Cantine"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Len(t, srv.store.Suggestions(), 1)
}

func TestUnknownEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodGet, "/api/v1/nothing", "", "")

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "Endpoint not found", body["error"])
}
