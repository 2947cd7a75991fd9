package httpapi_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unowned-ai/eunoia/pkg/httpapi"
	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/storage/memory"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := journal.NewServices(memory.New(), nil,
		journal.WithLogger(log),
		journal.WithBcryptCost(bcrypt.MinCost),
		journal.WithTokenSecret([]byte("test-secret")))
	reg := invoke.NewRegistry()
	invoke.Bind(reg, svc)

	srv := httptest.NewServer(httpapi.New(svc, reg, log).Router())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func TestEntriesCRUD(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/entries", "", journal.EntryDraft{
		Title: "Good day", Content: "I felt happy and calm", Tags: []string{"work"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created journal.Entry
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, []string{"work"}, created.Tags)
	assert.Positive(t, created.Sentiment)

	resp, body = do(t, srv, http.MethodGet, "/api/entries/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got journal.Entry
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, created.ID, got.ID)

	title := "Great day"
	resp, body = do(t, srv, http.MethodPatch, "/api/entries/"+created.ID.String(), "", journal.EntryPatch{Title: &title})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Great day", got.Title)

	resp, body = do(t, srv, http.MethodGet, "/api/entries?sentiment=positive&tags=work&to=2999-01-01", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var page journal.EntryPage
	require.NoError(t, json.Unmarshal(body, &page))
	assert.Equal(t, 1, page.Total)

	resp, _ = do(t, srv, http.MethodDelete, "/api/entries/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/api/entries/"+created.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "entry not found")
}

func TestEntries_BadRequests(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/api/entries/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/entries?sort_by=mood", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/entries?from=yesterday", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/entries", "", journal.EntryDraft{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTags_DuplicateConflicts(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/tags", "", map[string]string{"name": "travel"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/tags", "", map[string]string{"name": "travel"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/api/tags/travel", "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/api/tags/travel", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAuthAndPrivateRoutes(t *testing.T) {
	srv := newServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/api/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, srv, http.MethodPost, "/api/auth/register", "", journal.RegisterInput{
		Email: "ana@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, _ = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = do(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ana@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess journal.Session
	require.NoError(t, json.Unmarshal(body, &sess))
	require.NotEmpty(t, sess.Token)

	resp, body = do(t, srv, http.MethodPost, "/api/auth/sso", "", map[string]string{
		"provider": "github", "email": "ana@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))
	assert.NotContains(t, string(body), "token")

	resp, body = do(t, srv, http.MethodGet, "/api/me", sess.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ana@example.com")
	assert.NotContains(t, string(body), "password")

	resp, body = do(t, srv, http.MethodPost, "/api/reminders", sess.Token, journal.ReminderInput{
		Time: "07:30", Message: "Write something",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var rem journal.Reminder
	require.NoError(t, json.Unmarshal(body, &rem))

	resp, body = do(t, srv, http.MethodGet, "/api/reminders/"+rem.ID.String()+"/next", sess.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"next"`)

	resp, body = do(t, srv, http.MethodPost, "/api/auth/register", "", journal.RegisterInput{
		Email: "bo@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var other journal.Session
	require.NoError(t, json.Unmarshal(body, &other))

	resp, _ = do(t, srv, http.MethodDelete, "/api/reminders/"+rem.ID.String(), other.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/api/reminders/"+rem.ID.String(), sess.Token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	theme := "dark"
	resp, body = do(t, srv, http.MethodPatch, "/api/preferences", sess.Token, journal.PreferencesPatch{Theme: &theme})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"theme":"dark"`)
}

func TestInvokeEndpoint(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/invoke/entries/createEntry", "",
		[]any{map[string]any{"title": "Via invoke", "content": "hello"}})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var e journal.Entry
	require.NoError(t, json.Unmarshal(body, &e))
	assert.Equal(t, "Via invoke", e.Title)

	resp, body = do(t, srv, http.MethodPost, "/api/invoke/entries/deleteEntry", "", []any{e.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(body))

	resp, _ = do(t, srv, http.MethodPost, "/api/invoke/entries/nope", "", []any{})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/invoke/entries/getEntry", "", []any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func register(t *testing.T, srv *httptest.Server, email string) journal.Session {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/api/auth/register", "", journal.RegisterInput{
		Email: email, Password: "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sess journal.Session
	require.NoError(t, json.Unmarshal(body, &sess))
	return sess
}

func TestInvokeUserScopedMethods(t *testing.T) {
	srv := newServer(t)
	ana := register(t, srv, "ana@example.com")
	bo := register(t, srv, "bo@example.com")

	resp, body := do(t, srv, http.MethodPost, "/api/reminders", ana.Token, journal.ReminderInput{
		Time: "21:00", Message: "ana private",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var rem journal.Reminder
	require.NoError(t, json.Unmarshal(body, &rem))

	t.Run("no token", func(t *testing.T) {
		for _, tc := range []struct {
			path string
			args []any
		}{
			{"/api/invoke/reminders/getReminders", []any{uuid.Nil}},
			{"/api/invoke/reminders/getReminders", []any{ana.User.ID}},
			{"/api/invoke/preferences/getPreferences", []any{ana.User.ID}},
			{"/api/invoke/reminders/deleteReminder", []any{rem.ID}},
		} {
			resp, body := do(t, srv, http.MethodPost, tc.path, "", tc.args)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, tc.path)
			assert.NotContains(t, string(body), "ana private")
		}
	})

	t.Run("another user", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodPost, "/api/invoke/reminders/getReminders", bo.Token, []any{ana.User.ID})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp, _ = do(t, srv, http.MethodPost, "/api/invoke/reminders/getReminders", bo.Token, []any{uuid.Nil})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp, _ = do(t, srv, http.MethodPost, "/api/invoke/preferences/resetPreferences", bo.Token, []any{ana.User.ID})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp, _ = do(t, srv, http.MethodPost, "/api/invoke/reminders/deleteReminder", bo.Token, []any{rem.ID})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("owner", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPost, "/api/invoke/reminders/getReminders", ana.Token, []any{ana.User.ID})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Contains(t, string(body), "ana private")

		resp, body = do(t, srv, http.MethodPost, "/api/invoke/reminders/deleteReminder", ana.Token, []any{rem.ID})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.JSONEq(t, `{"success":true}`, string(body))
	})
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t)

	resp, body := do(t, srv, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	do(t, srv, http.MethodGet, "/api/tags", "", nil)
	resp, body = do(t, srv, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "eunoia_"), "expected eunoia metrics")
}
