package invoke_test

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/storage/memory"
)

func TestArg(t *testing.T) {
	id := uuid.New()

	gotID, err := invoke.Arg[uuid.UUID]([]any{id.String()}, 0)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	gotID, err = invoke.Arg[uuid.UUID]([]any{id}, 0)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)

	draft, err := invoke.Arg[journal.EntryDraft]([]any{json.RawMessage(`{"title":"Hi","tags":["a"]}`)}, 0)
	require.NoError(t, err)
	assert.Equal(t, journal.EntryDraft{Title: "Hi", Tags: []string{"a"}}, draft)

	filter, err := invoke.Arg[journal.EntryFilter]([]any{map[string]any{"sentiment": "positive", "limit": 2.0}}, 0)
	require.NoError(t, err)
	assert.Equal(t, journal.EntryFilter{Sentiment: journal.SentimentPositive, Limit: 2}, filter)

	_, err = invoke.Arg[string](nil, 0)
	assert.ErrorIs(t, err, invoke.ErrBadArgument)

	_, err = invoke.Arg[int]([]any{"three"}, 0)
	assert.ErrorIs(t, err, invoke.ErrBadArgument)

	n, err := invoke.OptArg[int]([]any{nil}, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func newBoundRegistry(t *testing.T) *invoke.Registry {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := journal.NewServices(memory.New(), nil, journal.WithLogger(logger))
	reg := invoke.NewRegistry()
	invoke.Bind(reg, svc)
	return reg
}

func TestBind_RegistersEveryOperation(t *testing.T) {
	reg := newBoundRegistry(t)

	assert.Equal(t, []string{
		"ai.analyzeText", "ai.getPrompts", "ai.suggest",
		"auth.login", "auth.me", "auth.register", "auth.ssoLogin", "auth.verifyMfa",
		"entries.createEntry", "entries.createFromTemplate", "entries.deleteEntry", "entries.getEntries",
		"entries.getEntry", "entries.getStats", "entries.getTemplates", "entries.updateEntry",
		"preferences.getPreferences", "preferences.resetPreferences", "preferences.updatePreferences",
		"reminders.createReminder", "reminders.deleteReminder", "reminders.getReminders",
		"reminders.nextReminder", "reminders.updateReminder",
		"tags.createTag", "tags.deleteTag", "tags.getTags",
	}, reg.Methods())
}

func TestBind_EntryRoundTrip(t *testing.T) {
	reg := newBoundRegistry(t)
	ctx := context.Background()

	out, err := reg.Call(ctx, "entries", "createEntry",
		json.RawMessage(`{"title":"Hello","content":"<p>A happy day</p>","tags":["joy"]}`))
	require.NoError(t, err)
	created, ok := out.(journal.Entry)
	require.True(t, ok, "createEntry returned %T", out)

	out, err = reg.Call(ctx, "entries", "getEntry", created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created, out)

	out, err = reg.Call(ctx, "entries", "getEntries")
	require.NoError(t, err)
	assert.Equal(t, 1, out.(journal.EntryPage).Total)

	out, err = reg.Call(ctx, "entries", "deleteEntry", created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoke.Ack{Success: true}, out)

	out, err = reg.Call(ctx, "entries", "getEntry", created.ID.String())
	assert.ErrorIs(t, err, journal.ErrEntryNotFound)
	assert.Nil(t, out)
}

func TestBind_DomainErrorsPassThrough(t *testing.T) {
	reg := newBoundRegistry(t)
	ctx := context.Background()

	_, err := reg.Call(ctx, "tags", "createTag", "work")
	require.NoError(t, err)
	_, err = reg.Call(ctx, "tags", "createTag", "work")
	assert.ErrorIs(t, err, journal.ErrTagExists)

	_, err = reg.Call(ctx, "auth", "login", "user@example.com", "wrongpass")
	assert.ErrorIs(t, err, journal.ErrInvalidCredentials)

	_, err = reg.Call(ctx, "entries", "getEntry")
	assert.ErrorIs(t, err, invoke.ErrBadArgument)

	_, err = reg.Call(ctx, "entries", "archive")
	assert.ErrorIs(t, err, invoke.ErrUnknownMethod)
}
