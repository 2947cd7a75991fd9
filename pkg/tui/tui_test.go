package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/storage/memory"
)

func newTestModel(t *testing.T) (model, *journal.Services) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := journal.NewServices(memory.New(), nil, journal.WithLogger(log))
	reg := invoke.NewRegistry()
	invoke.Bind(reg, svc)

	ctx := context.Background()
	c, err := newCalls(ctx, reg)
	require.NoError(t, err)
	return initModel(ctx, c, "memory"), svc
}

// settle runs cmd and feeds the resulting stateMsg back into m.
func settle(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(stateMsg)
	require.True(t, ok)
	next, _ := m.Update(msg)
	return next.(model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadEntriesAndTags(t *testing.T) {
	m, svc := newTestModel(t)
	ctx := context.Background()
	_, err := svc.Entries.CreateEntry(ctx, journal.EntryDraft{Title: "Work day", Tags: []string{"work"}})
	require.NoError(t, err)
	_, err = svc.Entries.CreateEntry(ctx, journal.EntryDraft{Title: "Hike", Tags: []string{"nature"}})
	require.NoError(t, err)

	m = settle(t, m, m.loadEntries())
	m = settle(t, m, m.calls.run(m.ctx, callTags))
	m = settle(t, m, m.calls.run(m.ctx, callStats))
	assert.Len(t, m.entries, 2)
	assert.Len(t, m.tags, 2)
	assert.Equal(t, 2, m.stats.Total)

	next, cmd := m.Update(key("j"))
	m = next.(model)
	assert.Equal(t, 1, m.tagCursor)
	assert.Equal(t, []string{m.tags[0].Name}, m.filter().Tags)
	m = settle(t, m, cmd)
	assert.Len(t, m.entries, 1)
}

func TestCreateAndDeleteEntry(t *testing.T) {
	m, svc := newTestModel(t)

	next, _ := m.Update(key("n"))
	m = next.(model)
	require.True(t, m.creating)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.Equal(t, "Title cannot be empty", m.creatingError)

	m.titleInput.SetValue("Evening notes")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.Equal(t, 1, m.creatingStep)

	m.contentInput.SetValue("quiet and calm")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	assert.False(t, m.creating)
	m = settle(t, m, cmd)

	page, err := svc.Entries.GetEntries(context.Background(), journal.EntryFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, "Evening notes", page.Entries[0].Title)

	m = settle(t, m, m.loadEntries())
	m.columnFocus = focusEntries
	next, _ = m.Update(key("d"))
	m = next.(model)
	require.True(t, m.deleting)
	m.deleteConfirmIdx = 0
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	m = settle(t, m, cmd)

	page, err = svc.Entries.GetEntries(context.Background(), journal.EntryFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestSortToggleAndAnalysis(t *testing.T) {
	m, svc := newTestModel(t)
	_, err := svc.Entries.CreateEntry(context.Background(), journal.EntryDraft{Title: "Grateful", Content: "happy and grateful"})
	require.NoError(t, err)
	m = settle(t, m, m.loadEntries())

	next, cmd := m.Update(key("s"))
	m = next.(model)
	assert.Equal(t, journal.SortBySentiment, m.filter().SortBy)
	m = settle(t, m, cmd)

	next, cmd = m.Update(key("a"))
	m = next.(model)
	m = settle(t, m, cmd)
	require.NotNil(t, m.analysis)
	assert.Equal(t, journal.SentimentPositive, m.analysis.Category)
}

func TestView(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, "Loading...", m.View())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(model)
	out := m.View()
	assert.Contains(t, out, "Eunoia")
	assert.Contains(t, out, "No entries yet")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hel..", truncate("hello world", 5))
	assert.Equal(t, "he", truncate("hello", 2))
}
