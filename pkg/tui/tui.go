package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/eunoia/pkg/invoke"
	"github.com/unowned-ai/eunoia/pkg/journal"
)

const (
	focusTags = iota
	focusEntries
	focusDetails
)

type model struct {
	ctx        context.Context
	calls      calls
	storeLabel string

	tags     []journal.Tag
	entries  []journal.Entry
	total    int
	stats    journal.EntryStats
	analysis *journal.AnalysisResult
	loading  map[callKind]bool
	err      error

	columnFocus int
	width       int
	height      int
	quitting    bool

	tagCursor   int // 0 is "All entries"
	entryCursor int
	sortBy      journal.SortOrder

	searching   bool
	searchInput textinput.Model

	creating      bool
	creatingStep  int // 0 = title, 1 = content
	creatingError string
	titleInput    textinput.Model
	contentInput  textinput.Model

	deleting         bool
	deleteConfirmIdx int // 0 = "Yes", 1 = "No"
}

func initModel(ctx context.Context, c calls, storeLabel string) model {
	search := textinput.New()
	search.Placeholder = "Search titles and content"
	search.CharLimit = 256

	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 256

	content := textinput.New()
	content.Placeholder = "What is on your mind?"
	content.CharLimit = 4096

	return model{
		ctx:          ctx,
		calls:        c,
		storeLabel:   storeLabel,
		loading:      map[callKind]bool{},
		sortBy:       journal.SortByDate,
		searchInput:  search,
		titleInput:   title,
		contentInput: content,
	}
}

func (m model) Init() tea.Cmd {
	return m.reload()
}

// reload refreshes everything derived from the entry set.
func (m model) reload() tea.Cmd {
	return tea.Batch(m.loadEntries(), m.calls.run(m.ctx, callTags), m.calls.run(m.ctx, callStats))
}

func (m model) filter() journal.EntryFilter {
	f := journal.EntryFilter{Search: strings.TrimSpace(m.searchInput.Value()), SortBy: m.sortBy}
	if m.tagCursor > 0 && m.tagCursor <= len(m.tags) {
		f.Tags = []string{m.tags[m.tagCursor-1].Name}
	}
	return f
}

// loadEntries starts a list call. A call already in flight is superseded.
func (m model) loadEntries() tea.Cmd {
	return m.calls.run(m.ctx, callEntries, m.filter())
}

func (m model) selectedEntry() (journal.Entry, bool) {
	if m.entryCursor < 0 || m.entryCursor >= len(m.entries) {
		return journal.Entry{}, false
	}
	return m.entries[m.entryCursor], true
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		return m.applyState(msg)

	case tea.KeyMsg:
		switch {
		case m.creating:
			return m.updateCreating(msg)
		case m.deleting:
			return m.updateDeleting(msg)
		case m.searching:
			return m.updateSearching(msg)
		}
		return m.updateNavigation(msg)
	}
	return m, nil
}

func (m model) applyState(msg stateMsg) (tea.Model, tea.Cmd) {
	st := msg.state
	m.loading[msg.kind] = st.Loading
	if st.Loading {
		return m, nil
	}
	if st.Err != nil {
		if !errors.Is(st.Err, context.Canceled) {
			m.err = st.Err
		}
		return m, nil
	}
	m.err = nil

	switch msg.kind {
	case callEntries:
		page, _ := st.Data.(journal.EntryPage)
		m.entries, m.total = page.Entries, page.Total
		if m.entryCursor >= len(m.entries) {
			m.entryCursor = max(len(m.entries)-1, 0)
		}
		m.analysis = nil
	case callTags:
		m.tags, _ = st.Data.([]journal.Tag)
		if m.tagCursor > len(m.tags) {
			m.tagCursor = 0
		}
	case callStats:
		m.stats, _ = st.Data.(journal.EntryStats)
	case callAnalysis:
		if res, ok := st.Data.(journal.AnalysisResult); ok {
			m.analysis = &res
		}
	case callCreate, callDelete:
		return m, m.reload()
	}
	return m, nil
}

func (m model) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if m.creatingStep == 0 {
			if strings.TrimSpace(m.titleInput.Value()) == "" {
				m.creatingError = "Title cannot be empty"
				return m, nil
			}
			m.creatingError = ""
			m.creatingStep = 1
			m.titleInput.Blur()
			return m, m.contentInput.Focus()
		}
		draft := journal.EntryDraft{Title: m.titleInput.Value(), Content: m.contentInput.Value()}
		if tag, ok := m.currentTag(); ok {
			draft.Tags = []string{tag}
		}
		m = m.resetCreating()
		return m, m.calls.run(m.ctx, callCreate, draft)

	case tea.KeyEsc:
		return m.resetCreating(), nil
	}

	var cmd tea.Cmd
	if m.creatingStep == 0 {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.contentInput, cmd = m.contentInput.Update(msg)
	}
	return m, cmd
}

func (m model) resetCreating() model {
	m.creating = false
	m.creatingStep = 0
	m.creatingError = ""
	m.titleInput.Reset()
	m.titleInput.Blur()
	m.contentInput.Reset()
	m.contentInput.Blur()
	return m
}

func (m model) currentTag() (string, bool) {
	if m.tagCursor > 0 && m.tagCursor <= len(m.tags) {
		return m.tags[m.tagCursor-1].Name, true
	}
	return "", false
}

func (m model) updateDeleting(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.deleteConfirmIdx = 0
	case "down", "j":
		m.deleteConfirmIdx = 1
	case "enter":
		m.deleting = false
		if e, ok := m.selectedEntry(); ok && m.deleteConfirmIdx == 0 {
			return m, m.calls.run(m.ctx, callDelete, e.ID)
		}
	case "esc":
		m.deleting = false
	}
	return m, nil
}

// updateSearching re-queries on every keystroke; earlier queries are
// superseded rather than raced.
func (m model) updateSearching(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		m.entryCursor = 0
		return m, m.loadEntries()
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() == before {
		return m, cmd
	}
	m.entryCursor = 0
	return m, tea.Batch(cmd, m.loadEntries())
}

func (m model) updateNavigation(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.calls.cancelAll()
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

	case "up", "k":
		if m.columnFocus == focusTags && m.tagCursor > 0 {
			m.tagCursor--
			m.entryCursor = 0
			return m, m.loadEntries()
		}
		if m.columnFocus == focusEntries && m.entryCursor > 0 {
			m.entryCursor--
			m.analysis = nil
		}

	case "down", "j":
		if m.columnFocus == focusTags && m.tagCursor < len(m.tags) {
			m.tagCursor++
			m.entryCursor = 0
			return m, m.loadEntries()
		}
		if m.columnFocus == focusEntries && m.entryCursor < len(m.entries)-1 {
			m.entryCursor++
			m.analysis = nil
		}

	case "right", "l", "enter", "tab":
		if m.columnFocus == focusTags && len(m.entries) > 0 {
			m.columnFocus = focusEntries
		} else if m.columnFocus == focusEntries {
			m.columnFocus = focusDetails
		}

	case "left", "h", "esc", "shift+tab":
		if m.columnFocus > focusTags {
			m.columnFocus--
		}

	case "/":
		m.searching = true
		return m, m.searchInput.Focus()

	case "s":
		if m.sortBy == journal.SortByDate {
			m.sortBy = journal.SortBySentiment
		} else {
			m.sortBy = journal.SortByDate
		}
		m.entryCursor = 0
		return m, m.loadEntries()

	case "n":
		m.creating = true
		return m, m.titleInput.Focus()

	case "d":
		if _, ok := m.selectedEntry(); ok && m.columnFocus != focusTags {
			m.deleting = true
			m.deleteConfirmIdx = 1
		}

	case "a":
		if e, ok := m.selectedEntry(); ok {
			return m, m.calls.run(m.ctx, callAnalysis, e.Title+"\n"+e.Content)
		}

	case "r":
		return m, m.reload()
	}
	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return "Bye!\n"
	}
	if m.width == 0 {
		return "Loading..."
	}

	titleBar := titleStyle.Width(m.width).Render("Eunoia - journal browser")

	leftWidth := m.width / 4
	middleWidth := m.width / 3
	rightWidth := m.width - leftWidth - middleWidth
	panelHeight := m.height - 3

	m.searchInput.Width = middleWidth - bordersAndPaddingWidth - 3
	m.titleInput.Width = rightWidth - bordersAndPaddingWidth - 10
	m.contentInput.Width = rightWidth - bordersAndPaddingWidth - 10

	left := panelStyle.Width(leftWidth).Height(panelHeight).Render(m.viewTags(leftWidth))
	middle := panelStyle.Width(middleWidth).Height(panelHeight).Render(m.viewEntries(middleWidth))
	right := lipgloss.NewStyle().Padding(0, 2).Width(rightWidth).Height(panelHeight).Render(m.viewDetails(rightWidth))

	columns := lipgloss.JoinHorizontal(lipgloss.Top, left, middle, right)
	footer := footerStyle.Width(m.width).Render(
		"\n↑/↓ navigate • ←/→ switch column • / search • s sort • n new • d delete • a analyze • r refresh • q quit")
	return titleBar + "\n\n" + columns + footer
}

func (m model) viewTags(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("  Tags"))
	b.WriteString("\n\n")

	avail := width - bordersAndPaddingWidth - 2
	items := make([]string, 0, len(m.tags)+1)
	items = append(items, "All entries")
	for _, t := range m.tags {
		items = append(items, fmt.Sprintf("%s (%d)", t.Name, t.Count))
	}
	for i, item := range items {
		style := inactiveStyle
		if i == m.tagCursor {
			style = selectedStyle
		}
		b.WriteString(linePointer(i == m.tagCursor && m.columnFocus == focusTags) + style.Render(truncate(item, avail)) + "\n")
	}

	s := m.stats
	b.WriteString("\n" + subtitleStyle.Render("  Stats") + "\n\n")
	fmt.Fprintf(&b, "Entries: %d (%d this week)\n", s.Total, s.ThisWeek)
	fmt.Fprintf(&b, "Streak: %d days (best %d)\n", s.CurrentStreak, s.LongestStreak)
	fmt.Fprintf(&b, "Mood: %s %s %s\n",
		sentimentColorize(fmt.Sprintf("+%d", s.Sentiment.Positive), journal.SentimentPositive),
		sentimentColorize(fmt.Sprintf("=%d", s.Sentiment.Neutral), journal.SentimentNeutral),
		sentimentColorize(fmt.Sprintf("-%d", s.Sentiment.Negative), journal.SentimentNegative))
	fmt.Fprintf(&b, "Store: %s\n", dimStyle.Render(m.storeLabel))
	return b.String()
}

func (m model) viewEntries(width int) string {
	var b strings.Builder
	heading := fmt.Sprintf("  Entries (%d)", m.total)
	if m.loading[callEntries] {
		heading += " ..."
	}
	b.WriteString(subtitleStyle.Render(heading))
	b.WriteString("\n")
	if m.searching || m.searchInput.Value() != "" {
		b.WriteString("/ " + m.searchInput.View())
	}
	b.WriteString(dimStyle.Render("  sorted by " + string(m.sortBy)))
	b.WriteString("\n\n")

	if len(m.entries) == 0 {
		b.WriteString("  No entries yet. Press 'n' to create one.\n")
		return b.String()
	}
	avail := width - bordersAndPaddingWidth - 2
	for i, e := range m.entries {
		style := inactiveStyle
		if i == m.entryCursor && m.columnFocus != focusTags {
			style = selectedStyle
		}
		pointer := linePointer(i == m.entryCursor && m.columnFocus == focusEntries)
		b.WriteString(pointer + style.Render(truncate(e.Title, avail)) + "\n")
		b.WriteString("  " + sentimentColorize(e.CreatedAt.Format("Jan 2 15:04"), journal.Categorize(e.Sentiment)) + "\n")
	}
	return b.String()
}

func (m model) viewDetails(width int) string {
	var b strings.Builder

	switch {
	case m.creating:
		b.WriteString(subtitleStyle.Render("New Entry") + "\n\n")
		b.WriteString("Title:   " + m.titleInput.View() + "\n")
		b.WriteString("Content: " + m.contentInput.View() + "\n\n")
		b.WriteString("(enter to continue, esc to cancel)")
		if m.creatingError != "" {
			b.WriteString("\n\n" + errorStyle.Render(m.creatingError))
		}
		return b.String()

	case m.deleting:
		e, _ := m.selectedEntry()
		b.WriteString(subtitleStyle.Render("Delete Entry") + "\n\n")
		b.WriteString("Title: " + errorStyle.Render(e.Title) + "\n\n")
		b.WriteString(confirmOptions(m.deleteConfirmIdx == 0) + "\n\n")
		b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
		return b.String()
	}

	b.WriteString(subtitleStyle.Render("Entry") + "\n\n")
	e, ok := m.selectedEntry()
	if !ok {
		b.WriteString("Select an entry to view details.")
		return m.withError(&b)
	}

	category := journal.Categorize(e.Sentiment)
	b.WriteString(labelStyle.Render("Title: ") + lipgloss.NewStyle().Bold(true).Render(e.Title) + "\n")
	b.WriteString(labelStyle.Render("Date: ") + e.CreatedAt.Format("Monday, January 2 2006 15:04") + "\n")
	b.WriteString(labelStyle.Render("Mood: ") +
		sentimentColorize(fmt.Sprintf("%s (%.2f)", category, e.Sentiment), category) + "\n")
	tags := "-"
	if len(e.Tags) > 0 {
		tags = strings.Join(e.Tags, " ")
	}
	b.WriteString(labelStyle.Render("Tags: ") + tagStyle.Render(tags) + "\n\n")
	b.WriteString(lipgloss.NewStyle().Width(width - bordersAndPaddingWidth).Render(journal.StripHTML(e.Content)))
	b.WriteString("\n\n")

	switch {
	case m.loading[callAnalysis]:
		b.WriteString(dimStyle.Render("Analyzing..."))
	case m.analysis != nil:
		a := m.analysis
		b.WriteString(subtitleStyle.Render("Analysis") + dimStyle.Render(" ("+string(a.SummarySource)+")") + "\n")
		b.WriteString(labelStyle.Render("Keywords: ") + strings.Join(a.Keywords, ", ") + "\n")
		b.WriteString(labelStyle.Render("Topics: ") + strings.Join(a.Topics, ", ") + "\n")
		b.WriteString(labelStyle.Render("Summary: ") + a.Summary + "\n")
	}
	return m.withError(&b)
}

func (m model) withError(b *strings.Builder) string {
	if m.err != nil {
		b.WriteString("\n\n" + errorStyle.Render("Error: "+m.err.Error()))
	}
	return b.String()
}

// ShowTUI runs the entry browser until the user quits. storeLabel is shown
// in the stats panel.
func ShowTUI(ctx context.Context, reg *invoke.Registry, storeLabel string) error {
	c, err := newCalls(ctx, reg)
	if err != nil {
		return err
	}
	defer c.cancelAll()

	p := tea.NewProgram(initModel(ctx, c, storeLabel), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
