package journal

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unowned-ai/eunoia/pkg/simulate"
)

type EntryService struct {
	entries EntryRepository
	sim     Simulator
	opts    *options
}

// GetEntries returns the entries matching filter, newest first unless the
// filter asks for sentiment order.
func (s *EntryService) GetEntries(ctx context.Context, filter EntryFilter) (EntryPage, error) {
	if err := filter.Validate(); err != nil {
		return EntryPage{}, err
	}
	if err := s.sim.Request(ctx, simulate.Medium); err != nil {
		return EntryPage{}, err
	}
	all, err := s.entries.ListEntries(ctx)
	if err != nil {
		return EntryPage{}, fmt.Errorf("list entries: %w", err)
	}
	return filter.Apply(all), nil
}

func (s *EntryService) GetEntry(ctx context.Context, id uuid.UUID) (Entry, error) {
	e, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// CreateEntry stores a new entry. Sentiment and topics are derived from the
// title and content; tags that do not exist yet are registered.
func (s *EntryService) CreateEntry(ctx context.Context, draft EntryDraft) (Entry, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" && strings.TrimSpace(StripHTML(draft.Content)) == "" {
		return Entry{}, ErrEmptyEntry
	}
	if title == "" {
		title = untitledEntryName
	}
	contentType := draft.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	text := title + "\n" + draft.Content
	now := s.opts.clock()
	entry := Entry{
		ID:          uuid.New(),
		Title:       title,
		Content:     draft.Content,
		ContentType: contentType,
		Tags:        normalizeTags(draft.Tags),
		Topics:      DetectTopics(text),
		Sentiment:   ScoreSentiment(text),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if entry.Topics == nil {
		entry.Topics = []string{}
	}

	if err := s.sim.Request(ctx, simulate.Medium); err != nil {
		return Entry{}, err
	}
	if err := s.entries.InsertEntry(ctx, entry); err != nil {
		return Entry{}, fmt.Errorf("insert entry: %w", err)
	}

	s.opts.logger.WithFields(logrus.Fields{"entry": entry.ID, "tags": len(entry.Tags)}).Info("entry created")
	return entry, nil
}

// UpdateEntry merges patch into the stored entry. Only patched fields and
// UpdatedAt change, and UpdatedAt never moves backwards.
func (s *EntryService) UpdateEntry(ctx context.Context, id uuid.UUID, patch EntryPatch) (Entry, error) {
	current, err := s.entries.GetEntry(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if patch.Sentiment != nil && (*patch.Sentiment < -1 || *patch.Sentiment > 1) {
		return Entry{}, ErrInvalidSentiment
	}

	updated := current
	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Content != nil {
		updated.Content = *patch.Content
	}
	if patch.ContentType != nil {
		updated.ContentType = *patch.ContentType
	}
	if patch.Tags != nil {
		updated.Tags = normalizeTags(*patch.Tags)
	}
	if patch.Topics != nil {
		updated.Topics = append([]string{}, (*patch.Topics)...)
	}
	if patch.Sentiment != nil {
		updated.Sentiment = *patch.Sentiment
	}
	if now := s.opts.clock(); now.After(current.UpdatedAt) {
		updated.UpdatedAt = now
	}

	if err := s.sim.Request(ctx, simulate.Medium); err != nil {
		return Entry{}, err
	}
	if err := s.entries.UpdateEntry(ctx, updated); err != nil {
		return Entry{}, fmt.Errorf("update entry: %w", err)
	}
	return updated, nil
}

func (s *EntryService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if _, err := s.entries.GetEntry(ctx, id); err != nil {
		return err
	}
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return err
	}
	if err := s.entries.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.opts.logger.WithField("entry", id).Info("entry deleted")
	return nil
}

// GetStats aggregates every stored entry relative to the service clock.
func (s *EntryService) GetStats(ctx context.Context) (EntryStats, error) {
	if err := s.sim.Request(ctx, simulate.Long); err != nil {
		return EntryStats{}, err
	}
	all, err := s.entries.ListEntries(ctx)
	if err != nil {
		return EntryStats{}, fmt.Errorf("list entries: %w", err)
	}
	return computeStats(all, s.opts.clock()), nil
}

func (s *EntryService) Templates(ctx context.Context) ([]Template, error) {
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return nil, err
	}
	out := make([]Template, len(builtinTemplates))
	for i, tpl := range builtinTemplates {
		tpl.Tags = append([]string(nil), tpl.Tags...)
		out[i] = tpl
	}
	return out, nil
}

// CreateFromTemplate starts a new entry from one of the built-in templates.
func (s *EntryService) CreateFromTemplate(ctx context.Context, templateID string) (Entry, error) {
	tpl, ok := findTemplate(templateID)
	if !ok {
		return Entry{}, ErrTemplateNotFound
	}
	return s.CreateEntry(ctx, EntryDraft{
		Title:   tpl.Title,
		Content: tpl.Content,
		Tags:    tpl.Tags,
	})
}

// normalizeTags trims names, drops empties and duplicates, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
