package journal

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/unowned-ai/eunoia/pkg/simulate"
)

type TagService struct {
	tags    TagRepository
	entries EntryRepository
	sim     Simulator
	opts    *options
}

// GetTags lists every registered tag with the number of entries carrying it.
func (s *TagService) GetTags(ctx context.Context) ([]Tag, error) {
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return nil, err
	}
	names, err := s.tags.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	entries, err := s.entries.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	counts := countTags(entries)

	out := make([]Tag, 0, len(names))
	for _, n := range names {
		out = append(out, Tag{Name: n, Count: counts[n]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *TagService) CreateTag(ctx context.Context, name string) (Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Tag{}, ErrInvalidTag
	}
	exists, err := s.exists(ctx, name)
	if err != nil {
		return Tag{}, err
	}
	if exists {
		return Tag{}, ErrTagExists
	}
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return Tag{}, err
	}
	if err := s.tags.InsertTag(ctx, name); err != nil {
		return Tag{}, err
	}
	s.opts.logger.WithField("tag", name).Info("tag created")
	return Tag{Name: name}, nil
}

// DeleteTag removes the tag and detaches it from every entry.
func (s *TagService) DeleteTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	exists, err := s.exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTagNotFound
	}
	if err := s.sim.Request(ctx, simulate.Short); err != nil {
		return err
	}
	if err := s.tags.DeleteTag(ctx, name); err != nil {
		return err
	}
	s.opts.logger.WithField("tag", name).Info("tag deleted")
	return nil
}

func (s *TagService) exists(ctx context.Context, name string) (bool, error) {
	names, err := s.tags.ListTags(ctx)
	if err != nil {
		return false, fmt.Errorf("list tags: %w", err)
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}
