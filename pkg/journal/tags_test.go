package journal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/eunoia/pkg/journal"
	"github.com/unowned-ai/eunoia/pkg/simulate"
)

func TestGetTags_CountsFollowEntries(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Tags.CreateTag(ctx, "unused")
	require.NoError(t, err)
	f.seedEntry(t, "a", "x", 0, 0, "work", "family")
	f.seedEntry(t, "b", "x", 0, 1, "work")

	tags, err := f.svc.Tags.GetTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []journal.Tag{
		{Name: "family", Count: 1},
		{Name: "unused", Count: 0},
		{Name: "work", Count: 2},
	}, tags)
}

func TestCreateTag(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	tag, err := f.svc.Tags.CreateTag(ctx, "  gratitude ")
	require.NoError(t, err)
	assert.Equal(t, journal.Tag{Name: "gratitude"}, tag)

	_, err = f.svc.Tags.CreateTag(ctx, "gratitude")
	assert.ErrorIs(t, err, journal.ErrTagExists)

	_, err = f.svc.Tags.CreateTag(ctx, "   ")
	assert.ErrorIs(t, err, journal.ErrInvalidTag)
}

func TestDeleteTag_TrimsName(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.Tags.CreateTag(ctx, " x ")
	require.NoError(t, err)
	require.NoError(t, f.svc.Tags.DeleteTag(ctx, " x "))

	tags, err := f.svc.Tags.GetTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestDeleteTag_DetachesFromEntries(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	e := f.seedEntry(t, "a", "x", 0, 0, "work", "family")

	require.NoError(t, f.svc.Tags.DeleteTag(ctx, "work"))

	got, err := f.svc.Entries.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"family"}, got.Tags)

	tags, err := f.svc.Tags.GetTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []journal.Tag{{Name: "family", Count: 1}}, tags)

	assert.ErrorIs(t, f.svc.Tags.DeleteTag(ctx, "work"), journal.ErrTagNotFound)
}

func TestTags_SimulatedFailure(t *testing.T) {
	f := newFixture(t, failing())
	ctx := context.Background()

	_, err := f.svc.Tags.CreateTag(ctx, "fresh")
	assert.ErrorIs(t, err, simulate.ErrNetwork)

	names, err := f.store.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}
