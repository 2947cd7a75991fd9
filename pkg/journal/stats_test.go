package journal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unowned-ai/eunoia/pkg/journal"
)

func TestCategorizeThresholds(t *testing.T) {
	tests := []struct {
		score float64
		want  journal.SentimentCategory
	}{
		{0.5, journal.SentimentPositive},
		{0.31, journal.SentimentPositive},
		{0.3, journal.SentimentNeutral},
		{0, journal.SentimentNeutral},
		{-0.3, journal.SentimentNeutral},
		{-0.31, journal.SentimentNegative},
		{-1, journal.SentimentNegative},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, journal.Categorize(tt.score), "score %v", tt.score)
	}
}

func TestGetStats_Empty(t *testing.T) {
	f := newFixture(t, nil)

	stats, err := f.svc.Entries.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, journal.EntryStats{TopTags: []journal.Tag{}}, stats)
}

func TestGetStats_AllPositive(t *testing.T) {
	f := newFixture(t, nil)
	for i := 0; i < 4; i++ {
		f.seedEntry(t, "e", "one two", 0.5, i*10)
	}

	stats, err := f.svc.Entries.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Sentiment.Positive)
	assert.Equal(t, 100.0, stats.Sentiment.PositivePercent)
	assert.Zero(t, stats.Sentiment.Neutral)
	assert.Zero(t, stats.Sentiment.Negative)
}

func TestGetStats_Aggregates(t *testing.T) {
	f := newFixture(t, nil)
	f.seedEntry(t, "today", "<p>one two three four</p>", 0.5, 0, "work", "health")
	f.seedEntry(t, "yesterday", "one two", 0.3, 1, "work")
	f.seedEntry(t, "two days", "one two three", -0.31, 2, "work")
	f.seedEntry(t, "week", "one", -0.3, 7)
	f.seedEntry(t, "old", "one two three four five six", 0.31, 20, "family")
	f.seedEntry(t, "older", "", 0.9, 21)
	f.seedEntry(t, "oldest", "one two", 0, 45)

	stats, err := f.svc.Entries.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, stats.Total)
	assert.Equal(t, 4, stats.ThisWeek)
	assert.Equal(t, 6, stats.ThisMonth)
	assert.Equal(t, 2.6, stats.AverageWordCount)

	assert.Equal(t, journal.SentimentBreakdown{
		Positive: 3, Neutral: 3, Negative: 1,
		PositivePercent: 42.9, NeutralPercent: 42.9, NegativePercent: 14.3,
	}, stats.Sentiment)

	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.LongestStreak)
	assert.Equal(t, []journal.Tag{
		{Name: "work", Count: 3},
		{Name: "family", Count: 1},
		{Name: "health", Count: 1},
	}, stats.TopTags)
}

func TestGetStats_StreakEndingYesterday(t *testing.T) {
	f := newFixture(t, nil)
	for _, d := range []int{1, 2, 5, 6, 7, 8} {
		f.seedEntry(t, "e", "x", 0, d)
	}

	stats, err := f.svc.Entries.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 4, stats.LongestStreak)
}

func TestGetStats_NoRecentStreak(t *testing.T) {
	f := newFixture(t, nil)
	f.seedEntry(t, "e", "x", 0, 3)

	stats, err := f.svc.Entries.GetStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.CurrentStreak)
	assert.Equal(t, 1, stats.LongestStreak)
}
