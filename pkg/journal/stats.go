package journal

import (
	"math"
	"sort"
	"time"
)

const topTagLimit = 5

func computeStats(entries []Entry, now time.Time) EntryStats {
	stats := EntryStats{Total: len(entries), TopTags: []Tag{}}
	if len(entries) == 0 {
		return stats
	}

	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)
	words := 0
	for _, e := range entries {
		if !e.CreatedAt.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !e.CreatedAt.Before(monthAgo) {
			stats.ThisMonth++
		}
		words += WordCount(e.Content)

		switch Categorize(e.Sentiment) {
		case SentimentPositive:
			stats.Sentiment.Positive++
		case SentimentNegative:
			stats.Sentiment.Negative++
		default:
			stats.Sentiment.Neutral++
		}
	}

	total := float64(len(entries))
	stats.AverageWordCount = round1(float64(words) / total)
	stats.Sentiment.PositivePercent = round1(float64(stats.Sentiment.Positive) * 100 / total)
	stats.Sentiment.NeutralPercent = round1(float64(stats.Sentiment.Neutral) * 100 / total)
	stats.Sentiment.NegativePercent = round1(float64(stats.Sentiment.Negative) * 100 / total)
	stats.CurrentStreak, stats.LongestStreak = streaks(entries, now)

	counts := countTags(entries)
	for name, n := range counts {
		stats.TopTags = append(stats.TopTags, Tag{Name: name, Count: n})
	}
	sort.Slice(stats.TopTags, func(i, j int) bool {
		a, b := stats.TopTags[i], stats.TopTags[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(stats.TopTags) > topTagLimit {
		stats.TopTags = stats.TopTags[:topTagLimit]
	}
	return stats
}

// streaks counts consecutive calendar days with at least one entry, in the
// location of now. The current streak may end yesterday if nothing has been
// written today yet.
func streaks(entries []Entry, now time.Time) (current, longest int) {
	loc := now.Location()
	days := make(map[time.Time]struct{}, len(entries))
	for _, e := range entries {
		days[dayOf(e.CreatedAt, loc)] = struct{}{}
	}

	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	for i, d := range sorted {
		if i > 0 && sorted[i-1].AddDate(0, 0, 1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	day := dayOf(now, loc)
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
	}
	for {
		if _, ok := days[day]; !ok {
			break
		}
		current++
		day = day.AddDate(0, 0, -1)
	}
	return current, longest
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// countTags derives per-tag usage from entry membership.
func countTags(entries []Entry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		for _, t := range e.Tags {
			counts[t]++
		}
	}
	return counts
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
