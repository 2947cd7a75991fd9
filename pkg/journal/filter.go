package journal

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

type SentimentCategory string

const (
	SentimentPositive SentimentCategory = "positive"
	SentimentNeutral  SentimentCategory = "neutral"
	SentimentNegative SentimentCategory = "negative"
)

// Scores strictly above PositiveThreshold are positive, strictly below
// NegativeThreshold negative, everything in between neutral.
const (
	PositiveThreshold = 0.3
	NegativeThreshold = -0.3
)

// Categorize buckets a sentiment score.
func Categorize(score float64) SentimentCategory {
	switch {
	case score > PositiveThreshold:
		return SentimentPositive
	case score < NegativeThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

type SortOrder string

const (
	SortByDate      SortOrder = "date"
	SortBySentiment SortOrder = "sentiment"
)

// DateRange bounds CreatedAt inclusively. A zero bound is open.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// EntryFilter selects and orders entries. The zero value matches everything,
// newest first.
type EntryFilter struct {
	Search    string            `json:"search,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
	DateRange DateRange         `json:"date_range"`
	Sentiment SentimentCategory `json:"sentiment,omitempty"`
	SortBy    SortOrder         `json:"sort_by,omitempty"`
	Limit     int               `json:"limit,omitempty"`
	Offset    int               `json:"offset,omitempty"`
}

// Validate rejects unknown enum values, negative paging and inverted ranges.
func (f EntryFilter) Validate() error {
	switch f.Sentiment {
	case "", SentimentPositive, SentimentNeutral, SentimentNegative:
	default:
		return fmt.Errorf("%w: unknown sentiment %q", ErrInvalidFilter, f.Sentiment)
	}
	switch f.SortBy {
	case "", SortByDate, SortBySentiment:
	default:
		return fmt.Errorf("%w: unknown sort order %q", ErrInvalidFilter, f.SortBy)
	}
	if f.Limit < 0 || f.Offset < 0 {
		return fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidFilter)
	}
	from, to := f.DateRange.From, f.DateRange.To
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("%w: date range ends before it starts", ErrInvalidFilter)
	}
	return nil
}

// Apply runs search, tags, date range and sentiment in that order, sorts the
// survivors and cuts the requested page. The input slice is not modified.
func (f EntryFilter) Apply(entries []Entry) EntryPage {
	out := make([]Entry, 0, len(entries))
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(f.Search))

	for _, e := range entries {
		if query != "" &&
			!strings.Contains(fold.String(e.Title), query) &&
			!strings.Contains(fold.String(e.Content), query) {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(e.Tags, f.Tags) {
			continue
		}
		if !f.DateRange.From.IsZero() && e.CreatedAt.Before(f.DateRange.From) {
			continue
		}
		if !f.DateRange.To.IsZero() && e.CreatedAt.After(f.DateRange.To) {
			continue
		}
		if f.Sentiment != "" && Categorize(e.Sentiment) != f.Sentiment {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if f.SortBy == SortBySentiment {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Sentiment > out[j].Sentiment
		})
	}

	total := len(out)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			out = out[:0]
		} else {
			out = out[f.Offset:]
		}
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return EntryPage{Entries: out, Total: total}
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
