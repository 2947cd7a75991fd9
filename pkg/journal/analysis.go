package journal

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

const (
	maxKeywords       = 5
	minKeywordRunes   = 5
	maxSummaryRunes   = 140
	summaryEllipsis   = "..."
	untitledEntryName = "Untitled entry"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

var positiveWords = wordSet(
	"happy", "happiness", "joy", "joyful", "glad", "grateful", "gratitude", "thankful",
	"love", "loved", "lovely", "calm", "peaceful", "relaxed", "excited", "exciting",
	"proud", "hopeful", "hope", "great", "good", "wonderful", "amazing", "awesome",
	"accomplished", "content", "inspired", "energized", "fun", "beautiful", "smile",
	"smiled", "laugh", "laughed", "success", "successful", "better", "best", "enjoyed",
)

var negativeWords = wordSet(
	"sad", "unhappy", "angry", "anxious", "anxiety", "stressed", "stress", "tired",
	"worried", "worry", "lonely", "frustrated", "frustrating", "upset", "afraid",
	"overwhelmed", "bad", "terrible", "awful", "hurt", "exhausted", "disappointed",
	"cry", "cried", "fear", "difficult", "hard", "worse", "worst", "annoyed", "miserable",
	"depressed", "nervous", "pain",
)

var stopWords = wordSet(
	"about", "above", "after", "again", "against", "because", "before", "being", "below",
	"between", "could", "doing", "during", "every", "having", "itself", "might", "other",
	"really", "should", "their", "theirs", "there", "these", "thing", "things", "those",
	"through", "today", "under", "until", "where", "which", "while", "would", "yourself",
)

type topic struct {
	name  string
	words map[string]struct{}
}

// topicVocabulary is the fixed set of topics analysis can report, in report order.
var topicVocabulary = []topic{
	{"work", wordSet("work", "working", "job", "office", "meeting", "meetings", "project", "deadline", "boss", "colleague", "colleagues", "career")},
	{"family", wordSet("family", "mom", "dad", "mother", "father", "sister", "brother", "kids", "children", "parents", "grandma", "grandpa")},
	{"health", wordSet("health", "healthy", "exercise", "workout", "sleep", "slept", "doctor", "running", "yoga", "gym", "diet")},
	{"relationships", wordSet("friend", "friends", "partner", "relationship", "dinner", "wife", "husband", "girlfriend", "boyfriend", "together")},
	{"personal growth", wordSet("goal", "goals", "learn", "learned", "learning", "growth", "habit", "habits", "improve", "progress", "reflect")},
	{"gratitude", wordSet("grateful", "thankful", "gratitude", "appreciate", "appreciated", "blessed")},
	{"travel", wordSet("travel", "trip", "flight", "vacation", "journey", "beach", "mountains", "abroad")},
	{"creativity", wordSet("write", "writing", "paint", "painting", "music", "draw", "drawing", "create", "idea", "ideas", "creative")},
	{"nature", wordSet("nature", "walk", "park", "forest", "garden", "sunset", "sunrise", "rain", "ocean", "hike")},
	{"mindfulness", wordSet("meditate", "meditation", "meditated", "breathe", "breathing", "mindful", "present")},
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// StripHTML removes markup so only the written text remains.
func StripHTML(s string) string {
	return htmlTag.ReplaceAllString(s, " ")
}

// WordCount counts whitespace separated words after stripping markup.
func WordCount(s string) int {
	return len(strings.Fields(StripHTML(s)))
}

// words splits text into case-folded runs of letters and digits.
func words(text string) []string {
	fold := cases.Fold()
	raw := strings.FieldsFunc(StripHTML(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		out = append(out, fold.String(w))
	}
	return out
}

// ScoreSentiment is a lexicon score in (-1, 1): (positive-negative)/(positive+negative+1),
// rounded to two decimals. Text with no lexicon hits scores 0.
func ScoreSentiment(text string) float64 {
	var pos, neg int
	for _, w := range words(text) {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	score := float64(pos-neg) / float64(pos+neg+1)
	return math.Round(score*100) / 100
}

// ExtractKeywords returns up to five words longer than four characters,
// most frequent first, ties broken by first appearance.
func ExtractKeywords(text string) []string {
	type stat struct {
		count, first int
	}
	stats := make(map[string]*stat)
	var order []string
	for i, w := range words(text) {
		if utf8.RuneCountInString(w) < minKeywordRunes {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		if s, ok := stats[w]; ok {
			s.count++
			continue
		}
		stats[w] = &stat{count: 1, first: i}
		order = append(order, w)
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := stats[order[i]], stats[order[j]]
		if a.count != b.count {
			return a.count > b.count
		}
		return a.first < b.first
	})
	if len(order) > maxKeywords {
		order = order[:maxKeywords]
	}
	return order
}

// DetectTopics reports which vocabulary topics the text touches.
func DetectTopics(text string) []string {
	seen := make(map[string]struct{})
	for _, w := range words(text) {
		seen[w] = struct{}{}
	}
	var out []string
	for _, t := range topicVocabulary {
		for w := range t.words {
			if _, ok := seen[w]; ok {
				out = append(out, t.name)
				break
			}
		}
	}
	return out
}

// fallbackSummary is the first sentence of the text, shortened if needed.
func fallbackSummary(text string) string {
	plain := strings.Join(strings.Fields(StripHTML(text)), " ")
	if plain == "" {
		return ""
	}
	if i := strings.IndexAny(plain, ".!?"); i >= 0 {
		plain = plain[:i+1]
	}
	if utf8.RuneCountInString(plain) > maxSummaryRunes {
		r := []rune(plain)
		plain = strings.TrimSpace(string(r[:maxSummaryRunes-len(summaryEllipsis)])) + summaryEllipsis
	}
	return plain
}

// analyze computes every deterministic part of an AnalysisResult.
func analyze(text string) AnalysisResult {
	score := ScoreSentiment(text)
	keywords := ExtractKeywords(text)
	if keywords == nil {
		keywords = []string{}
	}
	topics := DetectTopics(text)
	if topics == nil {
		topics = []string{}
	}
	return AnalysisResult{
		Sentiment: score,
		Category:  Categorize(score),
		Keywords:  keywords,
		Topics:    topics,
	}
}
