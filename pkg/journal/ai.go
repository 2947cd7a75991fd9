package journal

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/unowned-ai/eunoia/pkg/metrics"
	"github.com/unowned-ai/eunoia/pkg/simulate"
)

const (
	defaultPromptCount = 3
	maxPromptCount     = 10

	summaryPrompt = "Summarize the following journal entry in one sentence. Reply with the sentence only.\n\n"
	promptsPrompt = "Suggest %d short, open-ended journaling prompts. Reply with one prompt per line and nothing else."
	suggestPrompt = "Continue this journal entry with one or two gentle, encouraging sentences written in the first person. Reply with the sentences only.\n\n"
)

var cannedPrompts = []string{
	"What made you smile today?",
	"Describe a challenge you faced recently and how you handled it.",
	"What are three things you are grateful for right now?",
	"Write about a person who has influenced you this year.",
	"What would you tell your younger self about today?",
	"Which small habit would you like to build, and why?",
	"Describe a place where you feel completely at ease.",
	"What drained your energy this week, and what restored it?",
	"What are you looking forward to tomorrow?",
	"Write a letter to someone you miss.",
}

var cannedSuggestions = map[SentimentCategory][]string{
	SentimentPositive: {
		"I want to remember how this felt and come back to it on harder days.",
		"Moments like this remind me what matters most.",
	},
	SentimentNeutral: {
		"Looking at it now, I notice more than I expected to.",
		"Maybe tomorrow I'll try something a little different.",
	},
	SentimentNegative: {
		"It's okay that today was hard. I'm allowed to rest and start again tomorrow.",
		"Writing this down already makes it feel a little lighter.",
	},
}

// AIService analyzes text and produces writing help. Generated text falls
// back to canned text whenever the generator is missing or fails, and every
// result reports which path produced it.
type AIService struct {
	sim  Simulator
	opts *options
}

// AnalyzeText scores sentiment and extracts keywords and topics
// deterministically; only the summary depends on the generator.
func (s *AIService) AnalyzeText(ctx context.Context, text string) (AnalysisResult, error) {
	result := analyze(text)
	if err := s.sim.Request(ctx, simulate.Long); err != nil {
		return AnalysisResult{}, err
	}

	summary, src, err := s.generate(ctx, "summary", func() (string, bool) {
		if strings.TrimSpace(StripHTML(text)) == "" {
			return "", false
		}
		out, ok := s.call(ctx, "summary", summaryPrompt+StripHTML(text))
		return out, ok
	})
	if err != nil {
		return AnalysisResult{}, err
	}
	if src == SourceFallback {
		summary = fallbackSummary(text)
	}
	result.Summary = summary
	result.SummarySource = src
	return result, nil
}

// WritingPrompts returns n journaling prompts (3 when n <= 0, at most 10).
func (s *AIService) WritingPrompts(ctx context.Context, n int) (Generation, error) {
	if n <= 0 {
		n = defaultPromptCount
	}
	if n > maxPromptCount {
		n = maxPromptCount
	}
	if err := s.sim.Request(ctx, simulate.Long); err != nil {
		return Generation{}, err
	}

	var items []string
	_, src, err := s.generate(ctx, "prompts", func() (string, bool) {
		out, ok := s.call(ctx, "prompts", fmt.Sprintf(promptsPrompt, n))
		if !ok {
			return "", false
		}
		items = splitLines(out, n)
		return out, len(items) > 0
	})
	if err != nil {
		return Generation{}, err
	}
	if src == SourceFallback {
		items = make([]string, 0, n)
		for _, i := range s.opts.rnd.Perm(len(cannedPrompts))[:n] {
			items = append(items, cannedPrompts[i])
		}
	}
	return Generation{Items: items, Source: src}, nil
}

// Suggest proposes a continuation for a draft.
func (s *AIService) Suggest(ctx context.Context, text string) (Generation, error) {
	category := Categorize(ScoreSentiment(text))
	if err := s.sim.Request(ctx, simulate.Long); err != nil {
		return Generation{}, err
	}

	out, src, err := s.generate(ctx, "suggestion", func() (string, bool) {
		return s.call(ctx, "suggestion", suggestPrompt+StripHTML(text))
	})
	if err != nil {
		return Generation{}, err
	}
	if src == SourceFallback {
		choices := cannedSuggestions[category]
		out = choices[s.opts.rnd.Intn(len(choices))]
	}
	return Generation{Items: []string{out}, Source: src}, nil
}

// generate runs attempt and reports whether it produced usable text. A
// cancelled context is an error, not a fallback.
func (s *AIService) generate(ctx context.Context, kind string, attempt func() (string, bool)) (string, Source, error) {
	out, ok := attempt()
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	src := SourceFallback
	if ok {
		src = SourceGenerated
	}
	metrics.RecordGeneration(kind, string(src))
	return out, src, nil
}

func (s *AIService) call(ctx context.Context, kind, prompt string) (string, bool) {
	if s.opts.generator == nil {
		return "", false
	}
	out, err := s.opts.generator.Generate(ctx, prompt)
	if err != nil {
		s.opts.logger.WithError(err).WithField("kind", kind).Warn("generation failed, using fallback")
		return "", false
	}
	out = strings.TrimSpace(out)
	if out == "" {
		s.opts.logger.WithField("kind", kind).Warn("generator returned no text, using fallback")
		return "", false
	}
	return out, true
}

// listMarker matches a leading bullet or "1." / "1)" numbering.
var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// splitLines turns a list-shaped reply into at most n clean items.
func splitLines(s string, n int) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == n {
			break
		}
	}
	return out
}
