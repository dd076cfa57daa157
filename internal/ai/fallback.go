package ai

import (
	"context"
	"strings"

	"github.com/spigell/interview-screener/internal/patterns"
	"github.com/spigell/interview-screener/internal/script"
)

// FallbackAnalysis builds an Analysis purely from the pattern matchers. It
// is the recovery path for model failures and malformed model output, and
// the whole analyzer when no model is configured. The engine's decision for
// a given input must come out the same whether the analysis was produced
// here or parsed from the model.
func FallbackAnalysis(node *script.Node, userText string, attemptCount int) *Analysis {
	noExperience := patterns.IsNoExperience(userText)

	extracted := Extracted{
		IsYes:           strings.Contains(strings.ToLower(userText), "yes"),
		HasNoExperience: noExperience,
		ShouldMoveOn:    attemptCount >= 1 && noExperience,
	}

	if node != nil && node.ID == script.NodeName {
		extracted.Name = patterns.ExtractName(userText)
	}

	return &Analysis{
		Relevance: 5,
		Clarity:   5,
		Extracted: extracted,
	}
}

// FallbackAnalyzer is the analyzer used when no model provider is
// configured. Candidate questions get no model-generated answer; the engine
// falls back to its scripted reply.
type FallbackAnalyzer struct{}

func NewFallbackAnalyzer() *FallbackAnalyzer {
	return &FallbackAnalyzer{}
}

func (*FallbackAnalyzer) Analyze(_ context.Context, node *script.Node, userText string, attemptCount int) *Analysis {
	return FallbackAnalysis(node, userText, attemptCount)
}

func (*FallbackAnalyzer) AnswerQuestion(context.Context, string, *script.JobDescription) (string, error) {
	return "", ErrUnavailable
}
