// Package ai defines the contract between the transition engine and the
// language-model integration: the structured analysis record, the analyzer
// interface, and the pattern-only fallback every implementation degrades to.
package ai

import (
	"context"
	"errors"

	"github.com/spigell/interview-screener/internal/script"
)

// ErrUnavailable is returned by analyzers that have no model behind them,
// such as the pattern-only fallback answering candidate questions.
var ErrUnavailable = errors.New("language model is not available")

// Analysis is the structured interpretation of one candidate answer. It is
// either parsed out of the model's response or synthesized locally from the
// pattern matchers; the engine must not be able to tell the difference.
type Analysis struct {
	// Relevance and Clarity are 0-10 scores; the fallback pins both to the
	// mid-scale 5.
	Relevance int       `json:"relevance"`
	Clarity   int       `json:"clarity"`
	Extracted Extracted `json:"extractedInfo"`
}

// Extracted carries the per-node extraction results. Optional fields stay at
// their zero value when the node does not ask for them.
type Extracted struct {
	Name     string   `json:"name,omitempty"`
	Position string   `json:"position,omitempty"`
	Salary   *float64 `json:"salary,omitempty"`

	IsYes              bool   `json:"isYes"`
	IsUnsure           bool   `json:"isUnsure"`
	IsVague            bool   `json:"isVague"`
	IsDisinterested    bool   `json:"isDisinterested"`
	HasNoExperience    bool   `json:"hasNoExperience"`
	NeedsFollowUp      bool   `json:"needsFollowUp"`
	ShouldSkipCategory bool   `json:"shouldSkipCategory"`
	SkipToCategory     string `json:"skipToCategory,omitempty"`
	ShouldMoveOn       bool   `json:"shouldMoveOn"`
}

// Analyzer interprets candidate answers. Analyze never fails: any model or
// parse problem degrades to the local fallback analysis. AnswerQuestion may
// fail, in which case the engine substitutes its canned reply.
type Analyzer interface {
	Analyze(ctx context.Context, node *script.Node, userText string, attemptCount int) *Analysis
	AnswerQuestion(ctx context.Context, question string, job *script.JobDescription) (string, error)
}

// Generator is the black-box model invocation: prompt in, text out. It may
// fail with a transport or auth error, and the text it returns may be
// arbitrarily malformed.
type Generator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}
