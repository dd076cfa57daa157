package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/interview-screener/internal/ai"
	"github.com/spigell/interview-screener/internal/patterns"
	"github.com/spigell/interview-screener/internal/script"
)

//go:embed analysis_prompt.md
var analysisPromptTemplate string

//go:embed question_prompt.md
var questionPromptTemplate string

const (
	analysisSystemPrompt = "You are a data extraction assistant."
	questionSystemPrompt = "You are an AI assistant for a technical recruiter."

	defaultMaxLogLength = 200
)

// Analyzer interprets candidate answers with Gemini and degrades to the
// pattern-built fallback analysis on any model or parse failure. It invokes
// the model exactly once per call.
type Analyzer struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator ai.Generator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Analyze builds the extraction prompt for the current node, invokes the
// model once, and parses its output into an ai.Analysis. The fallback
// analysis is substituted whenever the call fails or the output cannot be
// parsed, so the caller proceeds identically either way.
func (a *Analyzer) Analyze(ctx context.Context, node *script.Node, userText string, attemptCount int) *ai.Analysis {
	prompt := buildAnalysisPrompt(node, userText, attemptCount)

	a.logger.Debug("analysis request",
		zap.String("node_id", node.ID),
		zap.Int("attempt_count", attemptCount),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := a.generator.GenerateContent(ctx, analysisSystemPrompt, prompt)
	if err != nil {
		a.logger.Warn("analysis call failed, using pattern fallback",
			zap.String("node_id", node.ID),
			zap.Error(err),
		)
		return ai.FallbackAnalysis(node, userText, attemptCount)
	}

	a.logger.Debug("analysis response",
		zap.String("node_id", node.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", truncateForLog(raw, a.maxLogLen)),
	)

	analysis, err := parseAnalysis(raw)
	if err != nil {
		a.logger.Warn("analysis response unparseable, using pattern fallback",
			zap.String("node_id", node.ID),
			zap.String("raw", truncateForLog(raw, a.maxLogLen)),
			zap.Error(err),
		)
		return ai.FallbackAnalysis(node, userText, attemptCount)
	}

	return analysis
}

// AnswerQuestion answers a literal candidate question using the job
// description as context.
func (a *Analyzer) AnswerQuestion(ctx context.Context, question string, job *script.JobDescription) (string, error) {
	if job == nil {
		job = script.DefaultJobDescription()
	}

	prompt := strings.NewReplacer(
		"{{QUESTION}}", question,
		"{{COMPANY}}", job.Company,
		"{{POSITION}}", job.Position,
		"{{LOCATION}}", job.Location,
		"{{SALARY}}", job.About.Salary,
		"{{BENEFITS}}", strings.Join(job.Benefits, ", "),
	).Replace(questionPromptTemplate)

	answer, err := a.generator.GenerateContent(ctx, questionSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("answer candidate question: %w", err)
	}

	return strings.TrimSpace(answer), nil
}

func buildAnalysisPrompt(node *script.Node, userText string, attemptCount int) string {
	category := node.Category
	if category == "" {
		category = "general"
	}

	var extra strings.Builder
	switch node.ID {
	case script.NodeName:
		extra.WriteString(`"name": "extracted name",` + "\n  ")
	case script.NodeRolePreference, script.NodeSuggestRoles:
		extra.WriteString(`"position": "extracted position", "isUnsure": true/false, "isDisinterested": true/false, "isVague": true/false,` + "\n  ")
	case script.NodeSalary:
		extra.WriteString(`"salary": number (in USD),` + "\n  ")
	}

	noExperience := patterns.IsNoExperience(userText)

	return strings.NewReplacer(
		"{{QUESTION}}", node.Message,
		"{{ANSWER}}", userText,
		"{{NODE_ID}}", node.ID,
		"{{CATEGORY}}", category,
		"{{ATTEMPTS}}", strconv.Itoa(attemptCount),
		"{{EXTRA_FIELDS}}", extra.String(),
		"{{HAS_NO_EXPERIENCE}}", strconv.FormatBool(noExperience),
		"{{SHOULD_MOVE_ON}}", strconv.FormatBool(attemptCount >= 1 && noExperience),
	).Replace(analysisPromptTemplate)
}

// parseAnalysis turns the model's free-text output into a typed analysis.
// Models wrap JSON in code fences and are sloppy about types ("5" vs 5,
// "true" vs true), so the JSON is decoded into a generic map first and then
// weakly coerced into the record.
func parseAnalysis(raw string) (*ai.Analysis, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse analysis json: %w", err)
	}

	var analysis ai.Analysis
	cfg := &mapstructure.DecoderConfig{
		Result:           &analysis,
		TagName:          "json",
		WeaklyTypedInput: true,
	}

	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build analysis decoder: %w", err)
	}

	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}

	return &analysis, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func truncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
