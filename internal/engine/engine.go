// Package engine is the decision core of the interview bot: given the
// current node, the candidate's answer and the per-conversation state, it
// decides the next node, whether the conversation ends, and what the bot
// says. Cheap pattern checks run first; the LLM-backed analyzer is consulted
// once per turn at most, and its absence never changes the contract.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-screener/internal/ai"
	"github.com/spigell/interview-screener/internal/patterns"
	"github.com/spigell/interview-screener/internal/script"
)

// protectedNodes never get the no-experience example treatment: skipping
// them would lose data the rest of the script depends on.
var protectedNodes = map[string]bool{
	script.NodeName:           true,
	script.NodeSalary:         true,
	script.NodeGreeting:       true,
	script.NodeRolePreference: true,
	script.NodeSuggestRoles:   true,
}

// categoryEntry maps a skip-to category to its entry node.
var categoryEntry = map[string]string{
	"python":     script.NodePythonRating,
	"react":      script.NodeReactRating,
	"debugging":  script.NodeDebugging,
	"quality":    "code-quality",
	"salary":     script.NodeSalary,
	"process":    "agile-experience",
	"learning":   "staying-updated",
	"conclusion": "candidate-questions",
}

// Request is one turn: the candidate's text plus the state snapshot the
// caller persisted after the previous turn.
type Request struct {
	NodeID   string
	UserText string
	UserData map[string]any
	Attempts map[string]int
	Ended    bool
}

// Result is the decision for the turn. UserData and Attempts are fresh maps;
// the request's snapshot is never mutated.
type Result struct {
	Content          string
	NextNodeID       string
	UserData         map[string]any
	Attempts         map[string]int
	EndConversation  bool
	WasExamplePrompt bool
}

// Engine evaluates turns against a fixed script. It holds no mutable state:
// everything that changes between turns travels in Request and Result, so a
// single Engine serves any number of conversations.
type Engine struct {
	script   *script.Script
	job      *script.JobDescription
	analyzer ai.Analyzer
	logger   *zap.Logger
}

func New(s *script.Script, job *script.JobDescription, analyzer ai.Analyzer, logger *zap.Logger) *Engine {
	if job == nil {
		job = script.DefaultJobDescription()
	}
	return &Engine{
		script:   s,
		job:      job,
		analyzer: analyzer,
		logger:   logger,
	}
}

// Script returns the engine's interview script.
func (e *Engine) Script() *script.Script {
	return e.script
}

// Greeting produces the opening turn: the start node's message with fresh
// state. Used when a conversation has no user message yet.
func (e *Engine) Greeting() *Result {
	return &Result{
		Content:    e.script.NodeMessage(e.script.StartNodeID, nil),
		NextNodeID: e.script.StartNodeID,
		UserData:   map[string]any{},
		Attempts:   map[string]int{},
	}
}

// Process runs one turn through the decision cascade. It never returns an
// error: every failure degrades to a scripted message and a safe transition.
func (e *Engine) Process(ctx context.Context, req *Request) *Result {
	userData := cloneUserData(req.UserData)
	attempts := cloneAttempts(req.Attempts)

	// Terminal conversations are idempotent: same node, same data,
	// no further branching.
	if req.Ended {
		return &Result{
			Content:         e.script.NodeMessage(req.NodeID, userData),
			NextNodeID:      req.NodeID,
			UserData:        userData,
			Attempts:        attempts,
			EndConversation: true,
		}
	}

	nodeID := req.NodeID
	if nodeID == "" {
		nodeID = e.script.StartNodeID
	}

	node := e.script.Node(nodeID)
	if node == nil {
		e.logger.Error("current node not found in script, resetting", zap.String("node_id", nodeID))
		return &Result{
			Content:    msgScriptError,
			NextNodeID: e.script.StartNodeID,
			UserData:   map[string]any{},
			Attempts:   map[string]int{},
		}
	}

	text := req.UserText

	// Disinterest wins over everything, on every node.
	if patterns.IsDisinterested(text) {
		e.logger.Info("candidate disengaged, ending conversation", zap.String("node_id", nodeID))
		return e.endAt(script.NodeEndNotInterested, msgFarewell, userData, attempts, nodeID)
	}

	// A literal question from the candidate is answered in place. It is not
	// an answer to the node, so it neither transitions nor counts as an
	// attempt.
	if strings.HasSuffix(strings.TrimSpace(text), "?") {
		return e.answerQuestion(ctx, nodeID, text, userData, attempts)
	}

	roleNode := nodeID == script.NodeRolePreference || nodeID == script.NodeSuggestRoles

	if roleNode {
		if patterns.IsRoleDisinterested(text) {
			e.logger.Info("candidate rejected all roles", zap.String("node_id", nodeID))
			return e.endAt(script.NodeEndNotInterested, msgRolesFarewell, userData, attempts, nodeID)
		}
		if patterns.IsVagueRole(text) {
			return e.stay(nodeID, msgClarifyRole, userData, attempts, false)
		}
		if nodeID == script.NodeRolePreference && patterns.IsUnsureAboutRole(text) {
			return e.move(nodeID, script.NodeSuggestRoles, e.script.NodeMessage(script.NodeSuggestRoles, userData), userData, attempts, false)
		}
	}

	if (nodeID == script.NodeReactRating || nodeID == script.NodeReactProject) && patterns.HasNoReactExperience(text) {
		target := e.script.NextNonCategoryNode(nodeID, "react", script.NodeDebugging)
		e.logger.Info("no react experience, skipping category",
			zap.String("node_id", nodeID),
			zap.String("target", target),
		)
		return e.move(nodeID, target, prefixNoReact+e.script.NodeMessage(target, userData), userData, attempts, false)
	}

	attemptCount := attempts[nodeID]

	// Attempt-capped no-experience handling: one example offer per node,
	// then force progression.
	if patterns.IsNoExperience(text) && !protectedNodes[nodeID] && node.NextNodeID != "" {
		if attemptCount >= 1 {
			e.logger.Debug("example already offered, advancing", zap.String("node_id", nodeID))
			return e.move(nodeID, node.NextNodeID, prefixMoveOnExpert+e.script.NodeMessage(node.NextNodeID, userData), userData, attempts, false)
		}
		if len(node.Examples) > 0 {
			return e.offerExample(node, userData, attempts)
		}
		return e.move(nodeID, node.NextNodeID, prefixMoveOn+e.script.NodeMessage(node.NextNodeID, userData), userData, attempts, false)
	}

	analysis := e.analyzer.Analyze(ctx, node, text, attemptCount)

	if result := e.applyAnalysis(node, text, analysis, userData, attempts, attemptCount); result != nil {
		return result
	}

	res := e.resolve(node, text, userData)
	if res.followUp {
		return e.stay(nodeID, res.followUpMessage, userData, attempts, true)
	}

	end := res.end || res.nextNodeID == script.NodeEnding
	content := e.script.NodeMessage(res.nextNodeID, userData)

	if end {
		return e.endAt(res.nextNodeID, content, userData, attempts, nodeID)
	}
	return e.move(nodeID, res.nextNodeID, content, userData, attempts, false)
}

// applyAnalysis branches on the structured analysis. A nil return means no
// analyzer-driven rule fired and the per-response-type logic decides.
func (e *Engine) applyAnalysis(node *script.Node, text string, analysis *ai.Analysis, userData map[string]any, attempts map[string]int, attemptCount int) *Result {
	nodeID := node.ID
	extracted := analysis.Extracted
	roleNode := nodeID == script.NodeRolePreference || nodeID == script.NodeSuggestRoles

	if extracted.IsDisinterested {
		farewell := msgFarewell
		if roleNode {
			farewell = msgRolesFarewell
		}
		e.logger.Info("analysis flagged disinterest", zap.String("node_id", nodeID))
		return e.endAt(script.NodeEndNotInterested, farewell, userData, attempts, nodeID)
	}

	if extracted.ShouldMoveOn && node.NextNodeID != "" {
		e.logger.Debug("analysis suggests moving on", zap.String("node_id", nodeID))
		return e.move(nodeID, node.NextNodeID, prefixMoveOnExpert+e.script.NodeMessage(node.NextNodeID, userData), userData, attempts, false)
	}

	if roleNode && extracted.IsVague {
		return e.stay(nodeID, msgClarifyRole, userData, attempts, false)
	}

	// Extraction writes are per-node: name on the name node, position on the
	// role nodes, salary on the salary node.
	if nodeID == script.NodeName && extracted.Name != "" {
		userData["name"] = extracted.Name
	}
	if roleNode && extracted.Position != "" {
		userData["position"] = extracted.Position
	}
	if nodeID == script.NodeSalary && extracted.Salary != nil {
		userData["salary"] = *extracted.Salary
	}

	if extracted.ShouldSkipCategory && extracted.SkipToCategory != "" {
		target, ok := categoryEntry[extracted.SkipToCategory]
		if !ok {
			target = script.NodeDebugging
		}
		e.logger.Info("analysis suggests category skip",
			zap.String("node_id", nodeID),
			zap.String("category", extracted.SkipToCategory),
			zap.String("target", target),
		)
		return e.move(nodeID, target, prefixDifferentTopic+e.script.NodeMessage(target, userData), userData, attempts, false)
	}

	if nodeID == script.NodeRolePreference && extracted.IsUnsure {
		return e.move(nodeID, script.NodeSuggestRoles, e.script.NodeMessage(script.NodeSuggestRoles, userData), userData, attempts, false)
	}

	if nodeID == script.NodeSalary && extracted.Salary != nil && *extracted.Salary > node.MaxSalary() {
		return e.move(nodeID, script.NodeNegotiateSalary, e.script.NodeMessage(script.NodeNegotiateSalary, userData), userData, attempts, false)
	}

	if extracted.HasNoExperience && !protectedNodes[nodeID] && node.NextNodeID != "" && attemptCount < 1 {
		if len(node.Examples) > 0 {
			return e.offerExample(node, userData, attempts)
		}
		return e.move(nodeID, node.NextNodeID, prefixMoveOn+e.script.NodeMessage(node.NextNodeID, userData), userData, attempts, false)
	}

	// Only follow up on truly off-topic answers, and never when the
	// candidate already said they cannot answer.
	if (analysis.Relevance < 2 || analysis.Clarity < 2) && !extracted.HasNoExperience {
		return e.stay(nodeID, e.clarificationMessage(node), userData, attempts, true)
	}

	return nil
}

var nonAlnumRe = regexp.MustCompile(`[^a-zA-Z0-9 ]`)

func (e *Engine) clarificationMessage(node *script.Node) string {
	topic := strings.TrimSpace(nonAlnumRe.ReplaceAllString(strings.ToLower(node.Message), ""))
	message := fmt.Sprintf(fmtNeedMorePrefix, topic)
	if len(node.Examples) > 0 {
		message += fmt.Sprintf(fmtExampleTrailing, node.Examples[0])
	}
	return message
}

func (e *Engine) answerQuestion(ctx context.Context, nodeID, question string, userData map[string]any, attempts map[string]int) *Result {
	answer, err := e.analyzer.AnswerQuestion(ctx, question, e.job)
	if err != nil || answer == "" {
		if err != nil {
			e.logger.Warn("question answering failed, using canned reply", zap.Error(err))
		}
		answer = msgNoJobInfo
	}
	return e.stay(nodeID, answer, userData, attempts, false)
}

// resolution is the outcome of the per-response-type state machine.
type resolution struct {
	nextNodeID      string
	end             bool
	followUp        bool
	followUpMessage string
}

// resolve encodes the per-response-type successor logic. It may write
// extracted values (salary, ratings) into userData. A node with neither a
// matching branch nor a default successor resolves to the forced ending:
// dead ends terminate, they never loop.
func (e *Engine) resolve(node *script.Node, text string, userData map[string]any) resolution {
	noExperience := patterns.IsNoExperience(text)

	// Short open answers earn a follow-up unless the candidate already
	// declared no experience.
	followUp := false
	followUpMessage := ""
	if node.ResponseType == script.ResponseOpen &&
		patterns.IsShortOrVague(text) &&
		node.ID != script.NodeName && node.ID != script.NodeGreeting &&
		!noExperience {
		followUp = true
		followUpMessage = fmtOpenFollowUp
		if len(node.Examples) > 0 {
			followUpMessage += fmt.Sprintf(fmtExampleTrailing, node.Examples[0])
		}
	}

	// No-experience answers on non-protected nodes normally never get here:
	// the attempt-capped handling in Process intercepts them first. This
	// covers protected callers and keeps resolve total on its own.
	if noExperience && !protectedNodes[node.ID] && node.NextNodeID != "" {
		return resolution{nextNodeID: node.NextNodeID}
	}

	switch node.ResponseType {
	case script.ResponseYesNo:
		condition := "no"
		if patterns.YesNoPolarity(text) {
			condition = "yes"
		}
		if branch := node.Branch(condition); branch != nil {
			return resolution{nextNodeID: branch.NextNodeID, end: branch.EndConversation}
		}

	case script.ResponseSalary:
		amount, ok := patterns.ExtractSalary(text)
		if !ok {
			hint := defaultSalaryHint
			if len(node.Examples) > 0 {
				hint = node.Examples[0]
			}
			return resolution{
				nextNodeID:      node.ID,
				followUp:        true,
				followUpMessage: fmt.Sprintf(fmtSalaryFollowUp, hint),
			}
		}

		userData["salary"] = amount

		condition := "within_range"
		if amount > node.MaxSalary() {
			condition = "above_range"
		}
		if branch := node.Branch(condition); branch != nil {
			return resolution{nextNodeID: branch.NextNodeID, end: branch.EndConversation}
		}

	case script.ResponseRating:
		rating, ok := patterns.ExtractRating(text)
		if !ok {
			return resolution{nextNodeID: node.ID, followUp: true, followUpMessage: msgRatingFollowUp}
		}

		if node.ID == script.NodePythonRating {
			userData["pythonRating"] = rating
		}
		if node.ID == script.NodeReactRating {
			userData["reactRating"] = rating
			if rating <= 2 {
				return resolution{nextNodeID: e.script.NextNonCategoryNode(node.ID, "react", script.NodeDebugging)}
			}
		}

	case script.ResponseOpen:
		if node.ID == script.NodeRolePreference || node.ID == script.NodeSuggestRoles {
			if patterns.IsRoleDisinterested(text) {
				return resolution{nextNodeID: script.NodeEndNotInterested, end: true}
			}
			if node.ID == script.NodeRolePreference {
				condition := "specific_role"
				if patterns.IsUnsureAboutRole(text) {
					condition = "unsure"
				}
				if branch := node.Branch(condition); branch != nil {
					return resolution{nextNodeID: branch.NextNodeID, end: branch.EndConversation}
				}
			}
		}
	}

	// Nodes without a matching branch advance on their default successor.
	if node.NextNodeID != "" {
		return resolution{
			nextNodeID:      node.NextNodeID,
			followUp:        followUp,
			followUpMessage: followUpMessage,
		}
	}

	// Dead end: treat as conversation complete rather than an error.
	return resolution{nextNodeID: script.NodeEnding, end: true}
}

// stay keeps the conversation on the node. Example and clarification prompts
// count against the node's attempt budget.
func (e *Engine) stay(nodeID, content string, userData map[string]any, attempts map[string]int, examplePrompt bool) *Result {
	if examplePrompt {
		attempts[nodeID]++
	}
	return &Result{
		Content:          content,
		NextNodeID:       nodeID,
		UserData:         userData,
		Attempts:         attempts,
		WasExamplePrompt: examplePrompt,
	}
}

func (e *Engine) offerExample(node *script.Node, userData map[string]any, attempts map[string]int) *Result {
	e.logger.Debug("offering example", zap.String("node_id", node.ID), zap.Int("attempt", attempts[node.ID]+1))
	return e.stay(node.ID, fmt.Sprintf(fmtExamplePrompt, node.Examples[0]), userData, attempts, true)
}

// move advances to another node, resetting the departed node's attempt
// counter.
func (e *Engine) move(fromNodeID, toNodeID, content string, userData map[string]any, attempts map[string]int, examplePrompt bool) *Result {
	if toNodeID != fromNodeID {
		delete(attempts, fromNodeID)
	}

	end := toNodeID == script.NodeEnding
	return &Result{
		Content:          content,
		NextNodeID:       toNodeID,
		UserData:         userData,
		Attempts:         attempts,
		EndConversation:  end,
		WasExamplePrompt: examplePrompt,
	}
}

func (e *Engine) endAt(nodeID, content string, userData map[string]any, attempts map[string]int, fromNodeID string) *Result {
	if nodeID != fromNodeID {
		delete(attempts, fromNodeID)
	}
	return &Result{
		Content:         content,
		NextNodeID:      nodeID,
		UserData:        userData,
		Attempts:        attempts,
		EndConversation: true,
	}
}

func cloneUserData(data map[string]any) map[string]any {
	cloned := make(map[string]any, len(data))
	for k, v := range data {
		cloned[k] = v
	}
	return cloned
}

func cloneAttempts(attempts map[string]int) map[string]int {
	cloned := make(map[string]int, len(attempts))
	for k, v := range attempts {
		cloned[k] = v
	}
	return cloned
}
