package script

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Response types govern which transition sub-logic the engine applies to a
// node.
const (
	ResponseOpen       = "open"
	ResponseYesNo      = "yes-no"
	ResponseRating     = "rating"
	ResponseSalary     = "salary"
	ResponseExperience = "experience"
	ResponseEducation  = "education"
	ResponseSkills     = "skills"
)

// Branch is a conditional transition out of a node. Condition labels are
// response-type specific tokens such as "yes", "no", "unsure",
// "specific_role", "within_range" or "above_range".
type Branch struct {
	Condition       string `json:"condition"`
	NextNodeID      string `json:"nextNodeId"`
	EndConversation bool   `json:"endConversation,omitempty"`
}

// ValidationRules holds the numeric bounds attached to a node. Only salary
// nodes use them today.
type ValidationRules struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// Node is one step of the interview script.
type Node struct {
	ID              string           `json:"id"`
	Message         string           `json:"message"`
	ResponseType    string           `json:"responseType"`
	NextNodeID      string           `json:"nextNodeId,omitempty"`
	Branches        []Branch         `json:"branches,omitempty"`
	Examples        []string         `json:"examples,omitempty"`
	ValidationRules *ValidationRules `json:"validationRules,omitempty"`
	Category        string           `json:"category,omitempty"`
}

// Branch returns the first branch matching the condition label, or nil.
func (n *Node) Branch(condition string) *Branch {
	for i := range n.Branches {
		if n.Branches[i].Condition == condition {
			return &n.Branches[i]
		}
	}
	return nil
}

// Terminal reports whether the node has no way out: no default successor and
// no branches.
func (n *Node) Terminal() bool {
	return n.NextNodeID == "" && len(n.Branches) == 0
}

// MaxSalary returns the node's upper salary bound, falling back to the
// default budget when the node carries no validation rules.
func (n *Node) MaxSalary() float64 {
	if n.ValidationRules != nil && n.ValidationRules.Max > 0 {
		return n.ValidationRules.Max
	}
	return DefaultMaxSalary
}

// DefaultMaxSalary is applied when a salary node has no explicit max bound.
const DefaultMaxSalary = 100000

// Script is the immutable interview graph shared by all conversations.
type Script struct {
	Nodes       map[string]*Node `json:"nodes"`
	StartNodeID string           `json:"startNodeId"`
}

// Node returns the node with the given id, or nil when the id is unknown.
func (s *Script) Node(id string) *Node {
	return s.Nodes[id]
}

// NodeMessage renders a node's message, substituting {name} and {position}
// placeholders from the accumulated user data. Unknown nodes produce a
// generic sign-off; unmatched placeholders are left verbatim.
func (s *Script) NodeMessage(nodeID string, userData map[string]any) string {
	node := s.Node(nodeID)
	if node == nil {
		return "Thanks for your time!"
	}

	message := node.Message
	if name, ok := userData["name"].(string); ok && name != "" {
		message = strings.ReplaceAll(message, "{name}", name)
	}
	if position, ok := userData["position"].(string); ok && position != "" {
		message = strings.ReplaceAll(message, "{position}", position)
	}

	return message
}

// NextNonCategoryNode walks default successors from the given node until it
// leaves the category, returning the first node outside of it. The fallback
// target is returned when the walk dead-ends inside the category.
func (s *Script) NextNonCategoryNode(fromNodeID, category, fallback string) string {
	seen := make(map[string]bool)
	current := s.Node(fromNodeID)

	for current != nil && current.NextNodeID != "" && !seen[current.ID] {
		seen[current.ID] = true
		next := s.Node(current.NextNodeID)
		if next == nil {
			break
		}
		if next.Category != category {
			return next.ID
		}
		current = next
	}

	return fallback
}

// Validate checks the graph invariant: the start node exists, every branch
// and default successor points at a known node, and every node reachable
// from the start can reach a terminal node or an end-flagged branch. A
// violation is not fatal at runtime (the engine forces termination on dead
// ends) but indicates a broken hand-authored script.
func (s *Script) Validate() error {
	if s.StartNodeID == "" {
		return fmt.Errorf("script has no start node")
	}
	if s.Node(s.StartNodeID) == nil {
		return fmt.Errorf("start node %q not found", s.StartNodeID)
	}

	for id, node := range s.Nodes {
		if node.NextNodeID != "" && s.Node(node.NextNodeID) == nil {
			return fmt.Errorf("node %q: successor %q not found", id, node.NextNodeID)
		}
		for _, branch := range node.Branches {
			if s.Node(branch.NextNodeID) == nil {
				return fmt.Errorf("node %q: branch %q target %q not found", id, branch.Condition, branch.NextNodeID)
			}
		}
	}

	// Reachable nodes must be able to reach an exit.
	canExit := make(map[string]bool)
	var reaches func(id string, trail map[string]bool) bool
	reaches = func(id string, trail map[string]bool) bool {
		if canExit[id] {
			return true
		}
		if trail[id] {
			return false
		}
		trail[id] = true
		defer delete(trail, id)

		node := s.Node(id)
		if node == nil {
			return false
		}
		if node.Terminal() {
			canExit[id] = true
			return true
		}
		for _, branch := range node.Branches {
			if branch.EndConversation || reaches(branch.NextNodeID, trail) {
				canExit[id] = true
				return true
			}
		}
		if node.NextNodeID != "" && reaches(node.NextNodeID, trail) {
			canExit[id] = true
			return true
		}
		return false
	}

	visited := make(map[string]bool)
	queue := []string{s.StartNodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		if !reaches(id, make(map[string]bool)) {
			return fmt.Errorf("node %q cannot reach a terminal node", id)
		}

		node := s.Node(id)
		if node.NextNodeID != "" {
			queue = append(queue, node.NextNodeID)
		}
		for _, branch := range node.Branches {
			queue = append(queue, branch.NextNodeID)
		}
	}

	return nil
}

// Load reads a script from a JSON file. An empty path returns the embedded
// software-engineer script.
func Load(path string) (*Script, error) {
	if strings.TrimSpace(path) == "" {
		return SoftwareEngineer(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script file %q: %w", path, err)
	}

	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing script file %q: %w", path, err)
	}

	// File scripts may omit the redundant per-node id.
	for id, node := range s.Nodes {
		if node.ID == "" {
			node.ID = id
		}
	}

	return &s, nil
}
