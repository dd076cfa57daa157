package script

// Well-known node ids the engine special-cases. They belong to the
// software-engineer script but double as the contract between the script
// author and the transition logic.
const (
	NodeGreeting         = "greeting"
	NodeName             = "name"
	NodeRolePreference   = "role-preference"
	NodeSuggestRoles     = "suggest-roles"
	NodePythonRating     = "python-rating"
	NodeReactRating      = "react-rating"
	NodeReactProject     = "react-project"
	NodeDebugging        = "debugging-approach"
	NodeSalary           = "salary"
	NodeNegotiateSalary  = "negotiate-salary"
	NodeEnding           = "ending"
	NodeEndNotInterested = "end-not-interested"
	NodeEndSalary        = "end-salary"
)

// SoftwareEngineer returns the compiled-in interview script for the software
// engineer position. A fresh copy is built on every call so callers can
// never mutate the shared default.
func SoftwareEngineer() *Script {
	nodes := []*Node{
		{
			ID:           NodeGreeting,
			Message:      "Hello! Are you interested in discussing our Software Engineer position at TechInnovate Solutions?",
			ResponseType: ResponseYesNo,
			Branches: []Branch{
				{Condition: "yes", NextNodeID: NodeName},
				{Condition: "no", NextNodeID: NodeEndNotInterested, EndConversation: true},
			},
			Examples: []string{"Yes", "No"},
		},
		{
			ID:           NodeEndNotInterested,
			Message:      "No problem. Thank you for your time and best of luck!",
			ResponseType: ResponseOpen,
		},
		{
			ID:           NodeName,
			Message:      "Great! Let's get started. What is your name?",
			ResponseType: ResponseOpen,
			NextNodeID:   NodeRolePreference,
			Examples:     []string{"John", "Sarah Smith"},
		},
		{
			ID:           NodeRolePreference,
			Message:      "Nice to meet you, {name}! Which specific role within software engineering are you applying for? (e.g., Backend Developer, Frontend Developer, Full Stack Engineer)",
			ResponseType: ResponseOpen,
			Branches: []Branch{
				{Condition: "specific_role", NextNodeID: NodePythonRating},
				{Condition: "unsure", NextNodeID: NodeSuggestRoles},
			},
			Examples: []string{"Backend Developer", "Frontend Developer", "Full Stack Engineer"},
		},
		{
			ID:           NodeSuggestRoles,
			Message:      "We have several engineering roles available: Backend Developer (Python/Django), Frontend Developer (React), and Full Stack Engineer. Which one interests you the most?",
			ResponseType: ResponseOpen,
			NextNodeID:   NodePythonRating,
			Examples:     []string{"Backend Developer", "Frontend Developer", "Full Stack Engineer"},
		},
		{
			ID:           NodePythonRating,
			Message:      "On a scale from 1 to 10, how would you rate your proficiency in Python?",
			ResponseType: ResponseRating,
			NextNodeID:   "python-project",
			Examples:     []string{"8", "I'd say about 7 out of 10"},
			Category:     "python",
		},
		{
			ID:           "python-project",
			Message:      "Can you briefly describe a project where you applied Python to solve a technical challenge?",
			ResponseType: ResponseOpen,
			NextNodeID:   NodeReactRating,
			Examples:     []string{"I built a data analysis tool that...", "In my last role, I created a Python script to..."},
			Category:     "python",
		},
		{
			ID:           NodeReactRating,
			Message:      "Now, on a scale from 1 to 10, how confident are you with React?",
			ResponseType: ResponseRating,
			NextNodeID:   NodeReactProject,
			Examples:     []string{"9", "I'd rate myself a 6 out of 10"},
			Category:     "react",
		},
		{
			ID:           NodeReactProject,
			Message:      "Tell me about a challenging situation where you used React to build or improve an application.",
			ResponseType: ResponseOpen,
			NextNodeID:   NodeDebugging,
			Examples:     []string{"I built a complex form with multiple states...", "I optimized rendering performance by..."},
			Category:     "react",
		},
		{
			ID:           NodeDebugging,
			Message:      "What is your approach to debugging issues in production environments?",
			ResponseType: ResponseOpen,
			NextNodeID:   "bug-example",
			Examples:     []string{"I first check the logs to...", "My approach involves isolating the issue by..."},
			Category:     "debugging",
		},
		{
			ID:           "bug-example",
			Message:      "Can you give an example of a difficult bug you encountered and how you resolved it?",
			ResponseType: ResponseOpen,
			NextNodeID:   "code-quality",
			Examples:     []string{"We had a memory leak that...", "I once debugged a race condition by..."},
			Category:     "debugging",
		},
		{
			ID:           "code-quality",
			Message:      "How do you ensure your code is robust and maintainable? Do you use unit testing, code reviews, or CI/CD pipelines?",
			ResponseType: ResponseOpen,
			NextNodeID:   NodeSalary,
			Examples:     []string{"I write unit tests for all critical functions...", "I rely on a combination of code reviews and..."},
			Category:     "quality",
		},
		{
			ID:           NodeSalary,
			Message:      "What is your expected salary for this position?",
			ResponseType: ResponseSalary,
			Branches: []Branch{
				{Condition: "within_range", NextNodeID: "agile-experience"},
				{Condition: "above_range", NextNodeID: NodeNegotiateSalary},
			},
			Examples:        []string{"$90,000", "$85k per year"},
			ValidationRules: &ValidationRules{Min: 60000, Max: 100000, Currency: "USD"},
			Category:        "salary",
		},
		{
			ID:           NodeNegotiateSalary,
			Message:      "Our budget for this role is up to $100,000. Would you be open to that range?",
			ResponseType: ResponseYesNo,
			Branches: []Branch{
				{Condition: "yes", NextNodeID: "agile-experience"},
				{Condition: "no", NextNodeID: NodeEndSalary, EndConversation: true},
			},
			Examples: []string{"Yes, that works for me", "No, I need more"},
			Category: "salary",
		},
		{
			ID:           NodeEndSalary,
			Message:      "Unfortunately, that's beyond our budget. Thank you for your time!",
			ResponseType: ResponseOpen,
		},
		{
			ID:           "agile-experience",
			Message:      "Are you experienced with agile methodologies and version control systems like Git?",
			ResponseType: ResponseYesNo,
			NextNodeID:   "team-contribution",
			Examples:     []string{"Yes", "No"},
			Category:     "process",
		},
		{
			ID:           "team-contribution",
			Message:      "Can you share an example of how you've contributed to a team project using these practices?",
			ResponseType: ResponseOpen,
			NextNodeID:   "staying-updated",
			Examples:     []string{"In my last project, I implemented CI/CD pipelines...", "I led daily standups and..."},
			Category:     "process",
		},
		{
			ID:           "staying-updated",
			Message:      "How do you stay updated with the latest trends in software development?",
			ResponseType: ResponseOpen,
			NextNodeID:   "candidate-questions",
			Examples:     []string{"I follow tech blogs like...", "I attend conferences and participate in..."},
			Category:     "learning",
		},
		{
			ID:           "candidate-questions",
			Message:      "Thank you for sharing your experiences, {name}. Do you have any questions about the role or our company?",
			ResponseType: ResponseOpen,
			NextNodeID:   NodeEnding,
			Examples:     []string{"What's the team structure like?", "Can you tell me more about the company culture?"},
			Category:     "conclusion",
		},
		{
			ID:           NodeEnding,
			Message:      "Great! We appreciate your time and will review your responses. We'll be in touch soon!",
			ResponseType: ResponseOpen,
			Category:     "conclusion",
		},
	}

	byID := make(map[string]*Node, len(nodes))
	for _, node := range nodes {
		byID[node.ID] = node
	}

	return &Script{StartNodeID: NodeGreeting, Nodes: byID}
}
