package engine

// Scripted lines the engine speaks outside of node messages. Failures never
// surface as raw errors to the candidate; every recovery path picks one of
// these.
const (
	msgFarewell = "I understand you're no longer interested in continuing this interview. " +
		"Thank you for your time and best of luck with your job search!"

	msgRolesFarewell = "I understand you're not interested in these roles. " +
		"Thank you for your time and best of luck with your job search!"

	msgClarifyRole = "Could you please specify which type of developer role you're interested in? " +
		"We have Backend Developer (Python/Django), Frontend Developer (React), or Full Stack Engineer positions available."

	msgScriptError = "I apologize, but I encountered an error with the interview script. Let's start over."

	msgNoJobInfo = "I don't have specific information about that, but I'd be happy to discuss the role further."

	msgRatingFollowUp = "Could you please provide a numerical rating from 1 to 10?"

	prefixNoReact        = "I understand you don't have experience with React. Let's move on to another topic. "
	prefixMoveOnExpert   = "I understand this isn't your area of expertise. Let's move on to the next question. "
	prefixMoveOn         = "I understand. Let's move on to the next question. "
	prefixDifferentTopic = "I understand. Let's move on to a different topic. "

	fmtExamplePrompt   = "I understand you might not be sure about this. Let me help with an example: %q. Could you try to share your thoughts on this topic?"
	fmtSalaryFollowUp  = "I need to understand your salary expectations. Could you provide a specific number? For example: %q"
	defaultSalaryHint  = "$90,000"
	fmtOpenFollowUp    = "Could you please provide more details? "
	fmtNeedMorePrefix  = "I need a bit more information about %s. "
	fmtExampleTrailing = "For example: %q"
)
