// Package patterns holds the cheap text heuristics the engine consults
// before (and instead of, when the model is unavailable) the LLM-backed
// analyzer. Every matcher is a pure function over the candidate's raw text:
// case-insensitive, substring-based, deterministic. The phrase lists are
// package data rather than inline literals so they stay independently
// testable.
package patterns

import (
	"regexp"
	"strconv"
	"strings"
)

// DisinterestPhrases signal the candidate wants out of the interview,
// regardless of the current question. Bare "no" is deliberately absent: it
// is a disinterest signal only in the role-selection context (see
// RoleDisinterestPhrases).
var DisinterestPhrases = []string{
	"not interested",
	"not interested anymore",
	"no longer interested",
	"don't want to continue",
	"dont want to continue",
	"want to stop",
	"please stop",
	"end this",
	"end interview",
	"stop interview",
	"quit",
	"exit",
	"goodbye",
	"bye",
	"stop this",
	"leave",
	"let me go",
	"i'm done",
	"im done",
	"i am done",
	"enough",
	"pls stop",
	"please end",
	"terminate",
	"cancel",
	"abort",
}

// RoleDisinterestPhrases mark rejection of every offered role. They only
// apply on the role-selection nodes, where a bare "no" or "none" really does
// mean "no role".
var RoleDisinterestPhrases = []string{
	"not interested",
	"not looking",
	"none",
	"neither",
	"nothing",
	"no",
	"nope",
	"not any",
	"not for me",
	"don't want",
	"dont want",
}

// NoExperiencePhrases cover the many ways candidates say they cannot answer
// a question.
var NoExperiencePhrases = []string{
	"no experience",
	"haven't done",
	"hav't done",
	"haven't worked",
	"don't know",
	"dont know",
	"no idea",
	"not sure",
	"never done",
	"never worked",
	"not familiar",
	"sorry",
	"i can't",
	"i cant",
	"i don't have",
	"i dont have",
	"no knowledge",
	"zero knowledge",
	"not good at",
	"never used",
	"never learned",
}

// NoReactPhrases are narrower than NoExperiencePhrases and take priority on
// React nodes: they name React explicitly and trigger a category skip.
var NoReactPhrases = []string{
	"no experience with react",
	"never used react",
	"don't know react",
	"dont know react",
	"no knowledge of react",
	"not familiar with react",
	"haven't worked with react",
	"havent worked with react",
	"no react experience",
	"zero react",
	"0 react",
}

// UnsurePhrases signal the candidate has not picked a role yet. Only
// meaningful on the role-preference node.
var UnsurePhrases = []string{
	"not sure",
	"don't know",
	"dont know",
	"unsure",
	"uncertain",
	"undecided",
	"haven't decided",
	"havent decided",
	"what options",
	"what positions",
	"what roles",
	"available roles",
}

// specificRoles disambiguate an otherwise generic "developer" answer.
var specificRoles = []string{"backend", "frontend", "full stack", "fullstack"}

// genericRoleWords are the role nouns that, without a specific role keyword,
// make the answer too vague to branch on.
var genericRoleWords = []string{"developer", "engineer"}

// Vocabularies for the yes/no polarity count.
var (
	positiveWords = []string{
		"yes", "yeah", "yep", "sure", "ok", "okay", "definitely", "absolutely",
		"correct", "right", "true", "indeed", "agree", "positive", "affirmative",
	}
	negativeWords = []string{
		"no", "nope", "nah", "not", "don't", "dont", "doesn't", "doesnt",
		"negative", "disagree", "false", "wrong", "incorrect",
	}
)

var (
	salaryRe = regexp.MustCompile(`\$?(\d+(?:,\d{3})*(?:\.\d+)?)([kK])?`)
	ratingRe = regexp.MustCompile(`(\d+)`)
	vagueRe  = regexp.MustCompile(`^(ok|okay|sure|yes|no|maybe)$`)
)

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// IsDisinterested reports whether the text contains a global disengagement
// phrase.
func IsDisinterested(text string) bool {
	return containsAny(text, DisinterestPhrases)
}

// IsRoleDisinterested reports rejection of all offered roles. Uncertainty
// ("not sure", "don't know") is explicitly not disinterest: an unsure
// candidate gets the role suggestions instead.
func IsRoleDisinterested(text string) bool {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "not sure") ||
		strings.Contains(lower, "don't know") ||
		strings.Contains(lower, "dont know") {
		return false
	}
	return containsAny(text, RoleDisinterestPhrases)
}

// IsNoExperience reports whether the text reads as "I cannot answer this".
func IsNoExperience(text string) bool {
	return containsAny(text, NoExperiencePhrases)
}

// HasNoReactExperience reports a React-specific lack of experience.
func HasNoReactExperience(text string) bool {
	return containsAny(text, NoReactPhrases)
}

// IsUnsureAboutRole reports whether the candidate has not decided on a role.
func IsUnsureAboutRole(text string) bool {
	return containsAny(text, UnsurePhrases)
}

// IsVagueRole reports a generic role answer ("developer", "engineer") that
// never names a specific track.
func IsVagueRole(text string) bool {
	lower := strings.ToLower(text)

	for _, role := range specificRoles {
		if strings.Contains(lower, role) {
			return false
		}
	}

	for _, word := range genericRoleWords {
		if strings.Contains(lower, word) {
			return true
		}
	}

	trimmed := strings.TrimSpace(lower)
	return trimmed == "dev" || trimmed == "development"
}

// YesNoPolarity classifies the text as "yes" or "no" by counting occurrences
// from the two fixed vocabularies over whitespace-split tokens. The
// tie-break is intentional and load-bearing: zero hits on both sides counts
// as "yes" unless the text contains "no" or "not" anywhere.
func YesNoPolarity(text string) bool {
	lower := strings.ToLower(text)

	positive, negative := 0, 0
	for _, word := range strings.Fields(lower) {
		for _, p := range positiveWords {
			if word == p {
				positive++
			}
		}
		for _, n := range negativeWords {
			if word == n {
				negative++
			}
		}
	}

	if positive > negative {
		return true
	}
	return positive == 0 && negative == 0 &&
		!strings.Contains(lower, "no") && !strings.Contains(lower, "not")
}

// ExtractSalary pulls a currency-like amount out of the text. A trailing
// "k"/"K" multiplies by a thousand; thousands separators are stripped. The
// second return is false when no amount is present.
func ExtractSalary(text string) (float64, bool) {
	match := salaryRe.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}

	if match[2] != "" {
		amount *= 1000
	}

	return amount, true
}

// ExtractRating returns the first integer found in the text. Values are not
// clamped to the 1-10 scale; the engine re-prompts when nothing numeric is
// present.
func ExtractRating(text string) (int, bool) {
	match := ratingRe.FindStringSubmatch(text)
	if match == nil {
		return 0, false
	}

	rating, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}

	return rating, true
}

// IsShortOrVague reports answers too thin to accept on an open question:
// fewer than two tokens, or one of the stock one-word replies.
func IsShortOrVague(text string) bool {
	trimmed := strings.TrimSpace(text)
	if len(strings.Fields(trimmed)) < 2 {
		return true
	}
	return vagueRe.MatchString(strings.ToLower(trimmed))
}

// nameRe pulls a bare name out of answers like "my name is Alice".
var nameRe = regexp.MustCompile(`(?i)(?:(?:my|the|this|that|our)\s+name\s+is\s+)?([a-zA-Z]+)`)

// ExtractName makes a best-effort name extraction for the fallback path. The
// trimmed input is returned verbatim when nothing matches.
func ExtractName(text string) string {
	match := nameRe.FindStringSubmatch(text)
	if match != nil {
		return match[1]
	}
	return strings.TrimSpace(text)
}
