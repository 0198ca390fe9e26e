package agent

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`[\+]?[(]?[0-9]{1,3}[)]?[-\s\.]?[0-9]{1,4}[-\s\.]?[0-9]{1,4}[-\s\.]?[0-9]{1,9}`)
	namePattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z'\-]*$`)
)

// ExtractEmail returns the first email-shaped substring, or "".
func ExtractEmail(text string) string {
	return emailPattern.FindString(text)
}

// ExtractPhone returns the first phone-shaped substring carrying at least
// seven digits, or "".
func ExtractPhone(text string) string {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		if len(nonDigitPattern.ReplaceAllString(candidate, "")) >= minPhoneDigits {
			return candidate
		}
	}
	return ""
}

// ExtractName treats a short free-text message as a name candidate.
// The whole message is rejected when it looks like an email, runs past
// five tokens, or shares a significant word with a displayed property
// name (so "Marina Heights" is never captured as a person).
func ExtractName(message string, displayedProperties []PropertyResult) (first, last string) {
	if strings.Contains(message, "@") {
		return "", ""
	}

	tokens := strings.Fields(strings.TrimSpace(message))
	if len(tokens) == 0 || len(tokens) > 5 {
		return "", ""
	}

	lowerMessage := strings.ToLower(message)
	for _, prop := range displayedProperties {
		for _, word := range strings.Fields(strings.ToLower(prop.ProjectName)) {
			if len(word) > 2 && strings.Contains(lowerMessage, word) {
				return "", ""
			}
		}
	}

	if !namePattern.MatchString(tokens[0]) {
		return "", ""
	}
	first = titleCase(tokens[0])

	rest := tokens[1:]
	for _, tok := range rest {
		if !namePattern.MatchString(tok) {
			return first, ""
		}
	}
	if len(rest) > 0 {
		parts := make([]string, len(rest))
		for i, tok := range rest {
			parts[i] = titleCase(tok)
		}
		last = strings.Join(parts, " ")
	}
	return first, last
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// noBudgetPhrases clear stored budget bounds when spotted in a user
// message, independent of what the extraction model returns.
var noBudgetPhrases = []string{
	"don't care about price", "dont care about price",
	"any price", "no budget", "whatever available",
	"don't care about budget", "dont care about budget",
	"doesnt matter", "doesn't matter", "no price limit",
	"price doesn't matter", "price doesnt matter",
	"any available", "whatever is available", "show me whatever",
	"just show me", "show me all", "show me everything",
}

// MentionsNoBudget reports whether the message contains an explicit
// "budget doesn't matter" phrase.
func MentionsNoBudget(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range noBudgetPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// goodbyePhrases is the broad safety-net list used when classification
// lands on "other".
var goodbyePhrases = []string{
	"bye", "goodbye", "see you", "take care", "gotta go",
	"thanks bye", "thank you bye", "thanks", "thank you",
}

// afterQuestionGoodbyePhrases is the narrower list scanned after a Q&A
// turn. "thanks" alone does not end a Q&A exchange.
var afterQuestionGoodbyePhrases = []string{
	"bye", "goodbye", "see you", "take care", "thanks bye",
}

var bookingKeywords = []string{"book", "schedule", "viewing", "visit"}

var moreResultsKeywords = []string{"show me", "other options", "more", "different"}

// taskWords in a first message suppress the generic greeting.
var taskWords = []string{"looking for", "want", "need", "show me", "find"}

// truncateRunes caps s at n runes so a multi-byte sequence is never
// split mid-rune.
func truncateRunes(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func containsAny(message string, phrases []string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

// MentionsGoodbye applies the broad goodbye safety net.
func MentionsGoodbye(message string) bool {
	return containsAny(message, goodbyePhrases)
}

// MatchPropertyByName scans text for a significant word (>2 chars) from
// each candidate's name, returning the first match.
func MatchPropertyByName(text string, candidates []PropertyResult) (PropertyResult, bool) {
	lowered := strings.ToLower(text)
	for _, prop := range candidates {
		for _, word := range strings.Fields(strings.ToLower(prop.ProjectName)) {
			if len(word) > 2 && strings.Contains(lowered, word) {
				return prop, true
			}
		}
	}
	return PropertyResult{}, false
}
