// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code, NO external dependencies - just pure business logic.
package usecases

import (
	"regexp"
	"strings"
)

// Action tags recording which heuristic rule fired during filtering.
const (
	ActionRedactNumber       = "redact_number"
	ActionRedactEmail        = "redact_email"
	ActionPersonalReference  = "possible_personal_reference"
	ActionSelfIncrimination  = "self_incrimination_flag"
	ActionRemovedPersonalReq = "removed_personal_request"
	ActionScopeDisclaimer    = "added_scope_disclaimer"
	ActionSoftenedTone       = "softened_tone"
	ActionBoundaryAlert      = "boundary_alert"
	ActionPreFilterError     = "pre_filter_error"
	ActionPostFilterError    = "post_filter_error"
)

// Baseline tags are always-present defaults excluded from "meaningful" checks.
const (
	baselinePreAction  = "ethical_filter_as_pre"
	baselinePostAction = "ethical_filter_post"
)

// Placeholder tokens substituted for redacted identifiers.
const (
	redactedNumberToken = "[REDACTED_NUMBER]"
	redactedEmailToken  = "[REDACTED_EMAIL]"
)

var (
	numberRunPattern = regexp.MustCompile(`\b\d{7,}\b`)
	emailPattern     = regexp.MustCompile(`\S+@\S+`)
	honorificPattern = regexp.MustCompile(`(?i)\b(Mr|Mrs|Ms|Dr|Professor|Judge|Nurse|Officer|Director)\b`)

	// "what's your ...?" style requests for identifying details.
	personalRequestPattern = regexp.MustCompile(`(?i)(what('| i)?s your .+?\?)`)
)

// boundaryPhrases trigger the firm-boundary override in PostFilter and the
// boundary redirection in NeutralFilter.
var boundaryPhrases = []string{
	"sexually explicit",
	"sexualize",
	"inappropriate touch",
	"harassment",
	"slur",
	"hate speech",
}

// privacyProbeTerms mark replies that fish for identifying details.
var privacyProbeTerms = []string{"your name", "address", "id number", "passport", "phone"}

// professionalScopeTerms mark replies that drift into medical or legal advice.
var professionalScopeTerms = []string{"diagnose", "therapy", "medication", "lawyer", "prescribe"}

// crisisTerms redirect to the safety message in NeutralFilter.
var crisisTerms = []string{"suicide", "kill myself", "self harm", "end my life"}

// Fixed replacement sentences.
const (
	privacyDeflection = "I don’t need personal details — your privacy is protected."
	scopeDisclaimer   = " (I cannot offer professional medical or legal advice.)"

	boundaryOverrideReply = "I’m going to pause here. We need to keep this space respectful and free from sexualised or degrading language. " +
		"If you want to report misconduct or need resources, I can help within those boundaries."

	neutralBoundaryReply = "I'll step in firmly here. Sexualised or degrading language isn't acceptable in this space. " +
		"If you need to talk about misconduct or seek support, I'm here to help within those respectful boundaries."

	crisisReply = "I'm really sorry that you're feeling distressed. " +
		"I'm not equipped to handle emergencies, but please consider contacting " +
		"a local support service or trusted person for immediate help."

	emptyInputReply = "I'm here and listening."
)

// PreFilter sanitizes potentially sensitive identifiers before any model call.
// All checks run independently and are cumulative; it never fails and returns
// best-effort output together with the actions taken.
func PreFilter(input string) (string, []string) {
	var actions []string
	text := input

	if numberRunPattern.MatchString(text) {
		text = numberRunPattern.ReplaceAllString(text, redactedNumberToken)
		actions = append(actions, ActionRedactNumber)
	}

	if emailPattern.MatchString(text) {
		text = emailPattern.ReplaceAllString(text, redactedEmailToken)
		actions = append(actions, ActionRedactEmail)
	}

	if honorificPattern.MatchString(text) {
		actions = append(actions, ActionPersonalReference)
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "i did") && strings.Contains(lower, "wrong") {
		actions = append(actions, ActionSelfIncrimination)
	}

	return text, actions
}

// PostFilter enforces privacy boundaries and softens tone after the model
// responds. The boundary-phrase check runs last and overrides the entire reply.
func PostFilter(reply, intent string) (string, []string) {
	var actions []string
	cleaned := reply

	if containsAny(strings.ToLower(cleaned), privacyProbeTerms) {
		cleaned = personalRequestPattern.ReplaceAllString(cleaned, privacyDeflection)
		actions = append(actions, ActionRemovedPersonalReq)
	}

	if containsAny(strings.ToLower(cleaned), professionalScopeTerms) {
		cleaned += scopeDisclaimer
		actions = append(actions, ActionScopeDisclaimer)
	}

	if intent == IntentEmotional {
		cleaned = strings.ReplaceAll(cleaned, "you must", "you can consider")
		cleaned = strings.ReplaceAll(cleaned, "you should", "you may want to")
		actions = append(actions, ActionSoftenedTone)
	}

	// Safety net for unfiltered boundary language. Takes precedence over
	// every transformation above.
	if containsAny(strings.ToLower(cleaned), boundaryPhrases) {
		cleaned = boundaryOverrideReply
		actions = append(actions, ActionBoundaryAlert)
	}

	return strings.TrimSpace(cleaned), actions
}

// NeutralFilter is the tone fallback used when a dedicated filter fails.
// It never fails and never returns empty output for non-empty input.
func NeutralFilter(text string) string {
	if text == "" {
		return emptyInputReply
	}

	lower := strings.ToLower(text)

	if containsAny(lower, crisisTerms) {
		return crisisReply
	}

	if containsAny(lower, boundaryPhrases) {
		return neutralBoundaryReply
	}

	text = strings.ReplaceAll(text, "must", "can")
	text = strings.ReplaceAll(text, "should", "may want to")
	return strings.TrimSpace(text)
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// meaningfulActions drops baseline tags that fire on every turn.
func meaningfulActions(actions []string, baseline string) []string {
	var out []string
	for _, a := range actions {
		if a != baseline {
			out = append(out, a)
		}
	}
	return out
}
