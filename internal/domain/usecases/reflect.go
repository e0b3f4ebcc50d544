package usecases

import (
	"strings"

	"github.com/obrienkev/clara-go/internal/domain/entities"
)

// Friendly phrasing for pre-filter action tags shown in the reflection line.
var preActionMessages = map[string]string{
	ActionRedactNumber:      "redacted numbers for privacy",
	ActionRedactEmail:       "removed email metadata",
	ActionPersonalReference: "flagged a possible personal reference",
	ActionSelfIncrimination: "flagged possible self-incrimination",
}

// Friendly phrasing for post-filter action tags.
var postActionMessages = map[string]string{
	ActionRemovedPersonalReq: "removed a personal detail request",
	ActionScopeDisclaimer:    "added a scope disclaimer",
	ActionSoftenedTone:       "softened tone for emotional content",
	ActionPostFilterError:    "post-filter fallback engaged",
}

// GenerateReflectionText produces the short reflection summary shown inline
// in the chat UI before the main reply.
func GenerateReflectionText(mode, intent string, preActions, postActions []string, ethicalLabel, confidence string) string {
	segments := []string{
		"Mode ready: " + capitalize(mode) + " (" + titleWords(intent) + ")",
	}

	if len(preActions) > 0 {
		segments = append(segments, "Pre-checks: "+friendlyList(preActions, preActionMessages))
	}

	if len(postActions) > 0 {
		segments = append(segments, "Post-checks: "+friendlyList(postActions, postActionMessages))
	}

	segments = append(segments,
		"Ethics tag: "+titleWords(ethicalLabel),
		"Confidence: "+capitalize(confidence),
	)

	return strings.Join(segments, " · ")
}

// LastReasoning returns the trace from the most recent assistant message,
// or nil when no assistant turn carries one yet.
func LastReasoning(history []entities.Message) *entities.ReasoningTrace {
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.Role != entities.RoleAssistant {
			continue
		}
		if trace, ok := m.Meta["trace"].(entities.ReasoningTrace); ok {
			return &trace
		}
	}
	return nil
}

func friendlyList(actions []string, mapping map[string]string) string {
	friendly := make([]string, 0, len(actions))
	for _, action := range actions {
		if msg, ok := mapping[action]; ok {
			friendly = append(friendly, msg)
		} else {
			friendly = append(friendly, strings.ReplaceAll(action, "_", " "))
		}
	}
	return strings.Join(friendly, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// titleWords renders a snake_case or UPPER_SNAKE tag as spaced title case.
func titleWords(s string) string {
	words := strings.Split(strings.ToLower(s), "_")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}
