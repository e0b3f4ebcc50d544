package usecases

import (
	"regexp"
	"strings"
)

// Intent categories for a user utterance, coarsest-grained first-match wins.
const (
	IntentGreeting      = "greeting"
	IntentClosing       = "closing"
	IntentEmotional     = "emotional"
	IntentReportLike    = "report_like"
	IntentInformational = "informational"
	IntentMetaQuery     = "meta_query"
	IntentOther         = "other"
	IntentUnknown       = "unknown"
)

// intentRule pairs a pattern with the category it resolves to.
type intentRule struct {
	pattern *regexp.Regexp
	intent  string
}

// intentRules is an ordered cascade: text matching multiple categories
// resolves to the earliest entry. Order matters.
var intentRules = []intentRule{
	// \b is ASCII-only in Go regexp, so the non-ASCII "olá" carries its own
	// letter-class boundaries.
	{regexp.MustCompile(`\b(hi|hello|hey|good\s?(morning|evening)|hola)\b|(^|[^\p{L}\p{N}_])olá($|[^\p{L}\p{N}_])`), IntentGreeting},
	{regexp.MustCompile(`\b(bye|goodbye|thanks|thank you|tchau|gracias)\b`), IntentClosing},
	{regexp.MustCompile(`\b(i feel|scared|afraid|ashamed|unsafe|trauma|cry|panic|upset)\b`), IntentEmotional},
	{regexp.MustCompile(`\b(report|complain|where do i|who do i contact|ombudsman|authority|help line)\b`), IntentReportLike},
	{regexp.MustCompile(`\b(what is|how does|is sextortion|define|law|rights|procedure|policy)\b`), IntentInformational},
	{regexp.MustCompile(`\b(are you real|who are you|what is clara)\b`), IntentMetaQuery},
}

// DetectIntent classifies an utterance with a deterministic first-match
// regex cascade. Lightweight heuristic, easy to swap with a trained model.
func DetectIntent(text string) string {
	if text == "" {
		return IntentUnknown
	}

	t := strings.TrimSpace(strings.ToLower(text))

	for _, rule := range intentRules {
		if rule.pattern.MatchString(t) {
			return rule.intent
		}
	}

	return IntentOther
}
