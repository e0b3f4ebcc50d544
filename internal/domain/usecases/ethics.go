package usecases

import "github.com/obrienkev/clara-go/internal/domain/entities"

// Ethical compliance labels summarising safeguard status for a turn.
const (
	LabelErrorFilterFail  = "ERROR_FILTER_FAIL"
	LabelSensitiveSupport = "SENSITIVE_SUPPORT_REQUIRED"
	LabelSafeInformation  = "SAFE_INFORMATIONAL"
	LabelSafeLowRisk      = "SAFE_LOW_RISK"
	LabelSafeGeneral      = "SAFE_GENERAL"
)

// TraceAlignment is the constant alignment marker carried by every trace.
const TraceAlignment = "care_privacy_fairness"

// ClassifyEthics produces a compliance label from the detected intent and the
// filter actions. Pure decision table; filter errors win over intent rules.
func ClassifyEthics(intent string, preActions, postActions []string) string {
	if hasAction(preActions, ActionPreFilterError) || hasAction(postActions, ActionPostFilterError) {
		return LabelErrorFilterFail
	}

	switch intent {
	case IntentEmotional, IntentReportLike:
		return LabelSensitiveSupport
	case IntentInformational:
		return LabelSafeInformation
	case IntentGreeting, IntentClosing:
		return LabelSafeLowRisk
	}

	return LabelSafeGeneral
}

// BuildReasoningTrace assembles the structured explainability record shared by
// the assistant message metadata and the audit log.
func BuildReasoningTrace(mode, intent, modeTransition string, preActions, postActions []string, ethicalLabel string) entities.ReasoningTrace {
	if modeTransition == "" {
		modeTransition = "—"
	}
	if preActions == nil {
		preActions = []string{}
	}
	if postActions == nil {
		postActions = []string{}
	}

	return entities.ReasoningTrace{
		Mode:           mode,
		Intent:         intent,
		ModeTransition: modeTransition,
		PreActions:     preActions,
		PostActions:    postActions,
		EthicalLabel:   ethicalLabel,
		Alignment:      TraceAlignment,
	}
}

func hasAction(actions []string, want string) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}
