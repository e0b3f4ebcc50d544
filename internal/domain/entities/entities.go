// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import "time"

// Role identifies the author of a conversation turn.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation modes. The mode governs how the prompt frames Clara's stance.
const (
	ModeSupport   = "support"
	ModeEducation = "education"
	ModeResearch  = "research"
)

// Confidence levels for a turn's explainability trace.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Message represents one turn in a conversation.
// Immutable once appended; owned exclusively by the conversation.
type Message struct {
	Role    string
	Content string
	Meta    map[string]any
}

// ReasoningTrace is the structured explainability record for one assistant turn.
// It is attached to the assistant Message's metadata and flattened into the
// audit log. Derived only from non-identifying signals, never raw text.
type ReasoningTrace struct {
	Mode           string   `json:"mode"`
	Intent         string   `json:"intent"`
	ModeTransition string   `json:"mode_transition"`
	PreActions     []string `json:"pre_actions"`
	PostActions    []string `json:"post_actions"`
	EthicalLabel   string   `json:"ethical_label"`
	Alignment      string   `json:"alignment"`
	Confidence     string   `json:"confidence"`
}

// EthicalAlignment is the fixed fairness sub-object carried by every audit record.
type EthicalAlignment struct {
	Safety     bool `json:"safety"`
	Privacy    bool `json:"privacy"`
	CareEthics bool `json:"care_ethics"`
}

// AuditRecord is one flat, append-only audit log entry for a single turn.
// Privacy invariant: it carries lengths, tags and labels only - never the raw
// user or reply text - so the log is GDPR-safe by construction.
type AuditRecord struct {
	Timestamp             time.Time        `json:"ts"`
	Mode                  string           `json:"mode"`
	ModeTransition        string           `json:"mode_transition"`
	Intent                string           `json:"intent"`
	Language              string           `json:"language"`
	UserLen               int              `json:"user_len"`
	ReplyLen              int              `json:"reply_len"`
	PreActions            []string         `json:"pre_actions"`
	PostActions           []string         `json:"post_actions"`
	EthicalLabel          string           `json:"ethical_label"`
	EthicalAlignment      EthicalAlignment `json:"ethical_alignment"`
	ToxicityScore         float64          `json:"toxicity_score"`
	GenderedTermsDetected bool             `json:"gendered_terms_detected"`
	FairnessNotes         string           `json:"fairness_notes"`
	Trace                 ReasoningTrace   `json:"trace"`
	Version               string           `json:"version"`
}

// AuditSchemaVersion tags every record so consumers can parse forward-compatibly.
const AuditSchemaVersion = "v2"
