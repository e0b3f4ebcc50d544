package usecases

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/obrienkev/clara-go/internal/domain/entities"
	"github.com/obrienkev/clara-go/internal/domain/ports"
)

// Config tunes a Conversation. Zero values fall back to defaults.
type Config struct {
	SystemPrompt   string
	HistoryWindow  int
	ShowReflection bool
}

// Conversation is Clara's session-scoped interpretive conversation manager.
// It owns the message history, the behavioral mode, and the per-turn pipeline:
// pre/post ethical filtering, intent and language detection, adaptive mode
// awareness, explainability traces and GDPR-safe audit logging.
//
// One turn is processed start-to-finish before the next can begin; a
// Conversation is not safe for concurrent turns.
type Conversation struct {
	mode           string
	history        []entities.Message
	greeted        bool
	language       string
	modeTransition string

	llm      ports.CompletionService
	detector ports.LanguageDetector
	audit    ports.AuditSink
	cfg      Config

	// Filter hooks, swappable for fault-path testing.
	preFilter  func(string) (string, []string)
	postFilter func(reply, intent string) (string, []string)
	now        func() time.Time
}

// NewConversation creates a session conversation and appends the fixed
// greeting as the first assistant message, exactly once.
func NewConversation(llm ports.CompletionService, detector ports.LanguageDetector, audit ports.AuditSink, cfg Config) *Conversation {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 8
	}

	c := &Conversation{
		mode:           entities.ModeSupport,
		language:       "unknown",
		modeTransition: "—",
		llm:            llm,
		detector:       detector,
		audit:          audit,
		cfg:            cfg,
		preFilter:      PreFilter,
		postFilter:     PostFilter,
		now:            time.Now,
	}

	if !c.greeted {
		c.appendAssistant(GreetingText(), map[string]any{"system": "greeting"})
		c.greeted = true
	}

	return c
}

// SetMode switches the conversation stance; unknown modes snap to support.
func (c *Conversation) SetMode(mode string) {
	switch mode {
	case entities.ModeSupport, entities.ModeEducation, entities.ModeResearch:
		c.mode = mode
	default:
		c.mode = entities.ModeSupport
	}
}

// Mode returns the current conversation mode.
func (c *Conversation) Mode() string { return c.mode }

// Language returns the last detected user language.
func (c *Conversation) Language() string { return c.language }

// Greeted reports whether the construction-time greeting has been emitted.
func (c *Conversation) Greeted() bool { return c.greeted }

// History returns a copy of the message history in chronological order.
func (c *Conversation) History() []entities.Message {
	out := make([]entities.Message, len(c.history))
	copy(out, c.history)
	return out
}

// LastTrace returns the reasoning trace of the most recent assistant turn.
func (c *Conversation) LastTrace() *entities.ReasoningTrace {
	return LastReasoning(c.history)
}

// ProcessUserInput runs the full moderation pipeline for one user turn:
//
//  1. Pre-filter (neutral fallback on failure)
//  2. Intent + language detection on the raw input
//  3. Adaptive mode adjustment
//  4. Prompt build from filtered text and replayed history
//  5. Streamed model generation, rendered incrementally
//  6. Post-filter (neutral fallback on failure)
//  7. Ethical classification, trace and confidence
//  8. Optional reflection, assistant append, GDPR-safe logging
//
// Nothing in the pipeline is fatal; every failure path substitutes a defined
// output and the cleaned reply is always returned.
func (c *Conversation) ProcessUserInput(ctx context.Context, userInput string, renderer ports.ChatRenderer) string {
	preText, preActions := c.runPreFilter(userInput)

	// The stored user turn carries the filtered text so history replay never
	// leaks redacted identifiers back into a prompt.
	c.appendUser(preText, map[string]any{"pre_actions": preActions})

	intent := DetectIntent(userInput)
	c.language = c.detectLanguage(userInput)

	c.adjustModeByIntent(intent)

	prevIntent, prevLabel, prevMode := c.previousAssistantState()

	prompt := buildPrompt(c.cfg.SystemPrompt, c.mode, intent, c.history[:len(c.history)-1], c.cfg.HistoryWindow, preText)

	rawReply := renderer.RenderStream(c.llm.GenerateStream(ctx, prompt))

	reply, postActions := c.runPostFilter(rawReply, intent)

	ethicalLabel := ClassifyEthics(intent, preActions, postActions)
	trace := BuildReasoningTrace(c.mode, intent, c.modeTransition, preActions, postActions, ethicalLabel)

	meaningfulPre := meaningfulActions(preActions, baselinePreAction)
	meaningfulPost := meaningfulActions(postActions, baselinePostAction)

	// An unknown previous state (first turn) counts as changed, which keeps
	// turn-one confidence away from "high".
	changedMode := prevMode == "" || prevMode != c.mode
	changedIntent := prevIntent == "" || prevIntent != intent
	changedLabel := prevLabel == "" || prevLabel != ethicalLabel

	var confidence string
	switch {
	case hasAction(preActions, ActionPreFilterError) || hasAction(postActions, ActionPostFilterError):
		confidence = entities.ConfidenceLow
	case len(meaningfulPre) == 0 && len(meaningfulPost) == 0 && !changedMode && !changedIntent && !changedLabel:
		confidence = entities.ConfidenceHigh
	default:
		confidence = entities.ConfidenceMedium
	}
	trace.Confidence = confidence

	if c.cfg.ShowReflection &&
		(len(meaningfulPre) > 0 || len(meaningfulPost) > 0 || changedMode || changedIntent || changedLabel) {
		renderer.RenderReflection(GenerateReflectionText(c.mode, intent, meaningfulPre, meaningfulPost, ethicalLabel, confidence))
	}

	c.appendAssistant(reply, map[string]any{
		"intent":        intent,
		"mode":          c.mode,
		"language":      c.language,
		"pre_actions":   preActions,
		"post_actions":  postActions,
		"ethical_label": ethicalLabel,
		"trace":         trace,
	})

	c.logInteraction(utf8.RuneCountInString(userInput), utf8.RuneCountInString(reply), trace)

	return reply
}

// runPreFilter applies PreFilter, substituting the neutral fallback and a
// synthetic action tag when the filter fails internally.
func (c *Conversation) runPreFilter(input string) (text string, actions []string) {
	defer func() {
		if r := recover(); r != nil {
			text = NeutralFilter(input)
			actions = []string{ActionPreFilterError}
		}
	}()
	return c.preFilter(input)
}

// runPostFilter mirrors runPreFilter for the reply side.
func (c *Conversation) runPostFilter(reply, intent string) (text string, actions []string) {
	defer func() {
		if r := recover(); r != nil {
			text = NeutralFilter(reply)
			actions = []string{ActionPostFilterError}
		}
	}()
	return c.postFilter(reply, intent)
}

func (c *Conversation) detectLanguage(text string) string {
	if c.detector == nil {
		return "unknown"
	}
	return c.detector.Detect(text)
}

// adjustModeByIntent runs the mode transition table and records the
// old→new display string even when the mode is unchanged.
func (c *Conversation) adjustModeByIntent(intent string) {
	prev := c.mode
	switch intent {
	case IntentInformational:
		c.mode = entities.ModeEducation
	case IntentEmotional, IntentReportLike:
		c.mode = entities.ModeSupport
	case IntentMetaQuery:
		c.mode = entities.ModeResearch
	case IntentGreeting, IntentClosing:
		c.mode = entities.ModeSupport
	}
	c.modeTransition = prev + "→" + c.mode
}

// previousAssistantState extracts intent/label/mode from the most recent
// assistant turn before the current one, for change detection.
func (c *Conversation) previousAssistantState() (intent, label, mode string) {
	for i := len(c.history) - 2; i >= 0; i-- {
		m := c.history[i]
		if m.Role != entities.RoleAssistant {
			continue
		}
		intent, _ = m.Meta["intent"].(string)
		label, _ = m.Meta["ethical_label"].(string)
		mode, _ = m.Meta["mode"].(string)
		return intent, label, mode
	}
	return "", "", ""
}

func (c *Conversation) appendUser(text string, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	c.history = append(c.history, entities.Message{Role: entities.RoleUser, Content: text, Meta: meta})
}

func (c *Conversation) appendAssistant(text string, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	c.history = append(c.history, entities.Message{Role: entities.RoleAssistant, Content: text, Meta: meta})
}

// logInteraction writes the GDPR-safe audit record. Logging must never abort
// a user-facing response, so the sink error is discarded.
func (c *Conversation) logInteraction(userLen, replyLen int, trace entities.ReasoningTrace) {
	if c.audit == nil {
		return
	}

	record := entities.AuditRecord{
		Timestamp:             c.now().UTC(),
		Mode:                  trace.Mode,
		ModeTransition:        trace.ModeTransition,
		Intent:                trace.Intent,
		Language:              c.language,
		UserLen:               userLen,
		ReplyLen:              replyLen,
		PreActions:            trace.PreActions,
		PostActions:           trace.PostActions,
		EthicalLabel:          trace.EthicalLabel,
		EthicalAlignment:      entities.EthicalAlignment{Safety: true, Privacy: true, CareEthics: true},
		ToxicityScore:         0.0,
		GenderedTermsDetected: false,
		FairnessNotes:         "no_sensitive_terms_detected",
		Trace:                 trace,
		Version:               entities.AuditSchemaVersion,
	}

	_ = c.audit.Append(record)
}
