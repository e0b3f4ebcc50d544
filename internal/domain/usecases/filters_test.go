package usecases

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreFilter_RedactsLongDigitRuns(t *testing.T) {
	text, actions := PreFilter("My number is 0871234567, call me")

	assert.NotContains(t, text, "0871234567")
	assert.Contains(t, text, redactedNumberToken)
	assert.Contains(t, actions, ActionRedactNumber)
}

func TestPreFilter_KeepsShortDigitRuns(t *testing.T) {
	text, actions := PreFilter("I waited 45 minutes")

	assert.Equal(t, "I waited 45 minutes", text)
	assert.Empty(t, actions)
}

func TestPreFilter_RedactsEmails(t *testing.T) {
	text, actions := PreFilter("reach me at sinead@example.ie please")

	assert.NotContains(t, text, "@")
	assert.Contains(t, text, redactedEmailToken)
	assert.Contains(t, actions, ActionRedactEmail)
}

func TestPreFilter_FlagsHonorifics(t *testing.T) {
	for _, input := range []string{"Dr Murphy ignored me", "the nurse said professor Kelly knew"} {
		_, actions := PreFilter(input)
		assert.Contains(t, actions, ActionPersonalReference, "input: %s", input)
	}
}

func TestPreFilter_FlagsSelfIncrimination(t *testing.T) {
	_, actions := PreFilter("I did something wrong at work")
	assert.Contains(t, actions, ActionSelfIncrimination)

	_, actions = PreFilter("something went wrong")
	assert.NotContains(t, actions, ActionSelfIncrimination)
}

func TestPreFilter_ActionsAreCumulative(t *testing.T) {
	text, actions := PreFilter("Mr Byrne, I did it wrong: 12345678, mail bob@x.ie")

	assert.Contains(t, actions, ActionRedactNumber)
	assert.Contains(t, actions, ActionRedactEmail)
	assert.Contains(t, actions, ActionPersonalReference)
	assert.Contains(t, actions, ActionSelfIncrimination)
	assert.NotContains(t, text, "12345678")
	assert.NotContains(t, text, "bob@x.ie")
}

func TestPostFilter_RemovesPersonalRequests(t *testing.T) {
	cleaned, actions := PostFilter("Of course. What's your name? I can log it.", IntentOther)

	assert.Contains(t, actions, ActionRemovedPersonalReq)
	assert.NotContains(t, cleaned, "What's your name?")
	assert.Contains(t, cleaned, "privacy is protected")
}

func TestPostFilter_AppendsScopeDisclaimer(t *testing.T) {
	cleaned, actions := PostFilter("A doctor could diagnose that condition.", IntentInformational)

	assert.Contains(t, actions, ActionScopeDisclaimer)
	assert.True(t, strings.HasSuffix(cleaned, strings.TrimSpace(scopeDisclaimer)))
}

func TestPostFilter_SoftensToneForEmotionalIntent(t *testing.T) {
	cleaned, actions := PostFilter("you must report this and you should rest", IntentEmotional)

	assert.Contains(t, actions, ActionSoftenedTone)
	assert.Contains(t, cleaned, "you can consider report")
	assert.Contains(t, cleaned, "you may want to rest")
}

func TestPostFilter_NoSofteningForOtherIntents(t *testing.T) {
	cleaned, actions := PostFilter("you must contact the ombudsman office", IntentReportLike)

	assert.NotContains(t, actions, ActionSoftenedTone)
	assert.Contains(t, cleaned, "you must")
}

func TestPostFilter_BoundaryOverrideWins(t *testing.T) {
	// Boundary phrase plus a scope term plus a personal request: the
	// override replaces everything that came before it.
	reply := "What's your address? That slur needs therapy."

	cleaned, actions := PostFilter(reply, IntentEmotional)

	assert.Equal(t, boundaryOverrideReply, cleaned)
	assert.Contains(t, actions, ActionBoundaryAlert)
}

func TestPostFilter_BoundaryPhrasesAlwaysOverride(t *testing.T) {
	for _, phrase := range boundaryPhrases {
		cleaned, actions := PostFilter("some text with "+phrase+" inside", IntentOther)
		assert.Equal(t, boundaryOverrideReply, cleaned, "phrase: %s", phrase)
		assert.Contains(t, actions, ActionBoundaryAlert)
	}
}

func TestNeutralFilter_EmptyInput(t *testing.T) {
	assert.Equal(t, emptyInputReply, NeutralFilter(""))
}

func TestNeutralFilter_CrisisRedirection(t *testing.T) {
	out := NeutralFilter("sometimes I think about suicide")
	assert.Equal(t, crisisReply, out)
}

func TestNeutralFilter_BoundaryRedirection(t *testing.T) {
	out := NeutralFilter("that was hate speech")
	assert.Equal(t, neutralBoundaryReply, out)
}

func TestNeutralFilter_SoftensDirectives(t *testing.T) {
	out := NeutralFilter("  you must act, you should wait  ")

	assert.Equal(t, "you can act, you may want to wait", out)
}

func TestNeutralFilter_NeverEmptyForNonEmptyInput(t *testing.T) {
	assert.NotEmpty(t, NeutralFilter("anything at all"))
}
