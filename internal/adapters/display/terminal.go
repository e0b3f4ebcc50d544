// Package display provides chat rendering adapters.
// Clean Architecture: Adapters implementing ports.ChatRenderer.
package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/obrienkev/clara-go/internal/domain/ports"
)

// DefaultTypingDelay paces fragment rendering for readability. Cosmetic only.
const DefaultTypingDelay = 25 * time.Millisecond

// Terminal renders a conversation to an io.Writer, with a small per-fragment
// delay so streamed replies read like live typing.
type Terminal struct {
	out        io.Writer
	delay      time.Duration
	lastStream string
}

// NewTerminal creates a terminal renderer. A negative delay disables pacing.
func NewTerminal(out io.Writer, delay time.Duration) *Terminal {
	if delay == 0 {
		delay = DefaultTypingDelay
	}
	if delay < 0 {
		delay = 0
	}
	return &Terminal{out: out, delay: delay}
}

// RenderMessage renders a complete role-tagged message.
func (t *Terminal) RenderMessage(role, text string) {
	fmt.Fprintf(t.out, "%s: %s\n", displayName(role), text)
}

// RenderStream prints fragments as they arrive and returns the full reply.
func (t *Terminal) RenderStream(tokens <-chan ports.StreamToken) string {
	fmt.Fprintf(t.out, "%s: ", displayName("assistant"))

	var sb strings.Builder
	for token := range tokens {
		sb.WriteString(token.Content)
		fmt.Fprint(t.out, token.Content)
		if t.delay > 0 {
			time.Sleep(t.delay)
		}
	}
	fmt.Fprintln(t.out)

	t.lastStream = sb.String()
	return t.lastStream
}

// RenderCleaned re-renders the reply when post-filtering changed the streamed
// text, so the terminal shows the moderated version and not just the raw
// model output.
func (t *Terminal) RenderCleaned(reply string) {
	if reply == t.lastStream {
		return
	}
	t.RenderMessage("assistant", reply)
}

// RenderReflection prints the advisory reflection line.
func (t *Terminal) RenderReflection(text string) {
	fmt.Fprintf(t.out, "🪞 Clara's Reflection: %s\n", text)
}

func displayName(role string) string {
	if role == "assistant" {
		return "Clara"
	}
	return "You"
}
