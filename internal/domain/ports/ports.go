// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/obrienkev/clara-go/internal/domain/entities"
)

// StreamToken is a single fragment of a streaming completion response.
type StreamToken struct {
	Content string
	Done    bool
}

// CompletionService generates text responses from a language model.
//
// GenerateStream never fails from the caller's perspective: any transport or
// decode error is converted into a single human-readable error fragment
// followed by normal channel close, so the moderation pipeline downstream
// always runs on whatever text came back.
type CompletionService interface {
	GenerateStream(ctx context.Context, prompt string) <-chan StreamToken
}

// ChatRenderer is the display surface for a conversation.
//
// RenderStream consumes the fragment feed incrementally (live typing) and
// returns the full concatenated text once the feed is exhausted.
type ChatRenderer interface {
	// RenderMessage renders a complete role-tagged message.
	RenderMessage(role, text string)

	// RenderStream renders an incremental fragment feed and returns the
	// concatenated reply.
	RenderStream(tokens <-chan StreamToken) string

	// RenderReflection renders the advisory pre-reply reflection line.
	RenderReflection(text string)
}

// AuditSink appends one structured record per turn to a durable log.
// Callers treat Append as best-effort: a failed append never aborts a reply.
type AuditSink interface {
	Append(record entities.AuditRecord) error
}

// LanguageDetector guesses the language of a user utterance.
type LanguageDetector interface {
	// Detect returns an ISO 639-1 code, or "unknown" when detection fails.
	Detect(text string) string
}

// FileWatcher monitors a path for changes.
type FileWatcher interface {
	// Watch starts monitoring the path and emits events.
	Watch(ctx context.Context, path string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
