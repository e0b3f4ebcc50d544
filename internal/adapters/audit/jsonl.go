// Package audit provides audit log sink adapters.
// Clean Architecture: Adapters implementing ports.AuditSink.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/obrienkev/clara-go/internal/domain/entities"
)

// JSONLSink appends one JSON record per line to a flat file.
//
// The file is opened, appended to and closed per write. Writes are not
// concurrent in a single-session deployment; a multi-session deployment must
// serialize writes or use an append-safe sink.
type JSONLSink struct {
	path string
}

// NewJSONLSink creates a line-delimited JSON sink at the given path,
// creating parent directories as needed.
func NewJSONLSink(path string) (*JSONLSink, error) {
	if path == "" {
		path = filepath.Join("logs", "conversation_log.jsonl")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	return &JSONLSink{path: path}, nil
}

// Path returns the log file location.
func (s *JSONLSink) Path() string { return s.path }

// Append writes one record as a single UTF-8 JSON line.
func (s *JSONLSink) Append(record entities.AuditRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending record: %w", err)
	}
	return nil
}
