package audit

import (
	"sync"

	"github.com/obrienkev/clara-go/internal/domain/entities"
)

// MemorySink is a simple in-memory sink, useful for tests and demos that do
// not need persistence.
type MemorySink struct {
	mu      sync.RWMutex
	records []entities.AuditRecord
}

// NewMemorySink creates a new in-memory audit sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append stores the record in memory.
func (s *MemorySink) Append(record entities.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

// Records returns a copy of everything appended so far.
func (s *MemorySink) Records() []entities.AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.AuditRecord, len(s.records))
	copy(out, s.records)
	return out
}
