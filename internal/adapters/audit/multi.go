package audit

import (
	"errors"

	"github.com/obrienkev/clara-go/internal/domain/entities"
	"github.com/obrienkev/clara-go/internal/domain/ports"
)

// MultiSink fans a record out to several sinks. Every sink sees every record;
// failures are collected rather than short-circuiting.
type MultiSink struct {
	sinks []ports.AuditSink
}

// NewMultiSink combines the given sinks into one.
func NewMultiSink(sinks ...ports.AuditSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Append forwards the record to every sink.
func (s *MultiSink) Append(record entities.AuditRecord) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Append(record); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
