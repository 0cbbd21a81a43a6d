package cached

import (
	"context"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
)

// Source keeps the last table loaded from an underlying source. It is
// reloaded when Refresh sees a new fingerprint or after Invalidate.
type Source struct {
	source attendance.RecordSource

	mu     sync.RWMutex
	table  attendance.Table
	loaded bool
}

func NewSource(source attendance.RecordSource) *Source {
	return &Source{source: source}
}

// Load implements attendance.RecordSource.
func (s *Source) Load(ctx context.Context) (attendance.Table, error) {
	s.mu.RLock()
	if s.loaded {
		table := s.table
		s.mu.RUnlock()
		return table, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another caller may have loaded it meanwhile
	if s.loaded {
		return s.table, nil
	}
	return s.loadLocked(ctx)
}

// Fingerprint implements attendance.RecordSource.
func (s *Source) Fingerprint(ctx context.Context) (string, error) {
	return s.source.Fingerprint(ctx)
}

// Refresh implements attendance.CachedRecordSource.
func (s *Source) Refresh(ctx context.Context) (bool, error) {
	fingerprint, err := s.source.Fingerprint(ctx)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded && s.table.Fingerprint == fingerprint {
		return false, nil
	}

	previous := s.table.Fingerprint
	if _, err := s.loadLocked(ctx); err != nil {
		return false, err
	}
	return previous != s.table.Fingerprint, nil
}

// Invalidate implements attendance.CachedRecordSource.
func (s *Source) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loaded = false
}

func (s *Source) loadLocked(ctx context.Context) (attendance.Table, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		return attendance.Table{}, err
	}

	s.table = table
	s.loaded = true
	slog.Info("Attendance export loaded", "rows", len(table.Rows), "fingerprint", table.Fingerprint)
	return table, nil
}
