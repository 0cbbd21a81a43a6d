package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-audit/internal/pkg/utils"
)

type AttendanceServiceImpl struct {
	source attendance.CachedRecordSource

	mu              sync.Mutex
	memoKey         string
	memoFingerprint string
	memoRecs        []attendance.AttendanceRecord
}

func NewAttendanceService(source attendance.CachedRecordSource) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		source: source,
	}
}

// normalized returns the normalized records of the currently cached export.
// Normalization runs once per loaded table.
func (s *AttendanceServiceImpl) normalized(ctx context.Context) ([]attendance.AttendanceRecord, attendance.Table, error) {
	table, err := s.source.Load(ctx)
	if err != nil {
		return nil, attendance.Table{}, fmt.Errorf("failed to load attendance export: %w", err)
	}

	key := table.Fingerprint + "@" + table.LoadedAt.Format(time.RFC3339Nano)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memoKey != key {
		s.memoRecs = NormalizeAll(table.Rows)
		s.memoKey = key
		s.memoFingerprint = table.Fingerprint
		slog.Info("Attendance export normalized", "rows", len(table.Rows), "records", len(s.memoRecs), "fingerprint", table.Fingerprint)
	}
	return s.memoRecs, table, nil
}

// Records implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Records(ctx context.Context, filter attendance.Filter) (attendance.FilteredRecords, error) {
	if err := filter.Validate(); err != nil {
		return attendance.FilteredRecords{}, err
	}

	all, _, err := s.normalized(ctx)
	if err != nil {
		return attendance.FilteredRecords{}, err
	}

	records := make([]attendance.AttendanceRecord, 0, len(all))
	for _, rec := range all {
		if filter.Matches(rec) {
			records = append(records, rec)
		}
	}

	return attendance.FilteredRecords{
		Filter:   filter,
		Records:  records,
		WorkDays: WorkDaysForRecords(records),
	}, nil
}

// Options implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Options(ctx context.Context, branch string) (attendance.OptionsResponse, error) {
	all, table, err := s.normalized(ctx)
	if err != nil {
		return attendance.OptionsResponse{}, err
	}

	branchSet := make(map[string]struct{})
	for _, rec := range all {
		if rec.Branch != "" {
			branchSet[rec.Branch] = struct{}{}
		}
	}
	branches := sortedKeys(branchSet)

	if branch != "" {
		if _, ok := branchSet[branch]; !ok {
			return attendance.OptionsResponse{}, attendance.ErrBranchNotFound
		}
	}

	defaultBranch := ""
	if _, ok := branchSet[attendance.DefaultBranch]; ok {
		defaultBranch = attendance.DefaultBranch
	} else if len(branches) > 0 {
		defaultBranch = branches[0]
	}

	orgSet := make(map[string]struct{})
	for _, rec := range all {
		if branch != "" && rec.Branch != branch {
			continue
		}
		if rec.Organization != "" {
			orgSet[rec.Organization] = struct{}{}
		}
	}
	organizations := append([]string{attendance.OrganizationAll}, sortedKeys(orgSet)...)

	return attendance.OptionsResponse{
		Branches:      branches,
		Organizations: organizations,
		DefaultBranch: defaultBranch,
		TotalRecords:  len(all),
		LoadedAt:      table.LoadedAt.Format(time.RFC3339),
	}, nil
}

// Reload implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Reload(ctx context.Context) (bool, error) {
	s.mu.Lock()
	previous := s.memoFingerprint
	s.mu.Unlock()

	s.source.Invalidate()

	_, table, err := s.normalized(ctx)
	if err != nil {
		return false, err
	}

	changed := previous != table.Fingerprint
	slog.Info("Attendance export reloaded", "changed", changed, "fingerprint", table.Fingerprint)
	return changed, nil
}

// WorkDaysForRecords counts the work days of the month of the earliest record.
// An empty set has no work days.
func WorkDaysForRecords(records []attendance.AttendanceRecord) int {
	if len(records) == 0 {
		return 0
	}

	earliest := records[0].Date
	for _, rec := range records[1:] {
		if rec.Date.Before(earliest) {
			earliest = rec.Date
		}
	}
	return utils.WorkDays(earliest.Year(), earliest.Month())
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
