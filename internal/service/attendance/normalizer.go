package attendance

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
)

// footerMarker identifies the per-employee total rows of the export.
const footerMarker = "TOTAL"

// excelEpoch is day zero of spreadsheet serial dates.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"02-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Normalize converts one raw export row into a typed record. Rows whose
// employee id is not an integer, footer rows and rows with an unparsable
// date are rejected.
func Normalize(row attendance.RawRow) (attendance.AttendanceRecord, bool) {
	employeeID, ok := ParseEmployeeID(row.Get(attendance.ColEmployeeID))
	if !ok {
		return attendance.AttendanceRecord{}, false
	}

	date, ok := ParseDate(row.Get(attendance.ColDate))
	if !ok {
		return attendance.AttendanceRecord{}, false
	}

	rec := attendance.AttendanceRecord{
		EmployeeID:        employeeID,
		FullName:          strings.TrimSpace(row.Get(attendance.ColFullName)),
		Branch:            strings.TrimSpace(row.Get(attendance.ColBranch)),
		Organization:      strings.TrimSpace(row.Get(attendance.ColOrganization)),
		JobPosition:       strings.TrimSpace(row.Get(attendance.ColJobPosition)),
		Date:              date,
		Shift:             strings.TrimSpace(row.Get(attendance.ColShift)),
		CheckIn:           strings.TrimSpace(row.Get(attendance.ColCheckIn)),
		CheckOut:          strings.TrimSpace(row.Get(attendance.ColCheckOut)),
		LateIn:            strings.TrimSpace(row.Get(attendance.ColLateIn)),
		EarlyOut:          strings.TrimSpace(row.Get(attendance.ColEarlyOut)),
		RealWorkingHour:   strings.TrimSpace(row.Get(attendance.ColRealWorkingHour)),
		ActualWorkingHour: strings.TrimSpace(row.Get(attendance.ColActualWorkingHour)),
		AttendanceCode:    strings.TrimSpace(row.Get(attendance.ColAttendanceCode)),
		TimeOffCode:       strings.TrimSpace(row.Get(attendance.ColTimeOffCode)),
	}

	rec.RealWorkingHours = ParseHours(rec.RealWorkingHour)
	rec.ActualWorkingHours = ParseHours(rec.ActualWorkingHour)
	rec.LateInHours = ParseHours(rec.LateIn)
	rec.EarlyOutHours = ParseHours(rec.EarlyOut)
	rec.IsLateIn = ParseFlag(rec.LateIn)
	rec.IsEarlyOut = ParseFlag(rec.EarlyOut)

	c := Classify(rec)
	rec.IsPresent = c.IsPresent
	rec.IsAbsent = c.IsAbsent
	rec.IsLeave = c.IsLeave
	rec.IsDayoff = c.IsDayoff

	return rec, true
}

// NormalizeAll normalizes every row, silently dropping rejected ones.
func NormalizeAll(rows []attendance.RawRow) []attendance.AttendanceRecord {
	records := make([]attendance.AttendanceRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := Normalize(row); ok {
			records = append(records, rec)
		}
	}

	if dropped := len(rows) - len(records); dropped > 0 {
		slog.Debug("Dropped attendance rows during normalization", "dropped", dropped, "kept", len(records))
	}
	return records
}

// ParseEmployeeID accepts integer ids, including integral decimals such as
// "1001.0" written by spreadsheet exports.
func ParseEmployeeID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, footerMarker) {
		return 0, false
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// ParseDate parses the export's date column into a UTC calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}

	// Spreadsheet serial day number
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 && serial < 2958466 {
		t := excelEpoch.AddDate(0, 0, int(serial))
		return t, true
	}

	return time.Time{}, false
}

// splitClock splits "HH:MM" into its integer parts. Empty values, "00:00"
// and anything other than exactly two numeric parts are rejected.
func splitClock(s string) (int, int, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "00:00" {
		return 0, 0, false
	}
	return clockParts(s)
}

func clockParts(s string) (int, int, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}

// ParseHours converts "HH:MM" to decimal hours. Zero doubles as "no value".
func ParseHours(s string) float64 {
	h, m, ok := splitClock(s)
	if !ok {
		return 0
	}
	return float64(h) + float64(m)/60.0
}

// ParseFlag reports whether an "HH:MM" duration is a real, non-zero value.
func ParseFlag(s string) bool {
	h, m, ok := splitClock(s)
	if !ok {
		return false
	}
	return h > 0 || m > 0
}

// MinutesSinceMidnight converts a clock time to minutes; "00:00" is valid.
func MinutesSinceMidnight(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	h, m, ok := clockParts(s)
	if !ok {
		return 0, false
	}
	return h*60 + m, true
}

// CheckInMinutes converts a check-in time to minutes, treating "00:00" as
// no check-in.
func CheckInMinutes(s string) (int, bool) {
	h, m, ok := splitClock(s)
	if !ok {
		return 0, false
	}
	return h*60 + m, true
}
