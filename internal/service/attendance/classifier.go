package attendance

import (
	"strings"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
)

// Checklist thresholds, in minutes since midnight and hours.
const (
	MinWorkingHours    = 8.0
	WindowCheckInLimit = 8 * 60    // 08:00
	WindowCheckOutFrom = 17 * 60   // 17:00
	LateCheckInLimit   = 8*60 + 15 // 08:15

	shiftDayoffMarker = "dayoff"
	shiftLeaveMarker  = "roster leave"
)

// Classify derives the four status flags of a record. Leave and day-off are
// evaluated independently and may both hold.
func Classify(rec attendance.AttendanceRecord) attendance.Classification {
	shift := strings.ToLower(rec.Shift)

	present := strings.TrimSpace(rec.CheckIn) != "" || rec.AttendanceCode == attendance.CodePresent
	dayoff := strings.Contains(shift, shiftDayoffMarker)
	leave := rec.AttendanceCode == attendance.CodeLeave ||
		rec.TimeOffCode == attendance.CodeLeave ||
		strings.Contains(shift, shiftLeaveMarker)

	return attendance.Classification{
		IsPresent: present,
		IsAbsent:  !present && !leave && !dayoff,
		IsLeave:   leave,
		IsDayoff:  dayoff,
	}
}

// Compliant8Hours reports whether the real working time reached eight hours.
func Compliant8Hours(rec attendance.AttendanceRecord) bool {
	return rec.RealWorkingHours >= MinWorkingHours
}

// CompliantInOutWindow reports whether the employee checked in by 08:00 and
// checked out at 17:00 or later. Unparsable times fail the rule.
func CompliantInOutWindow(rec attendance.AttendanceRecord) bool {
	in, ok := MinutesSinceMidnight(rec.CheckIn)
	if !ok {
		return false
	}
	out, ok := MinutesSinceMidnight(rec.CheckOut)
	if !ok {
		return false
	}
	return in <= WindowCheckInLimit && out >= WindowCheckOutFrom
}

// ClockedInBy0815 reports whether the employee checked in by 08:15.
// A "00:00" check-in counts as no check-in.
func ClockedInBy0815(rec attendance.AttendanceRecord) bool {
	in, ok := CheckInMinutes(rec.CheckIn)
	return ok && in <= LateCheckInLimit
}

// Status returns the display label of a record.
func Status(rec attendance.AttendanceRecord) attendance.Status {
	switch {
	case rec.IsPresent:
		return attendance.StatusPresent
	case rec.IsLeave:
		return attendance.StatusLeave
	case rec.IsDayoff:
		return attendance.StatusDayoff
	case rec.IsAbsent:
		return attendance.StatusAbsent
	default:
		return attendance.StatusUnknown
	}
}
