package attendance

import (
	"time"
)

// Column names of the monthly time-and-attendance export.
const (
	ColEmployeeID        = "Employee ID"
	ColFullName          = "Full Name"
	ColBranch            = "Branch"
	ColOrganization      = "Organization"
	ColJobPosition       = "Job Position"
	ColDate              = "Date"
	ColShift             = "Shift"
	ColCheckIn           = "Check In"
	ColCheckOut          = "Check Out"
	ColLateIn            = "Late In"
	ColEarlyOut          = "Early Out"
	ColRealWorkingHour   = "Real Working Hour"
	ColActualWorkingHour = "Actual Working Hour"
	ColAttendanceCode    = "Attendance Code"
	ColTimeOffCode       = "Time Off Code"
)

// RequiredColumns lists every column a source must expose.
var RequiredColumns = []string{
	ColEmployeeID,
	ColFullName,
	ColBranch,
	ColOrganization,
	ColJobPosition,
	ColDate,
	ColShift,
	ColCheckIn,
	ColCheckOut,
	ColLateIn,
	ColEarlyOut,
	ColRealWorkingHour,
	ColActualWorkingHour,
	ColAttendanceCode,
	ColTimeOffCode,
}

const (
	CodePresent = "H"
	CodeLeave   = "CT"
)

// RawRow is one untyped row of the export keyed by column name.
type RawRow map[string]string

// Get returns the raw cell value for a column, empty when absent.
func (r RawRow) Get(column string) string {
	return r[column]
}

// Table is the loaded export.
type Table struct {
	Rows        []RawRow
	Fingerprint string
	LoadedAt    time.Time
}

// AttendanceRecord is one employee on one calendar day.
type AttendanceRecord struct {
	EmployeeID   int64
	FullName     string
	Branch       string
	Organization string
	JobPosition  string
	Date         time.Time

	Shift             string
	CheckIn           string
	CheckOut          string
	LateIn            string
	EarlyOut          string
	RealWorkingHour   string
	ActualWorkingHour string
	AttendanceCode    string
	TimeOffCode       string

	// Derived
	RealWorkingHours   float64
	ActualWorkingHours float64
	LateInHours        float64
	EarlyOutHours      float64
	IsLateIn           bool
	IsEarlyOut         bool
	IsPresent          bool
	IsAbsent           bool
	IsLeave            bool
	IsDayoff           bool
}

// Classification holds the four status flags of a record.
// IsLeave and IsDayoff are not mutually exclusive.
type Classification struct {
	IsPresent bool
	IsAbsent  bool
	IsLeave   bool
	IsDayoff  bool
}

// Status is the display label of a record.
type Status string

const (
	StatusPresent Status = "Hadir"
	StatusLeave   Status = "Cuti"
	StatusDayoff  Status = "Hari Libur"
	StatusAbsent  Status = "Absen"
	StatusUnknown Status = "Tidak Diketahui"
)
