package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/attendance-audit/internal/domain/attendance"
)

func rawRow(overrides map[string]string) attendance.RawRow {
	row := attendance.RawRow{
		attendance.ColEmployeeID:        "1001",
		attendance.ColFullName:          "Budi Santoso",
		attendance.ColBranch:            "HO Jakarta",
		attendance.ColOrganization:      "Finance",
		attendance.ColJobPosition:       "Staff",
		attendance.ColDate:              "2026-01-05",
		attendance.ColShift:             "Regular 08-17",
		attendance.ColCheckIn:           "08:00",
		attendance.ColCheckOut:          "17:00",
		attendance.ColLateIn:            "",
		attendance.ColEarlyOut:          "",
		attendance.ColRealWorkingHour:   "08:00",
		attendance.ColActualWorkingHour: "09:00",
		attendance.ColAttendanceCode:    "H",
		attendance.ColTimeOffCode:       "",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestParseHours(t *testing.T) {
	cases := []struct {
		input string
		want  float64
	}{
		{"", 0},
		{"00:00", 0},
		{"08:00", 8},
		{"07:45", 7.75},
		{"00:30", 0.5},
		{"10:06", 10.1},
		{"8", 0},
		{"08:00:00", 0},
		{"ab:cd", 0},
		{"08:xx", 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, ParseHours(c.input), 1e-9, "ParseHours(%q)", c.input)
	}
}

func TestParseHours_RoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 7 {
			if h == 0 && m == 0 {
				continue
			}
			s := time.Date(2026, 1, 1, h, m, 0, 0, time.UTC).Format("15:04")
			assert.InDelta(t, float64(h)+float64(m)/60, ParseHours(s), 1e-9, s)
		}
	}
}

func TestParseFlag(t *testing.T) {
	assert.True(t, ParseFlag("00:05"))
	assert.True(t, ParseFlag("01:00"))
	assert.False(t, ParseFlag("00:00"))
	assert.False(t, ParseFlag(""))
	assert.False(t, ParseFlag("late"))
}

func TestMinutesSinceMidnight(t *testing.T) {
	m, ok := MinutesSinceMidnight("00:00")
	assert.True(t, ok)
	assert.Equal(t, 0, m)

	m, ok = MinutesSinceMidnight("17:30")
	assert.True(t, ok)
	assert.Equal(t, 1050, m)

	_, ok = MinutesSinceMidnight("")
	assert.False(t, ok)

	_, ok = MinutesSinceMidnight("17.30")
	assert.False(t, ok)
}

func TestCheckInMinutes(t *testing.T) {
	_, ok := CheckInMinutes("00:00")
	assert.False(t, ok)

	m, ok := CheckInMinutes("08:15")
	assert.True(t, ok)
	assert.Equal(t, 495, m)
}

func TestParseEmployeeID(t *testing.T) {
	cases := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"1001", 1001, true},
		{" 1001 ", 1001, true},
		{"1001.0", 1001, true},
		{"1001.5", 0, false},
		{"TOTAL", 0, false},
		{"TOTAL 1001", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseEmployeeID(c.input)
		assert.Equal(t, c.ok, ok, "ParseEmployeeID(%q)", c.input)
		assert.Equal(t, c.want, got, "ParseEmployeeID(%q)", c.input)
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	inputs := []string{
		"2026-01-05",
		"2026-01-05 00:00:00",
		"2026-01-05T00:00:00",
		"01/05/2026",
		"05-Jan-2026",
		"5 Jan 2026",
		"46027",
	}
	for _, in := range inputs {
		got, ok := ParseDate(in)
		require.True(t, ok, "ParseDate(%q)", in)
		assert.True(t, want.Equal(got), "ParseDate(%q) = %s", in, got)
	}

	_, ok := ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("not a date")
	assert.False(t, ok)
}

func TestNormalize(t *testing.T) {
	rec, ok := Normalize(rawRow(map[string]string{
		attendance.ColLateIn:   "00:10",
		attendance.ColFullName: "  Budi Santoso ",
	}))
	require.True(t, ok)

	assert.Equal(t, int64(1001), rec.EmployeeID)
	assert.Equal(t, "Budi Santoso", rec.FullName)
	assert.Equal(t, 8.0, rec.RealWorkingHours)
	assert.Equal(t, 9.0, rec.ActualWorkingHours)
	assert.True(t, rec.IsLateIn)
	assert.False(t, rec.IsEarlyOut)
	assert.InDelta(t, 10.0/60.0, rec.LateInHours, 1e-9)
	assert.True(t, rec.IsPresent)
	assert.False(t, rec.IsAbsent)
}

func TestNormalizeAll_DropsInvalidRows(t *testing.T) {
	rows := []attendance.RawRow{
		rawRow(nil),
		rawRow(map[string]string{attendance.ColEmployeeID: "TOTAL"}),
		rawRow(map[string]string{attendance.ColEmployeeID: "n/a"}),
		rawRow(map[string]string{attendance.ColDate: "someday"}),
		rawRow(map[string]string{attendance.ColEmployeeID: "1002"}),
	}

	records := NormalizeAll(rows)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1001), records[0].EmployeeID)
	assert.Equal(t, int64(1002), records[1].EmployeeID)
}

func TestNormalize_Idempotent(t *testing.T) {
	row := rawRow(map[string]string{attendance.ColEarlyOut: "00:45"})

	first, ok := Normalize(row)
	require.True(t, ok)
	second, ok := Normalize(row)
	require.True(t, ok)

	assert.Equal(t, first, second)
}
