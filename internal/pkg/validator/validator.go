package validator

import (
	"slices"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsValidDate parses a YYYY-MM-DD query date
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", strings.TrimSpace(dateStr))
	return date, err == nil
}

// IsInSlice reports whether value is one of the allowed options, ignoring case
func IsInSlice(value string, slice []string) bool {
	return slices.ContainsFunc(slice, func(item string) bool {
		return strings.EqualFold(item, value)
	})
}
