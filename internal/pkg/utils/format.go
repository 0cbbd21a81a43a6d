package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatHours renders decimal hours as "1,234 jam 30 menit".
// Minutes are truncated, not rounded.
func FormatHours(hours float64) string {
	p := message.NewPrinter(language.English)

	h := int64(hours)
	m := int64((hours - float64(h)) * 60)
	if m > 0 {
		return p.Sprintf("%d jam %d menit", h, m)
	}
	return p.Sprintf("%d jam", h)
}

// FormatHoursSimple renders decimal hours with two decimals, e.g. "176.00 jam".
func FormatHoursSimple(hours float64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%.2f jam", hours)
}

// FormatShortfall renders a shortfall, "0 jam" when there is none.
func FormatShortfall(hours float64) string {
	if hours <= 0 {
		return "0 jam"
	}
	return FormatHours(hours)
}
