package format

import "fmt"

// FmtDays formats a simulation period in days, switching to years for
// long horizons.
func FmtDays(days float64) string {
	if days >= 365 {
		return fmt.Sprintf("%.1fy", days/365)
	}
	return fmt.Sprintf("%.0fd", days)
}

// FmtPct formats a proportion as a percentage with one decimal.
func FmtPct(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}

// FmtCI formats a confidence interval as "low–high" with two decimals.
func FmtCI(low, high float64) string {
	return fmt.Sprintf("%.2f to %.2f", low, high)
}

// Truncate shortens s to maxLen characters, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
