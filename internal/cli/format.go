// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Symbol is the currency symbol prepended to money values. Commands set it
// from config at startup.
var Symbol = "€"

// FormatMoney formats a currency amount with two decimals and the
// configured symbol. e.g., 1234.5 -> "€1,234.50"
func FormatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	cents := int64(v*100+0.5) - whole*100
	if cents >= 100 {
		whole++
		cents -= 100
	}
	s := fmt.Sprintf("%s%s.%02d", Symbol, FormatNumber(whole), cents)
	if neg {
		return "-" + s
	}
	return s
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// FormatDayOfWeek returns a 3-letter day abbreviation for a civil date,
// or "???" for malformed input.
func FormatDayOfWeek(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "???"
	}
	return t.Format("Mon")
}

// FormatKind renders a transaction kind for table cells.
func FormatKind(planned, wasPlanned bool) string {
	switch {
	case planned:
		return "planned"
	case wasPlanned:
		return "realised"
	default:
		return ""
	}
}
