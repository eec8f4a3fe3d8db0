package util

import (
	"fmt"
	"strings"
)

// FormatTokens renders a token count in compact human form.
func FormatTokens(n int64) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(n)/1000000)
}

// FormatNumber renders an integer with comma thousands separators.
func FormatNumber(n int64) string {
	str := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(str, "-")
	if neg {
		str = str[1:]
	}

	if len(str) > 3 {
		var b strings.Builder
		lead := len(str) % 3
		if lead > 0 {
			b.WriteString(str[:lead])
		}
		for i := lead; i < len(str); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(str[i : i+3])
		}
		str = b.String()
	}

	if neg {
		return "-" + str
	}
	return str
}

// FormatCost renders a dollar amount with four decimals for small sums
// and two for large ones.
func FormatCost(amount float64) string {
	if amount < 10 {
		return fmt.Sprintf("$%.4f", amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}

// Truncate shortens text to maxLen runes, ellipsizing when it cuts.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
