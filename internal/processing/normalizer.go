package processing

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MissingSentinel marks an explicitly unknown budget or income.
const MissingSentinel = "Unknown"

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	nonWordChar     = regexp.MustCompile(`[^A-Za-z0-9_]`)
	firstDigitRun   = regexp.MustCompile(`\d+`)
	nonDigitOrDot   = regexp.MustCompile(`[^\d.]`)
	nonNumericChars = regexp.MustCompile(`[^\d.\-]`)
)

var monthNumbers = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// NormalizeColumnName trims, lowercases, turns whitespace runs into '_' and
// drops any remaining non-word character. It is idempotent.
func NormalizeColumnName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = whitespaceRun.ReplaceAllString(n, "_")
	return nonWordChar.ReplaceAllString(n, "")
}

// parseFinite returns nil for empty, unparsable or non-finite text.
func parseFinite(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// splitSuffix strips a trailing K or M (any case) and returns its multiplier.
func splitSuffix(s string) (string, float64) {
	if s == "" {
		return s, 1
	}
	switch s[len(s)-1] {
	case 'k', 'K':
		return s[:len(s)-1], 1e3
	case 'm', 'M':
		return s[:len(s)-1], 1e6
	}
	return s, 1
}

// ParseSuffixedNumber parses numbers such as "1.2K" or "-3M". Everything other
// than digits, '.' and '-' is dropped before conversion.
func ParseSuffixedNumber(raw string) *float64 {
	body, mult := splitSuffix(strings.TrimSpace(raw))
	v := parseFinite(nonNumericChars.ReplaceAllString(body, ""))
	if v == nil {
		return nil
	}
	scaled := *v * mult
	return &scaled
}

// ParseCurrency parses "$1,234,567"-style amounts. The "Unknown" sentinel and
// text with no digits yield nil. A trailing K/M suffix scales the amount.
func ParseCurrency(raw string) *float64 {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, MissingSentinel) {
		return nil
	}
	body, mult := splitSuffix(s)
	v := parseFinite(nonDigitOrDot.ReplaceAllString(body, ""))
	if v == nil {
		return nil
	}
	scaled := *v * mult
	return &scaled
}

// ParseRuntime extracts the first run of digits, e.g. "142 min" -> 142.
func ParseRuntime(raw string) *float64 {
	m := firstDigitRun.FindString(raw)
	if m == "" {
		return nil
	}
	return parseFinite(m)
}

// ParseVotes strips thousands separators.
func ParseVotes(raw string) *float64 {
	return parseFinite(strings.ReplaceAll(raw, ",", ""))
}

// ParseGross keeps digits and dots only.
func ParseGross(raw string) *float64 {
	return parseFinite(nonDigitOrDot.ReplaceAllString(raw, ""))
}

// ParseRating coerces a rating. The [0,10] range is not enforced here.
func ParseRating(raw string) *float64 {
	return parseFinite(raw)
}

// ParseYear coerces a year, accepting float text such as "1999.0".
func ParseYear(raw string) *int {
	v := parseFinite(raw)
	if v == nil {
		return nil
	}
	y := int(math.Floor(*v))
	return &y
}

// ParseMonth maps a month name or abbreviation to 1..12.
func ParseMonth(raw string) *int {
	r := []rune(strings.ToLower(strings.TrimSpace(raw)))
	if len(r) > 3 {
		r = r[:3]
	}
	n, ok := monthNumbers[string(r)]
	if !ok {
		return nil
	}
	return &n
}

// Decade floors a year to its decade; nil stays nil.
func Decade(year *int) *int {
	if year == nil {
		return nil
	}
	y := *year
	d := y / 10
	if y%10 != 0 && y < 0 {
		d--
	}
	d *= 10
	return &d
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
