package util

import (
	"fmt"
	"math"
	"strconv"
)

// Round rounds the exact binary value of x to the given number of decimal
// places, ties to even. 0.695 is stored just below the midpoint, so it
// rounds to 0.69.
func Round(x float64, places int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	f, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', int(places), 64), 64)
	if err != nil {
		return x
	}
	return f
}

// SafeRatio returns num/den rounded to places, or 0 when den is 0.
func SafeRatio(num, den float64, places int32) float64 {
	if den == 0 {
		return 0
	}
	return Round(num/den, places)
}

// SplitPercent returns the part's share of total as a whole percent and the
// complement, so the two always add to 100. An empty total splits 50/50.
func SplitPercent(part, total int64) (int, int) {
	if total <= 0 {
		return 50, 50
	}
	pct := int(math.RoundToEven(float64(part) / float64(total) * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, 100 - pct
}

// FormatNumber abbreviates large values with K/M/B/T suffixes. Nil renders as "-".
func FormatNumber(v *float64) string {
	if v == nil {
		return "-"
	}
	n := *v
	abs := math.Abs(n)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", n/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", n/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", n/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", n/1e3)
	default:
		return fmt.Sprintf("%.2f", n)
	}
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Deref returns *p or 0 when p is nil.
func Deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
