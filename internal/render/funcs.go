package render

import (
	"fmt"
	"html/template"
	"strconv"
	"strings"

	"github.com/Kiwitwitter/daily-finance/internal/domain/models"
	"github.com/Kiwitwitter/daily-finance/pkg/util"
)

// StockRef pairs a symbol with its hover card, if one was fetched.
type StockRef struct {
	Symbol string
	Info   *models.StockInfo
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"num":       formatNum,
		"money":     formatMoney,
		"pct":       formatSignedPct,
		"comma":     formatComma,
		"ratio":     func(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) },
		"text":      formatText,
		"changeCls": changeClass,
		"lower":     strings.ToLower,
		"inc":       func(i int) int { return i + 1 },
		"stockRef":  stockRef,
	}
}

func formatNum(v *float64) string {
	return util.FormatNumber(v)
}

func formatMoney(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func formatSignedPct(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f%%", *v)
}

func formatText(v *string) string {
	if v == nil || *v == "" {
		return "-"
	}
	return *v
}

// formatComma groups digits in threes: 1234567 -> 1,234,567.
func formatComma(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func changeClass(v *float64) string {
	switch {
	case v == nil:
		return ""
	case *v > 0:
		return "up"
	case *v < 0:
		return "down"
	}
	return ""
}

func stockRef(info map[string]models.StockInfo, symbol string) StockRef {
	ref := StockRef{Symbol: symbol}
	if si, ok := info[symbol]; ok && si.Error == "" {
		ref.Info = &si
	}
	return ref
}
