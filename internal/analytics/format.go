package analytics

import (
	"math"
	"strconv"
	"strings"
)

// USD: "$0.00" для нуля и сумм от цента, 6 знаков для долей цента.
func USD(x float64) string {
	sign := ""
	if x < 0 {
		sign = "-"
		x = -x
	}
	if x == 0 || x >= 0.01 {
		return sign + "$" + Fixed(x, 2)
	}
	return sign + "$" + Fixed(x, 6)
}

// SignedUSD всегда с явным знаком: "+$1.20", "-$0.30"
func SignedUSD(x float64) string {
	if x >= 0 {
		return "+" + USD(x)
	}
	return USD(x)
}

func Percent(x float64) string {
	return Fixed(x, 1) + "%"
}

func Millis(x float64) string {
	return Fixed(x, 1) + " ms"
}

// Fixed — аналог toFixed без "-0"
func Fixed(x float64, digits int) string {
	s := strconv.FormatFloat(x, 'f', digits, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s, "-0.") == "" {
		return s[1:]
	}
	return s
}

// Count группирует разряды: 1823 -> "1,823"
func Count(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// Compact: 1920000 -> "1.9M", 1500 -> "1.5k"
func Compact(x float64) string {
	switch a := math.Abs(x); {
	case a >= 1_000_000:
		return Fixed(x/1_000_000, 1) + "M"
	case a >= 1_000:
		return Fixed(x/1_000, 1) + "k"
	default:
		return Fixed(x, 0)
	}
}
