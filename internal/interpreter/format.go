package interpreter

import (
	"math"
	"strconv"
)

// pct renders a percentage without trailing zeros, rounded to two decimals.
func pct(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
