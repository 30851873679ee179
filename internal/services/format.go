package services

import (
	"fmt"
	"math"
)

// FormatTimeWithPenalty renders a travel time such as "25 min" or
// "1 hr 5 min (+8 min delay)". Rounding is applied to the final totals only.
func FormatTimeWithPenalty(baseMinutes, penaltyMinutes float64) string {
	total := int64(math.Round(baseMinutes + penaltyMinutes))

	var s string
	if total >= 60 {
		s = fmt.Sprintf("%d hr %d min", total/60, total%60)
	} else {
		s = fmt.Sprintf("%d min", total)
	}

	if penaltyMinutes > 0 {
		s += fmt.Sprintf(" (+%d min delay)", int64(math.Round(penaltyMinutes)))
	}
	return s
}
