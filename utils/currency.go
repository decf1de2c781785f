package utils

import (
	"math"
)

// BGNPerEUR is the fixed BGN/EUR peg. Compile-time constant, not
// configuration: the peg does not move.
const BGNPerEUR = 1.95583

// Round2 rounds to 2 decimal places, enough for money stored as decimal(10,2).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BGNToEUR converts a BGN amount to EUR at the fixed rate, rounded to 2dp.
func BGNToEUR(bgn float64) float64 {
	return Round2(bgn / BGNPerEUR)
}
