package attendance

import (
	"math"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

// Threshold is the attendance percentage below which an outreach case is opened.
const Threshold = 80.0

var (
	ErrInvalidTotal     = core.NewError(core.KindInvalidInput, "total classes must be greater than 0")
	ErrNegativeAbsences = core.NewError(core.KindInvalidInput, "absences cannot be negative")
	ErrTooManyAbsences  = core.NewError(core.KindInvalidInput, "absences cannot be greater than total classes")
)

// Percentage returns the share of attended classes, rounded to two decimal places.
func Percentage(total, absences int) (float64, error) {
	switch {
	case total <= 0:
		return 0, ErrInvalidTotal
	case absences < 0:
		return 0, ErrNegativeAbsences
	case absences > total:
		return 0, ErrTooManyAbsences
	}
	pct := 100 * float64(total-absences) / float64(total)
	return math.Round(pct*100) / 100, nil
}

// BelowThreshold reports whether pct warrants outreach.
func BelowThreshold(pct float64) bool {
	return pct < Threshold
}
