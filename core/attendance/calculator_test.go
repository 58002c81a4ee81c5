package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Renato2024Valente/Buscativa2026/core"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		absences int
		want     float64
		wantErr  error
	}{
		{name: "no absences", total: 10, absences: 0, want: 100},
		{name: "all absent", total: 10, absences: 10, want: 0},
		{name: "70%", total: 10, absences: 3, want: 70},
		{name: "rounded down", total: 3, absences: 1, want: 66.67},
		{name: "rounded up", total: 6, absences: 1, want: 83.33},
		{name: "exact threshold", total: 5, absences: 1, want: 80},
		{name: "single class", total: 1, absences: 0, want: 100},
		{name: "zero total", total: 0, absences: 0, wantErr: ErrInvalidTotal},
		{name: "negative total", total: -2, absences: 0, wantErr: ErrInvalidTotal},
		{name: "negative absences", total: 10, absences: -1, wantErr: ErrNegativeAbsences},
		{name: "too many absences", total: 10, absences: 11, wantErr: ErrTooManyAbsences},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentage(tt.total, tt.absences)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Equal(t, core.KindInvalidInput, core.KindOf(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercentage_AllInputs(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for absences := 0; absences <= total; absences++ {
			got, err := Percentage(total, absences)
			assert.NoError(t, err)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
			assert.InDelta(t, 100*float64(total-absences)/float64(total), got, 0.005+1e-9)
		}
	}
}

func TestBelowThreshold(t *testing.T) {
	assert.True(t, BelowThreshold(79.99))
	assert.True(t, BelowThreshold(0))
	assert.False(t, BelowThreshold(80))
	assert.False(t, BelowThreshold(100))
}
