package personalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTier(t *testing.T) {
	tests := []struct {
		name       string
		onboarding bool
		insights   int
		answers    int
		want       int
	}{
		{"no data at all", false, 0, 0, 1},
		{"onboarding only", true, 0, 0, 2},
		{"onboarding plus a few answers", true, 0, 5, 2},
		{"one insight unlocks tier 3", false, 1, 0, 3},
		{"ten answers unlock tier 3", false, 0, 10, 3},
		{"five insights unlock tier 4", true, 5, 0, 4},
		{"thirty answers unlock tier 4", false, 0, 30, 4},
		{"insights dominate missing onboarding", false, 5, 0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTier(tt.onboarding, tt.insights, tt.answers)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Adding data never lowers the tier.
func TestCalculateTierMonotonic(t *testing.T) {
	for insights := 0; insights <= 6; insights++ {
		for answers := 0; answers <= 31; answers += 5 {
			without := CalculateTier(false, insights, answers)
			with := CalculateTier(true, insights, answers)
			assert.GreaterOrEqual(t, with, without)

			more := CalculateTier(false, insights+1, answers)
			assert.GreaterOrEqual(t, more, without)
		}
	}
}
