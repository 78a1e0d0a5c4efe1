package blueprint

import (
	"math"
	"testing"
)

func TestGetDiscountFactors(t *testing.T) {
	testCases := []struct {
		name                    string
		params                  DiscountParams
		iter                    int
		positive, negative, sum float64
	}{
		{"vanilla", DiscountParams{}, 3, 1, 1, 1},
		{"cfr+", DiscountParams{UseRegretMatchingPlus: true}, 3, 1, 0, 1},
		{"linear", DiscountParams{LinearWeighting: true}, 1, 1, 1, 0.5},
		{"alpha", DiscountParams{DiscountAlpha: 1.5}, 4, 8.0 / 9, 1, 1},
		{"beta", DiscountParams{DiscountBeta: 1}, 3, 1, 0.75, 1},
		{"gamma", DiscountParams{DiscountGamma: 2}, 1, 1, 1, 0.25},
	}

	for _, tc := range testCases {
		positive, negative, sum := tc.params.GetDiscountFactors(tc.iter)
		if math.Abs(positive-tc.positive) > 1e-12 ||
			math.Abs(negative-tc.negative) > 1e-12 ||
			math.Abs(sum-tc.sum) > 1e-12 {
			t.Errorf("%s: expected (%v, %v, %v), got (%v, %v, %v)", tc.name,
				tc.positive, tc.negative, tc.sum, positive, negative, sum)
		}
	}
}
