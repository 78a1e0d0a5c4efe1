package blueprint

import (
	"math"
)

// DiscountParams are the configuration options for regret matching and
// strategy averaging. An empty DiscountParams struct is valid and
// corresponds to "vanilla" CFR.
type DiscountParams struct {
	UseRegretMatchingPlus bool    `yaml:"regret_matching_plus"` // CFR+
	LinearWeighting       bool    `yaml:"linear_weighting"`     // Linear CFR
	DiscountAlpha         float64 `yaml:"discount_alpha"`       // Discounted CFR
	DiscountBeta          float64 `yaml:"discount_beta"`        // Discounted CFR
	DiscountGamma         float64 `yaml:"discount_gamma"`       // Discounted CFR
	// Average strategy probabilities below this value will be set to zero.
	PurificationThreshold float64 `yaml:"purification_threshold"`
}

// Gets the discount factors as configured by the parameters for the
// various CFR weighting schemes: CFR+, linear CFR, etc.
func (p DiscountParams) GetDiscountFactors(iter int) (positive, negative, sum float64) {
	positive = 1.0
	negative = 1.0
	sum = 1.0

	// See: https://arxiv.org/pdf/1809.04040.pdf
	// Linear CFR is equivalent to weighting the reach prob on each
	// iteration by (t / (t+1)), and this reduces numerical instability.
	if p.LinearWeighting {
		sum = float64(iter) / float64(iter+1)
	}

	if p.UseRegretMatchingPlus {
		negative = 0.0 // No negative regrets.
	}

	if p.DiscountAlpha != 0 {
		// t^alpha / (t^alpha + 1)
		x := math.Pow(float64(iter), p.DiscountAlpha)
		positive = x / (x + 1.0)
	}

	if p.DiscountBeta != 0 {
		// t^beta / (t^beta + 1)
		x := math.Pow(float64(iter), p.DiscountBeta)
		negative = x / (x + 1.0)
	}

	if p.DiscountGamma != 0 {
		// (t / (t+1)) ^ gamma
		x := float64(iter) / float64(iter+1)
		sum = math.Pow(x, p.DiscountGamma)
	}

	return
}
