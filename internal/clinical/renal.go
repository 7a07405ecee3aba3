package clinical

import "math"

// EGFR estimates the glomerular filtration rate (mL/min/1.73m²) using the
// CKD-EPI 2021 creatinine equation. The constants and exponents are fixed by
// the published equation; any deviation changes clinical output.
// Returns zero (undefined, must be hidden from display) when creatinine or
// age is not positive.
func EGFR(creatinine float64, age int, female bool) float64 {
	if creatinine <= 0 || age <= 0 {
		return 0
	}

	kappa := 0.9
	alpha := -0.302
	sexFactor := 1.0
	if female {
		kappa = 0.7
		alpha = -0.241
		sexFactor = 1.012
	}

	ratio := creatinine / kappa
	minTerm := math.Pow(math.Min(ratio, 1.0), alpha)
	maxTerm := math.Pow(math.Max(ratio, 1.0), -1.200)
	ageTerm := math.Pow(0.9938, float64(age))

	return 142 * minTerm * maxTerm * ageTerm * sexFactor
}
