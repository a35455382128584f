// internal/calculator/calculator.go
package calculator

import "math"

// EMI returns the equated monthly instalment for in after clamping it to the
// calculator ranges. All amounts are rounded to whole rupees.
func EMI(in EMIInput) EMIResult {
	p := clamp(in.Amount, MinAmount, MaxAmount)
	rate := clamp(in.AnnualRate, MinRate, MaxRate)
	n := int(clamp(float64(in.TenureMonths), MinTenureMonths, MaxTenureMonths))

	emi := instalment(p, rate, n)
	total := emi * float64(n)

	return EMIResult{
		Amount:        p,
		AnnualRate:    rate,
		TenureMonths:  n,
		MonthlyEMI:    math.Round(emi),
		TotalPayable:  math.Round(total),
		TotalInterest: math.Round(total - p),
	}
}

// instalment is P·r·(1+r)^n / ((1+r)^n − 1) with r the monthly rate. A zero rate
// degenerates to straight division.
func instalment(principal, annualRate float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := annualRate / 12 / 100
	if r == 0 {
		return principal / float64(months)
	}
	f := math.Pow(1+r, float64(months))
	return principal * r * f / (f - 1)
}

// Eligibility compares the requested amount against the turnover share.
func Eligibility(in EligibilityInput) EligibilityResult {
	if in.AnnualTurnover <= 0 || math.IsNaN(in.AnnualTurnover) || math.IsInf(in.AnnualTurnover, 0) {
		return EligibilityResult{}
	}

	maxEligible := math.Round(in.AnnualTurnover * EligibleTurnoverShare)
	ratio := 0.0
	if in.Requested > 0 {
		ratio = in.Requested / in.AnnualTurnover
	}

	return EligibilityResult{
		Eligible:    in.Requested > 0 && ratio <= EligibleTurnoverShare,
		Ratio:       math.Round(ratio*10000) / 10000,
		MaxEligible: maxEligible,
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
