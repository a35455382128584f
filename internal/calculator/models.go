// internal/calculator/models.go
package calculator

// Slider ranges of the public EMI calculator. Inputs outside are clamped.
const (
	MinAmount = 10000
	MaxAmount = 1000000

	MinRate = 7.0
	MaxRate = 15.0

	MinTenureMonths = 6
	MaxTenureMonths = 60

	// EligibleTurnoverShare is the largest share of annual turnover that can be
	// requested as working capital.
	EligibleTurnoverShare = 0.20
)

type EMIInput struct {
	Amount       float64 `json:"amount" form:"amount"`
	AnnualRate   float64 `json:"rate" form:"rate"`
	TenureMonths int     `json:"tenure" form:"tenure"`
}

type EMIResult struct {
	Amount        float64 `json:"amount"`
	AnnualRate    float64 `json:"rate"`
	TenureMonths  int     `json:"tenure"`
	MonthlyEMI    float64 `json:"emi"`
	TotalPayable  float64 `json:"totalAmount"`
	TotalInterest float64 `json:"totalInterest"`
}

type EligibilityInput struct {
	AnnualTurnover float64 `json:"turnover" form:"turnover"`
	Requested      float64 `json:"amount" form:"amount"`
}

type EligibilityResult struct {
	Eligible    bool    `json:"eligible"`
	Ratio       float64 `json:"ratio"`
	MaxEligible float64 `json:"maxEligible"`
}
