package budget

import "github.com/shopspring/decimal"

// Severity buckets for rendering budget status.
const (
	SeverityOK       = "ok"
	SeverityWarning  = "warning"  // near the threshold (>= 80% used)
	SeverityCritical = "critical" // at or over the configured threshold
)

var (
	hundred     = decimal.NewFromInt(100)
	warnPercent = decimal.NewFromInt(80)
)

// Status is the computed budget position for the current calendar month.
// It is a pure function of the configuration and the month's expense total.
type Status struct {
	MonthlyBudget       decimal.Decimal `json:"monthly_budget"`
	CurrentExpenses     decimal.Decimal `json:"current_expenses"`
	RemainingBudget     decimal.Decimal `json:"remaining_budget"`
	PercentageUsed      decimal.Decimal `json:"percentage_used"`
	ThresholdPercentage int             `json:"threshold_percentage"`
	AlertEnabled        bool            `json:"alert_enabled"`
	IsThresholdExceeded bool            `json:"is_threshold_exceeded"`
}

// ComputeStatus derives a Status from already-fetched scalars.
// A non-positive monthly budget means "no budget configured": percentage
// used is 0 and the threshold is never exceeded (guards divide-by-zero).
func ComputeStatus(monthlyBudget, currentExpenses decimal.Decimal, thresholdPercentage int, alertEnabled bool) Status {
	st := Status{
		MonthlyBudget:       monthlyBudget,
		CurrentExpenses:     currentExpenses,
		RemainingBudget:     monthlyBudget.Sub(currentExpenses),
		PercentageUsed:      decimal.Zero,
		ThresholdPercentage: thresholdPercentage,
		AlertEnabled:        alertEnabled,
	}

	if monthlyBudget.LessThanOrEqual(decimal.Zero) {
		return st
	}

	st.PercentageUsed = currentExpenses.Mul(hundred).Div(monthlyBudget)
	st.IsThresholdExceeded = st.PercentageUsed.GreaterThanOrEqual(decimal.NewFromInt(int64(thresholdPercentage)))
	return st
}

// Severity returns the rendering severity for the status.
func (st Status) Severity() string {
	switch {
	case st.IsThresholdExceeded:
		return SeverityCritical
	case st.PercentageUsed.GreaterThanOrEqual(warnPercent):
		return SeverityWarning
	default:
		return SeverityOK
	}
}
