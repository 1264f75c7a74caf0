package budget

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeStatus_Math(t *testing.T) {
	st := ComputeStatus(d("1000"), d("850"), 80, true)

	if !st.PercentageUsed.Equal(d("85")) {
		t.Errorf("percentage used = %s, want 85", st.PercentageUsed)
	}
	if !st.RemainingBudget.Equal(d("150")) {
		t.Errorf("remaining budget = %s, want 150", st.RemainingBudget)
	}
	if !st.IsThresholdExceeded {
		t.Error("threshold exceeded = false, want true")
	}
}

func TestComputeStatus_BelowThreshold(t *testing.T) {
	st := ComputeStatus(d("2000"), d("1200"), 80, true)

	if !st.PercentageUsed.Equal(d("60")) {
		t.Errorf("percentage used = %s, want 60", st.PercentageUsed)
	}
	if st.IsThresholdExceeded {
		t.Error("threshold exceeded = true, want false")
	}
}

func TestComputeStatus_ZeroBudget(t *testing.T) {
	st := ComputeStatus(decimal.Zero, d("500"), 80, true)

	if !st.PercentageUsed.Equal(decimal.Zero) {
		t.Errorf("percentage used = %s, want 0", st.PercentageUsed)
	}
	if st.IsThresholdExceeded {
		t.Error("zero budget must never report a breach")
	}
}

func TestComputeStatus_ExactBoundary(t *testing.T) {
	// percentage_used == threshold_percentage counts as exceeded
	st := ComputeStatus(d("1000"), d("800"), 80, true)

	if !st.PercentageUsed.Equal(d("80")) {
		t.Errorf("percentage used = %s, want 80", st.PercentageUsed)
	}
	if !st.IsThresholdExceeded {
		t.Error("boundary percentage must count as exceeded")
	}
}

func TestComputeStatus_NegativeRemaining(t *testing.T) {
	st := ComputeStatus(d("1000"), d("1200"), 80, true)

	if !st.RemainingBudget.Equal(d("-200")) {
		t.Errorf("remaining budget = %s, want -200", st.RemainingBudget)
	}
	if !st.PercentageUsed.Equal(d("120")) {
		t.Errorf("percentage used = %s, want 120", st.PercentageUsed)
	}
}

func TestStatus_Severity(t *testing.T) {
	cases := []struct {
		budget    string
		expenses  string
		threshold int
		want      string
	}{
		{"1000", "500", 90, SeverityOK},
		{"1000", "850", 90, SeverityWarning},  // near but under threshold
		{"1000", "920", 90, SeverityCritical}, // over threshold
		{"1000", "850", 80, SeverityCritical}, // threshold below the warn band
	}

	for _, tc := range cases {
		st := ComputeStatus(d(tc.budget), d(tc.expenses), tc.threshold, true)
		if got := st.Severity(); got != tc.want {
			t.Errorf("severity(%s/%s, threshold %d) = %s, want %s",
				tc.expenses, tc.budget, tc.threshold, got, tc.want)
		}
	}
}
