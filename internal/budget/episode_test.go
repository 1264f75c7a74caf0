package budget

import (
	"testing"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/models"
)

func TestPeriodKey(t *testing.T) {
	at := time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC)
	if got := PeriodKey(at); got != "2025-07" {
		t.Errorf("PeriodKey = %q, want 2025-07", got)
	}
}

func TestMonthRange(t *testing.T) {
	at := time.Date(2025, time.July, 15, 10, 30, 0, 0, time.UTC)
	start, end := MonthRange(at)

	if start != time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("start = %v", start)
	}
	if end != time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("end = %v", end)
	}
}

func TestShouldNotify(t *testing.T) {
	now := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)
	exceeded := Status{IsThresholdExceeded: true}
	under := Status{IsThresholdExceeded: false}

	cases := []struct {
		name string
		cfg  *models.BudgetAlert
		st   Status
		want bool
	}{
		{"nil config", nil, exceeded, false},
		{"alerts disabled", &models.BudgetAlert{AlertEnabled: false}, exceeded, false},
		{"under threshold", &models.BudgetAlert{AlertEnabled: true}, under, false},
		{"first breach", &models.BudgetAlert{AlertEnabled: true}, exceeded, true},
		{"already notified this month", &models.BudgetAlert{AlertEnabled: true, LastNotifiedPeriod: "2025-07"}, exceeded, false},
		{"notified last month", &models.BudgetAlert{AlertEnabled: true, LastNotifiedPeriod: "2025-06"}, exceeded, true},
		{"episode cleared by config edit", &models.BudgetAlert{AlertEnabled: true, LastNotifiedPeriod: ""}, exceeded, true},
	}

	for _, tc := range cases {
		if got := ShouldNotify(tc.cfg, tc.st, now); got != tc.want {
			t.Errorf("%s: ShouldNotify = %v, want %v", tc.name, got, tc.want)
		}
	}
}
