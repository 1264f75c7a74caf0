package budget

import (
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/models"
)

// PeriodKey returns the breach-episode key for t: the calendar month as
// YYYY-MM. A notification is sent at most once per period; the key resets
// the episode on month rollover.
func PeriodKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthRange returns [start, end) bounds of the calendar month containing t.
func MonthRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// ShouldNotify decides whether a breach notification fires now. It is true
// only when alerts are enabled, the threshold is exceeded, and no
// notification has been sent for the current period yet. Editing the
// configuration clears LastNotifiedPeriod, which re-arms the alert within
// the same month.
func ShouldNotify(cfg *models.BudgetAlert, st Status, now time.Time) bool {
	if cfg == nil || !cfg.AlertEnabled || !st.IsThresholdExceeded {
		return false
	}
	return cfg.LastNotifiedPeriod != PeriodKey(now)
}
