package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetAlert is the per-user monthly budget configuration. At most one row
// per user. LastNotifiedPeriod/LastNotifiedAt track the breach episode: the
// calendar month (YYYY-MM) a threshold notification was last sent for, so a
// user is alerted once per month rather than on every evaluation.
type BudgetAlert struct {
	ID                  uint            `gorm:"primaryKey"`
	UserID              uint            `gorm:"uniqueIndex;not null"`
	MonthlyBudget       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ThresholdPercentage int             `gorm:"not null;default:80"` // 0-100
	NotificationEmail   bool            `gorm:"not null;default:true"`
	AlertEnabled        bool            `gorm:"not null;default:true"`
	LastNotifiedPeriod  string          `gorm:"size:7"` // YYYY-MM
	LastNotifiedAt      *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
