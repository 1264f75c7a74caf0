package models

import "time"

// Notification types.
const (
	NotificationBudgetAlert  = "budget_alert"
	NotificationExpenseAlert = "expense_alert"
	NotificationInfo         = "info"
)

// Notification is an in-app notification record. Created by the budget
// notifier on a confirmed breach; only Read is mutated afterwards (plus
// EmailSent once the outbound email succeeds).
type Notification struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Type      string `gorm:"size:32;index;not null"`
	Title     string `gorm:"size:128;not null"`
	Message   string `gorm:"size:512"`
	Read      bool   `gorm:"index;not null;default:false"`
	EmailSent bool   `gorm:"not null;default:false"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
