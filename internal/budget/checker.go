package budget

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/models"

	"github.com/shopspring/decimal"
)

// ConfigStore reads the per-user budget configuration and records the
// breach episode once a notification has been persisted.
type ConfigStore interface {
	// GetConfig returns nil, nil when the user has no budget configured.
	GetConfig(ctx context.Context, userID uint) (*models.BudgetAlert, error)
	MarkNotified(ctx context.Context, userID uint, period string, at time.Time) error
}

// ExpenseSource computes the expense total for the calendar month
// containing now. Always reflects latest committed transactions.
type ExpenseSource interface {
	CurrentMonthExpenseTotal(ctx context.Context, userID uint, now time.Time) (decimal.Decimal, error)
}

// NotificationStore persists in-app notification records.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	MarkEmailSent(ctx context.Context, id uint) error
}

// Mailer delivers an HTML email. Failures are tolerated by the checker.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Outcome reports which notify side effects ran during a check.
type Outcome struct {
	Notified  bool `json:"notified"`
	EmailSent bool `json:"email_sent"`
}

// Checker evaluates a user's budget position and, on a new breach episode,
// persists a notification and requests an email. Side effect order matters:
// the notification record is the durable source of truth and is written
// first; a persistence failure aborts the attempt so the episode stays
// pending and a later evaluation retries. The email is best effort.
type Checker struct {
	Configs       ConfigStore
	Expenses      ExpenseSource
	Notifications NotificationStore
	Mailer        Mailer

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

// Check runs one evaluation for the user. A nil Status means no budget is
// configured, which is not an error. Upstream read failures and
// notification persistence failures propagate.
func (ch *Checker) Check(ctx context.Context, user *models.User) (*Status, Outcome, error) {
	now := time.Now()
	if ch.Now != nil {
		now = ch.Now()
	}

	cfg, err := ch.Configs.GetConfig(ctx, user.ID)
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("load budget config: %w", err)
	}
	if cfg == nil {
		return nil, Outcome{}, nil
	}

	expenses, err := ch.Expenses.CurrentMonthExpenseTotal(ctx, user.ID, now)
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("load month expenses: %w", err)
	}

	st := ComputeStatus(cfg.MonthlyBudget, expenses, cfg.ThresholdPercentage, cfg.AlertEnabled)

	if !ShouldNotify(cfg, st, now) {
		return &st, Outcome{}, nil
	}

	title, message := AlertMessage(st)
	n := &models.Notification{
		UserID:  user.ID,
		Type:    models.NotificationBudgetAlert,
		Title:   title,
		Message: message,
	}
	if err := ch.Notifications.Create(ctx, n); err != nil {
		// Episode stays pending; the next evaluation retries the whole step.
		return &st, Outcome{}, fmt.Errorf("persist notification: %w", err)
	}

	if err := ch.Configs.MarkNotified(ctx, user.ID, PeriodKey(now), now); err != nil {
		// Notification already persisted; a re-notification next evaluation
		// is the accepted at-least-once outcome.
		log.Printf("budget check: mark notified for user %d: %v", user.ID, err)
	}

	out := Outcome{Notified: true}

	if cfg.NotificationEmail && user.Email != "" && ch.Mailer != nil {
		subject, html := AlertEmail(st)
		if err := ch.Mailer.Send(ctx, user.Email, subject, html); err != nil {
			log.Printf("budget check: send alert email to %s: %v", user.Email, err)
		} else {
			out.EmailSent = true
			if err := ch.Notifications.MarkEmailSent(ctx, n.ID); err != nil {
				log.Printf("budget check: mark email sent for notification %d: %v", n.ID, err)
			}
		}
	}

	return &st, out, nil
}
