package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the GORM-backed implementation of ConfigStore, ExpenseSource
// and NotificationStore.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) GetConfig(ctx context.Context, userID uint) (*models.BudgetAlert, error) {
	var cfg models.BudgetAlert
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query budget alert: %w", err)
	}
	return &cfg, nil
}

// MarkNotified records the breach episode. The period guard narrows the
// window where two concurrent evaluations both record the same episode;
// duplicates remain an accepted best-effort outcome.
func (s *Store) MarkNotified(ctx context.Context, userID uint, period string, at time.Time) error {
	err := s.DB.WithContext(ctx).
		Model(&models.BudgetAlert{}).
		Where("user_id = ? AND (last_notified_period IS NULL OR last_notified_period <> ?)", userID, period).
		Updates(map[string]interface{}{
			"last_notified_period": period,
			"last_notified_at":     at,
		}).Error
	if err != nil {
		return fmt.Errorf("update last notified: %w", err)
	}
	return nil
}

func (s *Store) CurrentMonthExpenseTotal(ctx context.Context, userID uint, now time.Time) (decimal.Decimal, error) {
	start, end := MonthRange(now)

	var total decimal.Decimal
	row := s.DB.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", userID, "expense", start, end).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum month expenses: %w", err)
	}
	return total, nil
}

func (s *Store) Create(ctx context.Context, n *models.Notification) error {
	if err := s.DB.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *Store) MarkEmailSent(ctx context.Context, id uint) error {
	err := s.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("email_sent", true).Error
	if err != nil {
		return fmt.Errorf("mark email sent: %w", err)
	}
	return nil
}
