package util

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(10000000) // 10 million cap

// ValidateAmount checks a transaction or budget amount: positive, below cap.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateThreshold checks an alert threshold percentage (0-100).
func ValidateThreshold(pct int) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("threshold percentage must be between 0 and 100, got %d", pct)
	}
	return nil
}

// ValidateDate checks a date string is YYYY-MM-DD.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateCategoryName checks a category name is present and of sane length.
func ValidateCategoryName(name string) error {
	if name == "" {
		return fmt.Errorf("category name is empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("category name too long, max 64 characters")
	}
	return nil
}
