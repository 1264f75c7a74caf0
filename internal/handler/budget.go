package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/budget"
	"github.com/AyushTurak/ExpenseTracker/internal/models"
	"github.com/AyushTurak/ExpenseTracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetHandler serves the budget configuration and the threshold check.
type BudgetHandler struct {
	DB      *gorm.DB
	Store   *budget.Store
	Checker *budget.Checker

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewBudgetHandler(db *gorm.DB, store *budget.Store, checker *budget.Checker) *BudgetHandler {
	return &BudgetHandler{DB: db, Store: store, Checker: checker}
}

func (h *BudgetHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type budgetReq struct {
	MonthlyBudget       string `json:"monthly_budget" binding:"required"`
	ThresholdPercentage int    `json:"threshold_percentage"`
	NotificationEmail   *bool  `json:"notification_email"`
}

type budgetResp struct {
	MonthlyBudget       string  `json:"monthly_budget"`
	ThresholdPercentage int     `json:"threshold_percentage"`
	NotificationEmail   bool    `json:"notification_email"`
	AlertEnabled        bool    `json:"alert_enabled"`
	LastNotifiedAt      *string `json:"last_notified_at"`
}

func toBudgetResp(cfg *models.BudgetAlert) budgetResp {
	resp := budgetResp{
		MonthlyBudget:       cfg.MonthlyBudget.StringFixed(2),
		ThresholdPercentage: cfg.ThresholdPercentage,
		NotificationEmail:   cfg.NotificationEmail,
		AlertEnabled:        cfg.AlertEnabled,
	}
	if cfg.LastNotifiedAt != nil {
		s := cfg.LastNotifiedAt.Format(time.RFC3339)
		resp.LastNotifiedAt = &s
	}
	return resp
}

func statusPayload(st *budget.Status) gin.H {
	return gin.H{
		"monthly_budget":        st.MonthlyBudget.StringFixed(2),
		"current_expenses":      st.CurrentExpenses.StringFixed(2),
		"remaining_budget":      st.RemainingBudget.StringFixed(2),
		"percentage_used":       st.PercentageUsed.StringFixed(1),
		"threshold_percentage":  st.ThresholdPercentage,
		"alert_enabled":         st.AlertEnabled,
		"is_threshold_exceeded": st.IsThresholdExceeded,
		"severity":              st.Severity(),
	}
}

// GetBudget returns the user's budget configuration, or null when unset.
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	cfg, err := h.Store.GetConfig(c.Request.Context(), user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load budget")
		return
	}
	if cfg == nil {
		util.Success(c, util.Response{"budget": nil})
		return
	}

	util.Success(c, util.Response{"budget": toBudgetResp(cfg)})
}

// UpsertBudget creates or updates the configuration. The validation
// boundary lives here: the evaluator only ever sees valid numbers.
// Editing clears the breach episode, re-arming the alert for this month.
func (h *BudgetHandler) UpsertBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req budgetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.MonthlyBudget))
	if err != nil || util.ValidateAmount(amount) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "monthly budget must be a positive amount")
		return
	}
	if err := util.ValidateThreshold(req.ThresholdPercentage); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "threshold must be between 0 and 100")
		return
	}

	notificationEmail := true
	if req.NotificationEmail != nil {
		notificationEmail = *req.NotificationEmail
	}

	var cfg models.BudgetAlert
	err = h.DB.Where("user_id = ?", user.ID).First(&cfg).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		cfg = models.BudgetAlert{
			UserID:              user.ID,
			MonthlyBudget:       amount,
			ThresholdPercentage: req.ThresholdPercentage,
			NotificationEmail:   notificationEmail,
			AlertEnabled:        true,
		}
		if err := h.DB.Create(&cfg).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save budget")
			return
		}
	case err != nil:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load budget")
		return
	default:
		cfg.MonthlyBudget = amount
		cfg.ThresholdPercentage = req.ThresholdPercentage
		cfg.NotificationEmail = notificationEmail
		// re-arm the alert: a fresh configuration starts a fresh episode
		cfg.LastNotifiedPeriod = ""
		cfg.LastNotifiedAt = nil
		if err := h.DB.Save(&cfg).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save budget")
			return
		}
	}

	util.Success(c, util.Response{"budget": toBudgetResp(&cfg)})
}

type budgetEnabledReq struct {
	AlertEnabled *bool `json:"alert_enabled" binding:"required"`
}

// SetEnabled flips the master alert switch.
func (h *BudgetHandler) SetEnabled(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req budgetEnabledReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return
	}

	result := h.DB.Model(&models.BudgetAlert{}).
		Where("user_id = ?", user.ID).
		Update("alert_enabled", *req.AlertEnabled)
	if result.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update budget")
		return
	}
	if result.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no budget configured")
		return
	}

	util.Success(c, util.Response{"alert_enabled": *req.AlertEnabled})
}

// DeleteBudget removes the configuration.
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.DB.Where("user_id = ?", user.ID).
		Delete(&models.BudgetAlert{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete budget")
		return
	}

	util.Success(c, util.Response{"message": "deleted"})
}

// GetStatus computes the current budget position without side effects.
// Missing configuration renders as "no budget set", not an error.
func (h *BudgetHandler) GetStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.Store.GetConfig(ctx, user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load budget")
		return
	}
	if cfg == nil {
		util.Success(c, util.Response{"status": nil})
		return
	}

	expenses, err := h.Store.CurrentMonthExpenseTotal(ctx, user.ID, h.now())
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load expenses")
		return
	}

	st := budget.ComputeStatus(cfg.MonthlyBudget, expenses, cfg.ThresholdPercentage, cfg.AlertEnabled)
	util.Success(c, util.Response{"status": statusPayload(&st)})
}

// ManualCheck evaluates the budget and dispatches the breach notification
// if this is a new episode.
func (h *BudgetHandler) ManualCheck(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	st, outcome, err := h.Checker.Check(c.Request.Context(), user)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "budget check failed, please retry")
		return
	}
	if st == nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "no budget configured")
		return
	}

	message := "Budget is within limits"
	if st.IsThresholdExceeded {
		message = "Budget threshold exceeded"
		if outcome.Notified {
			message = "Budget alert triggered and notification sent"
		}
	}

	util.Success(c, util.Response{
		"threshold_exceeded": st.IsThresholdExceeded,
		"notified":           outcome.Notified,
		"email_sent":         outcome.EmailSent,
		"message":            message,
		"status":             statusPayload(st),
	})
}
