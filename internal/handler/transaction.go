package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/budget"
	"github.com/AyushTurak/ExpenseTracker/internal/models"
	"github.com/AyushTurak/ExpenseTracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionHandler serves transaction CRUD, filtering and summaries.
type TransactionHandler struct {
	DB      *gorm.DB
	Checker *budget.Checker
	// CheckOnWrite runs the budget check after a successful expense write.
	CheckOnWrite bool
	PageSize     int
}

func NewTransactionHandler(db *gorm.DB, checker *budget.Checker, checkOnWrite bool, pageSize int) *TransactionHandler {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &TransactionHandler{
		DB:           db,
		Checker:      checker,
		CheckOnWrite: checkOnWrite,
		PageSize:     pageSize,
	}
}

// ---------- request/response shapes ----------

type transactionReq struct {
	Type       string `json:"type" binding:"required,oneof=income expense"`
	Amount     string `json:"amount" binding:"required"`
	CategoryID *uint  `json:"category_id"`
	Date       string `json:"date"`
	Notes      string `json:"notes" binding:"max=255"`
}

type transactionResp struct {
	ID         uint      `json:"id"`
	Type       string    `json:"type"`
	Amount     string    `json:"amount"`
	CategoryID *uint     `json:"category_id"`
	Category   *gin.H    `json:"category,omitempty"`
	Date       string    `json:"date"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

func toTransactionResp(t *models.Transaction) transactionResp {
	resp := transactionResp{
		ID:         t.ID,
		Type:       t.Type,
		Amount:     t.Amount.StringFixed(2),
		CategoryID: t.CategoryID,
		Date:       t.Date.Format("2006-01-02"),
		Notes:      t.Notes,
		CreatedAt:  t.CreatedAt,
	}
	if t.Category != nil {
		resp.Category = &gin.H{
			"name":  t.Category.Name,
			"color": t.Category.Color,
		}
	}
	return resp
}

// parseTxDate accepts the date formats clients send. An empty date
// defaults to today; anything unparseable is rejected.
func parseTxDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// bindTransaction validates the request into a Transaction owned by user.
func (h *TransactionHandler) bindTransaction(c *gin.Context, userID uint) (*models.Transaction, bool) {
	var req transactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request")
		return nil, false
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || util.ValidateAmount(amount) != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "please enter a valid amount")
		return nil, false
	}

	date, err := parseTxDate(req.Date)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date must be YYYY-MM-DD")
		return nil, false
	}
	if date.Format("2006-01-02") > time.Now().Format("2006-01-02") {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "transaction date cannot be in the future")
		return nil, false
	}

	// categories are optional but must belong to the user
	if req.CategoryID != nil {
		var count int64
		if err := h.DB.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *req.CategoryID, userID).
			Count(&count).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to check category")
			return nil, false
		}
		if count == 0 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown category")
			return nil, false
		}
	}

	return &models.Transaction{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Type:       req.Type,
		Amount:     amount,
		Date:       date,
		Notes:      req.Notes,
	}, true
}

// maybeCheckBudget runs the budget evaluation after an expense write.
// Never fails the write; evaluation errors are only logged.
func (h *TransactionHandler) maybeCheckBudget(c *gin.Context, user *models.User, txType string) {
	if !h.CheckOnWrite || h.Checker == nil || txType != "expense" {
		return
	}
	if _, _, err := h.Checker.Check(c.Request.Context(), user); err != nil {
		log.Printf("budget check after expense write for user %d: %v", user.ID, err)
	}
}

// ---------- create ----------

func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	tx, ok := h.bindTransaction(c, user.ID)
	if !ok {
		return
	}

	if err := h.DB.Create(tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save, please retry")
		return
	}
	_ = h.DB.Preload("Category").First(tx, tx.ID).Error

	h.maybeCheckBudget(c, user, tx.Type)

	util.Success(c, util.Response{
		"transaction": toTransactionResp(tx),
	})
}

// ---------- update ----------

func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	updated, ok := h.bindTransaction(c, user.ID)
	if !ok {
		return
	}

	var tx models.Transaction
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&tx).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "transaction not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transaction")
		}
		return
	}

	tx.Type = updated.Type
	tx.CategoryID = updated.CategoryID
	tx.Amount = updated.Amount
	tx.Date = updated.Date
	tx.Notes = updated.Notes

	if err := h.DB.Save(&tx).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save, please retry")
		return
	}
	_ = h.DB.Preload("Category").First(&tx, tx.ID).Error

	h.maybeCheckBudget(c, user, tx.Type)

	util.Success(c, util.Response{
		"transaction": toTransactionResp(&tx),
	})
}

// ---------- list ----------

// ListTransactions supports pagination, date range, type, category and
// notes search, mirroring the filters of the transactions page.
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(h.PageSize)))
	if size <= 0 || size > 100 {
		size = h.PageSize
	}
	offset := (page - 1) * size

	base := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	if startStr := c.Query("start"); startStr != "" {
		if err := util.ValidateDate(startStr); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start date must be YYYY-MM-DD")
			return
		}
		start, _ := time.Parse("2006-01-02", startStr)
		base = base.Where("date >= ?", start)
	}
	if endStr := c.Query("end"); endStr != "" {
		if err := util.ValidateDate(endStr); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end date must be YYYY-MM-DD")
			return
		}
		end, _ := time.Parse("2006-01-02", endStr)
		// inclusive end date: < end + 1 calendar day
		base = base.Where("date < ?", end.AddDate(0, 0, 1))
	}

	if txType := c.Query("type"); txType == "income" || txType == "expense" {
		base = base.Where("type = ?", txType)
	}
	if catStr := c.Query("category_id"); catStr != "" {
		if catID, err := strconv.Atoi(catStr); err == nil && catID > 0 {
			base = base.Where("category_id = ?", catID)
		}
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		base = base.Where("notes LIKE ?", "%"+search+"%")
	}

	orderBy := "date DESC, created_at DESC, id DESC"
	switch c.DefaultQuery("sort", "date_desc") {
	case "date_asc":
		orderBy = "date ASC, id ASC"
	case "amount_desc":
		orderBy = "amount DESC, id DESC"
	case "amount_asc":
		orderBy = "amount ASC, id ASC"
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	var transactions []models.Transaction
	if err := base.Session(&gorm.Session{}).
		Preload("Category").
		Order(orderBy).
		Limit(size).
		Offset(offset).
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load transactions")
		return
	}

	items := make([]transactionResp, 0, len(transactions))
	for i := range transactions {
		items = append(items, toTransactionResp(&transactions[i]))
	}

	util.Success(c, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// ---------- delete ----------

func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.DB.
		Where("id = ? AND user_id = ?", id, user.ID).
		Delete(&models.Transaction{}).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete")
		return
	}

	util.Success(c, util.Response{"message": "deleted"})
}

// ---------- summary ----------

// GetSummary returns income/expense totals, optionally scoped to a month.
func (h *TransactionHandler) GetSummary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	base := h.DB.Model(&models.Transaction{}).Where("user_id = ?", user.ID)

	monthStr := c.Query("month")
	yearStr := c.Query("year")
	if monthStr != "" && yearStr != "" {
		month, errM := strconv.Atoi(monthStr)
		year, errY := strconv.Atoi(yearStr)
		if errM != nil || errY != nil || month < 1 || month > 12 {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month or year")
			return
		}
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
		base = base.Where("date >= ? AND date < ?", start, start.AddDate(0, 1, 0))
	}

	var transactions []models.Transaction
	if err := base.Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load summary")
		return
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for i := range transactions {
		if transactions[i].Type == "income" {
			totalIncome = totalIncome.Add(transactions[i].Amount)
		} else {
			totalExpense = totalExpense.Add(transactions[i].Amount)
		}
	}

	util.Success(c, util.Response{
		"total_income":      totalIncome.StringFixed(2),
		"total_expense":     totalExpense.StringFixed(2),
		"balance":           totalIncome.Sub(totalExpense).StringFixed(2),
		"transaction_count": len(transactions),
	})
}
