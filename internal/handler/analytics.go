package handler

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/models"
	"github.com/AyushTurak/ExpenseTracker/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnalyticsHandler serves the chart data: yearly income/expense trend and
// per-category breakdowns.
type AnalyticsHandler struct {
	DB *gorm.DB
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{DB: db}
}

// GetMonthlyTrends returns one income/expense bucket per month of the year.
func (h *AnalyticsHandler) GetMonthlyTrends(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil || year < 1970 || year > 9999 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year")
		return
	}

	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(1, 0, 0)

	var transactions []models.Transaction
	if err := h.DB.Where("user_id = ? AND date >= ? AND date < ?", user.ID, start, end).
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load analytics")
		return
	}

	type monthlyBucket struct {
		Month   string `json:"month"`
		Income  string `json:"income"`
		Expense string `json:"expense"`
	}

	incomes := make([]decimal.Decimal, 12)
	expenses := make([]decimal.Decimal, 12)
	for i := range incomes {
		incomes[i] = decimal.Zero
		expenses[i] = decimal.Zero
	}

	for i := range transactions {
		t := &transactions[i]
		idx := int(t.Date.Month()) - 1
		if t.Type == "income" {
			incomes[idx] = incomes[idx].Add(t.Amount)
		} else {
			expenses[idx] = expenses[idx].Add(t.Amount)
		}
	}

	months := make([]monthlyBucket, 12)
	for i := 0; i < 12; i++ {
		months[i] = monthlyBucket{
			Month:   time.Month(i + 1).String()[:3],
			Income:  incomes[i].StringFixed(2),
			Expense: expenses[i].StringFixed(2),
		}
	}

	util.Success(c, util.Response{
		"year":   year,
		"months": months,
	})
}

// GetCategoryBreakdown returns per-category totals and share percentages
// for one month, largest first.
func (h *AnalyticsHandler) GetCategoryBreakdown(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	now := time.Now()
	month, errM := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	year, errY := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if errM != nil || errY != nil || month < 1 || month > 12 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid month or year")
		return
	}

	txType := c.DefaultQuery("type", "expense")
	if txType != "income" && txType != "expense" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	var transactions []models.Transaction
	if err := h.DB.Preload("Category").
		Where("user_id = ? AND type = ? AND date >= ? AND date < ?", user.ID, txType, start, end).
		Find(&transactions).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load analytics")
		return
	}

	type categoryTotal struct {
		name  string
		color string
		total decimal.Decimal
	}

	totals := make(map[string]*categoryTotal)
	grandTotal := decimal.Zero

	for i := range transactions {
		t := &transactions[i]
		name := "Uncategorized"
		color := "#9CA3AF"
		if t.Category != nil {
			name = t.Category.Name
			color = t.Category.Color
		}

		ct, ok := totals[name]
		if !ok {
			ct = &categoryTotal{name: name, color: color}
			totals[name] = ct
		}
		ct.total = ct.total.Add(t.Amount)
		grandTotal = grandTotal.Add(t.Amount)
	}

	list := make([]*categoryTotal, 0, len(totals))
	for _, ct := range totals {
		list = append(list, ct)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].total.GreaterThan(list[j].total)
	})

	type breakdownResp struct {
		CategoryName  string `json:"category_name"`
		CategoryColor string `json:"category_color"`
		Total         string `json:"total"`
		Percentage    string `json:"percentage"`
	}

	items := make([]breakdownResp, 0, len(list))
	for _, ct := range list {
		pct := decimal.Zero
		if grandTotal.GreaterThan(decimal.Zero) {
			pct = ct.total.Mul(decimal.NewFromInt(100)).Div(grandTotal)
		}
		items = append(items, breakdownResp{
			CategoryName:  ct.name,
			CategoryColor: ct.color,
			Total:         ct.total.StringFixed(2),
			Percentage:    pct.StringFixed(1),
		})
	}

	util.Success(c, util.Response{
		"month": month,
		"year":  year,
		"type":  txType,
		"items": items,
		"total": grandTotal.StringFixed(2),
	})
}
