package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AyushTurak/ExpenseTracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.BudgetAlert{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// signInAs injects the user the way the auth middleware does.
func signInAs(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", user)
	}
}

type apiEnvelope struct {
	Code int             `json:"code"`
	Data json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, r *gin.Engine, method, target, body string) (int, apiEnvelope) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return w.Code, env
}

func TestParseTxDate(t *testing.T) {
	for _, input := range []string{
		"2025-07-10",
		"2025-07-10T12:30:00",
		"2025-07-10T12:30:00Z",
	} {
		got, err := parseTxDate(input)
		if err != nil {
			t.Errorf("parseTxDate(%q) error = %v", input, err)
			continue
		}
		if got.Year() != 2025 || got.Month() != time.July || got.Day() != 10 {
			t.Errorf("parseTxDate(%q) = %v, want 2025-07-10", input, got)
		}
	}

	if got, err := parseTxDate(""); err != nil {
		t.Errorf("empty date error = %v, want today's date", err)
	} else if got.IsZero() {
		t.Error("empty date must default to now")
	}

	for _, input := range []string{"2025-13-40", "10/07/2025", "yesterday", "2025-02-30"} {
		if _, err := parseTxDate(input); err == nil {
			t.Errorf("parseTxDate(%q) = nil error, want rejection", input)
		}
	}
}

func TestCreateTransaction_RejectsBadDate(t *testing.T) {
	db := testDB(t)
	user := &models.User{ID: 1, Email: "sam@example.com"}
	db.Create(user)

	h := NewTransactionHandler(db, nil, false, 20)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(signInAs(user))
	r.POST("/api/transactions", h.CreateTransaction)

	status, env := doRequest(t, r, http.MethodPost, "/api/transactions",
		`{"type":"expense","amount":"10.00","date":"2025-13-40"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if env.Code == 0 {
		t.Error("code = 0, want an invalid-parameter code")
	}

	var count int64
	db.Model(&models.Transaction{}).Count(&count)
	if count != 0 {
		t.Errorf("transaction count = %d, want nothing persisted", count)
	}
}

func TestListTransactions_EndDateInclusive(t *testing.T) {
	db := testDB(t)
	user := &models.User{ID: 1, Email: "sam@example.com"}
	db.Create(user)

	day := func(d int) time.Time {
		return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC)
	}
	for _, d := range []int{9, 10, 11} {
		db.Create(&models.Transaction{
			UserID: user.ID,
			Type:   "expense",
			Amount: decimal.NewFromInt(int64(d)),
			Date:   day(d),
		})
	}

	h := NewTransactionHandler(db, nil, false, 20)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(signInAs(user))
	r.GET("/api/transactions", h.ListTransactions)

	status, env := doRequest(t, r, http.MethodGet,
		"/api/transactions?start=2025-07-10&end=2025-07-10", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	var data struct {
		Total int64 `json:"total"`
		Items []struct {
			Date string `json:"date"`
		} `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Total != 1 || len(data.Items) != 1 {
		t.Fatalf("total = %d items = %d, want exactly the end-day row", data.Total, len(data.Items))
	}
	if data.Items[0].Date != "2025-07-10" {
		t.Errorf("item date = %q, want 2025-07-10", data.Items[0].Date)
	}
}
