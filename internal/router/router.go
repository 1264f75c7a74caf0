package router

import (
	"net/http"

	"github.com/AyushTurak/ExpenseTracker/internal/budget"
	"github.com/AyushTurak/ExpenseTracker/internal/config"
	"github.com/AyushTurak/ExpenseTracker/internal/handler"
	"github.com/AyushTurak/ExpenseTracker/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API route table.
// The checker is shared: the budget endpoints and the optional
// check-on-write hook evaluate through the same instance.
func SetupRouter(cfg *config.Config, db *gorm.DB, store *budget.Store, checker *budget.Checker) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// register/login do not require auth
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/me", handler.GetMe)
	protected.POST("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))
	protected.POST("/profile/delete", handler.DeleteAccount(db))

	txHandler := handler.NewTransactionHandler(db, checker, cfg.App.CheckOnWrite, cfg.App.PageSize)
	protected.POST("/transactions", txHandler.CreateTransaction)
	protected.GET("/transactions", txHandler.ListTransactions)
	protected.GET("/transactions/summary", txHandler.GetSummary)
	protected.PUT("/transactions/:id", txHandler.UpdateTransaction)
	protected.DELETE("/transactions/:id", txHandler.DeleteTransaction)

	categoryHandler := handler.NewCategoryHandler(db)
	protected.GET("/categories", categoryHandler.ListCategories)
	protected.POST("/categories", categoryHandler.CreateCategory)
	protected.PUT("/categories/:id", categoryHandler.UpdateCategory)
	protected.DELETE("/categories/:id", categoryHandler.DeleteCategory)

	budgetHandler := handler.NewBudgetHandler(db, store, checker)
	protected.GET("/budget", budgetHandler.GetBudget)
	protected.PUT("/budget", budgetHandler.UpsertBudget)
	protected.POST("/budget/enabled", budgetHandler.SetEnabled)
	protected.DELETE("/budget", budgetHandler.DeleteBudget)
	protected.GET("/budget/status", budgetHandler.GetStatus)
	protected.POST("/budget/check", budgetHandler.ManualCheck)

	notificationHandler := handler.NewNotificationHandler(db)
	protected.GET("/notifications", notificationHandler.ListNotifications)
	protected.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
	protected.POST("/notifications/read-all", notificationHandler.MarkAllAsRead)
	protected.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
	protected.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
	protected.DELETE("/notifications", notificationHandler.ClearAll)

	analyticsHandler := handler.NewAnalyticsHandler(db)
	protected.GET("/analytics/monthly", analyticsHandler.GetMonthlyTrends)
	protected.GET("/analytics/categories", analyticsHandler.GetCategoryBreakdown)

	exportHandler := handler.NewExportHandler(db)
	protected.GET("/export/csv", exportHandler.ExportCSV)
	protected.GET("/export/xlsx", exportHandler.ExportXLSX)

	return r
}
