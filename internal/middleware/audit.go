package middleware

import (
	"bytes"
	"io"
	"strings"

	"github.com/AyushTurak/ExpenseTracker/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// credentialRoute reports whether the request body carries passwords.
// Those bodies are never captured or persisted.
func credentialRoute(path string) bool {
	return strings.HasSuffix(path, "/profile/password") ||
		strings.HasSuffix(path, "/profile/delete")
}

// AuditMiddleware records write operations of signed-in users.
func AuditMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// capture the body so the handler can still read it
		var bodyBytes []byte
		if c.Request.Body != nil && !credentialRoute(c.Request.URL.Path) {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		var userID uint
		if v, ok := c.Get("currentUser"); ok {
			if user, ok := v.(*models.User); ok && user != nil {
				userID = user.ID
			}
		}
		if userID == 0 {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < 1000 {
			action += " " + string(bodyBytes)
		}

		entry := models.AuditLog{
			UserID:    &userID,
			Path:      path,
			Method:    c.Request.Method,
			Action:    action,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}

		_ = db.Create(&entry).Error
	}
}
