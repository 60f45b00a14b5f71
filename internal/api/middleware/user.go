package middleware

import (
	"strings"

	"mixmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader 由上游驗證層注入的使用者 ID
	UserIDHeader = "X-User-ID"
	userIDKey    = "user_id"
	maxUserIDLen = 128
)

// RequireUser 要求請求帶有使用者 ID
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" || len(userID) > maxUserIDLen || strings.ContainsAny(userID, ": \t") {
			common.WriteError(c, common.ErrUnauthorized.WithMessage("missing or invalid "+UserIDHeader+" header"))
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalUser 有帶使用者 ID 時寫入 context
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader(UserIDHeader)); userID != "" && len(userID) <= maxUserIDLen {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// UserID 取得目前請求的使用者 ID
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
