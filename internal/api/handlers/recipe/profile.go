package recipe

import (
	"net/http"

	"mixmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// AgeVerificationRequest 年齡驗證
type AgeVerificationRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// HandleSetAgeVerification 記錄使用者的年齡驗證結果
func (h *Handler) HandleSetAgeVerification(c *gin.Context) {
	var req AgeVerificationRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.profiles.SetAgeVerified(c.Request.Context(), userID(c), *req.Verified); err != nil {
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"age_verified": *req.Verified})
}

// HandleDeleteAccount 刪除目前使用者的資料
func (h *Handler) HandleDeleteAccount(c *gin.Context) {
	if err := h.profiles.DeleteAccount(c.Request.Context(), userID(c)); err != nil {
		common.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleGetAgeVerification 查詢年齡驗證狀態
func (h *Handler) HandleGetAgeVerification(c *gin.Context) {
	verified, err := h.profiles.AgeVerified(c.Request.Context(), userID(c))
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"age_verified": verified})
}
