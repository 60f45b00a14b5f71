package recipe

import (
	"strings"

	"mixmate/internal/api/middleware"
	recipeService "mixmate/internal/core/recipe"
	"mixmate/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 飲品與食譜處理程序
type Handler struct {
	drinks   *recipeService.DrinkService
	saved    *recipeService.SavedService
	profiles *recipeService.ProfileService
}

// NewHandler 創建新的處理程序
func NewHandler(drinks *recipeService.DrinkService, saved *recipeService.SavedService, profiles *recipeService.ProfileService) *Handler {
	return &Handler{
		drinks:   drinks,
		saved:    saved,
		profiles: profiles,
	}
}

// bindJSON 解析請求體，失敗時直接回應
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		common.LogWarn("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)),
		)
		common.WriteError(c, common.ErrInvalidRequest.WithMessage("invalid request format").Wrap(err))
		return false
	}
	return true
}

// recipeID 取得路徑中的食譜 ID
func recipeID(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		common.WriteError(c, common.ErrInvalidRequest.WithMessage("recipe id is required"))
		return "", false
	}
	return id, true
}

func userID(c *gin.Context) string {
	return middleware.UserID(c)
}
