package recipe

import (
	"net/http"

	"mixmate/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleGenerateDrink 依表單生成飲品
func (h *Handler) HandleGenerateDrink(c *gin.Context) {
	common.LogInfo("開始處理飲品生成請求",
		zap.String("request_id", requestid.Get(c)),
		zap.String("client_ip", c.ClientIP()),
	)

	var req common.DrinkRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.drinks.Generate(c.Request.Context(), userID(c), &req)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
