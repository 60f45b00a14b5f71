package handlers

import (
	"net/http"

	"mixmate/internal/core/recipe"
	"mixmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// AIHandler AI 處理器
type AIHandler struct {
	drinks *recipe.DrinkService
}

// NewAIHandler 創建 AI 處理器
func NewAIHandler(drinks *recipe.DrinkService) *AIHandler {
	return &AIHandler{
		drinks: drinks,
	}
}

// CompleteRequest 任意 prompt 請求
type CompleteRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ExtractRequest 章節切分請求
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractResponse 章節切分結果
type ExtractResponse struct {
	Sections         map[string]string `json:"sections"`
	Tier             string            `json:"tier"`
	Parsed           bool              `json:"parsed"`
	KeywordFilled    []string          `json:"keyword_filled,omitempty"`
	ConclusionMerged bool              `json:"conclusion_merged"`
}

// Complete 送出 prompt 並切分回應
func (h *AIHandler) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	result, err := h.drinks.Complete(c.Request.Context(), req.Prompt)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Extract 切分已有的模型輸出
func (h *AIHandler) Extract(c *gin.Context) {
	var req ExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.WriteError(c, common.ErrInvalidRequest.Wrap(err))
		return
	}

	res := h.drinks.Extract(req.Text)
	c.JSON(http.StatusOK, ExtractResponse{
		Sections:         res.Sections,
		Tier:             res.Tier.String(),
		Parsed:           res.Found(),
		KeywordFilled:    res.KeywordFilled,
		ConclusionMerged: res.ConclusionMerged,
	})
}
