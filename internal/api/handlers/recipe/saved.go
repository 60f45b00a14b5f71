package recipe

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"

	"mixmate/internal/core/export"
	"mixmate/internal/core/sections"
	"mixmate/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SaveRequest 儲存食譜，sections 與 raw 擇一
type SaveRequest struct {
	Name     string            `json:"name"`
	Sections map[string]string `json:"sections"`
	Raw      string            `json:"raw"`
}

// RenameRequest 重新命名
type RenameRequest struct {
	Name string `json:"name"`
}

// RecipeSummary 列表項目
type RecipeSummary struct {
	common.SavedRecipe
	Preview string `json:"preview,omitempty"`
}

const previewLength = 80

// HandleListRecipes 列出已儲存的食譜
func (h *Handler) HandleListRecipes(c *gin.Context) {
	list, err := h.saved.List(c.Request.Context(), userID(c))
	if err != nil {
		common.WriteError(c, err)
		return
	}

	items := make([]RecipeSummary, len(list))
	for i, rec := range list {
		items[i] = RecipeSummary{SavedRecipe: rec, Preview: rec.Preview(previewLength)}
	}
	c.JSON(http.StatusOK, gin.H{"recipes": items, "count": len(items)})
}

// HandleSaveRecipe 儲存食譜
func (h *Handler) HandleSaveRecipe(c *gin.Context) {
	var req SaveRequest
	if !bindJSON(c, &req) {
		return
	}

	secs := sections.SectionMap(req.Sections)
	if len(secs) == 0 && strings.TrimSpace(req.Raw) != "" {
		secs = h.drinks.Extract(req.Raw).Sections
	}
	if len(secs) == 0 {
		common.WriteError(c, common.ErrInvalidRequest.WithMessage("sections or raw text is required"))
		return
	}

	rec, err := h.saved.Save(c.Request.Context(), userID(c), req.Name, secs)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// HandleGetRecipe 取得單一食譜
func (h *Handler) HandleGetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	rec, err := h.saved.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// HandleRenameRecipe 重新命名食譜
func (h *Handler) HandleRenameRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var req RenameRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.saved.Rename(c.Request.Context(), userID(c), id, req.Name)
	if err != nil {
		common.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// HandleDeleteRecipe 刪除食譜
func (h *Handler) HandleDeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	if err := h.saved.Delete(c.Request.Context(), userID(c), id); err != nil {
		common.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleExportRecipe 匯出 PDF 或 HTML 分享卡片
func (h *Handler) HandleExportRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	rec, err := h.saved.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		common.WriteError(c, err)
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "pdf"))
	switch format {
	case "pdf":
		var buf bytes.Buffer
		if err := export.RenderPDF(&buf, rec); err != nil {
			common.LogError("PDF export failed", zap.String("recipe_id", id), zap.Error(err))
			common.WriteError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.pdf"`, fileName(rec.Name)))
		c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	case "html":
		page, err := export.RenderHTML(rec)
		if err != nil {
			common.LogError("HTML export failed", zap.String("recipe_id", id), zap.Error(err))
			common.WriteError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	default:
		common.WriteError(c, common.ErrInvalidRequest.WithMessage("unsupported export format "+format))
	}
}

// fileName 產生安全的下載檔名
func fileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}
