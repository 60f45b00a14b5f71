package common

import (
	"fmt"
	"strings"
	"time"
)

// DrinkType 飲品類型
type DrinkType string

const (
	DrinkCocktail DrinkType = "Cocktail"
	DrinkMocktail DrinkType = "Mocktail"
)

// ParseDrinkType 解析飲品類型，不分大小寫
func ParseDrinkType(s string) (DrinkType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cocktail":
		return DrinkCocktail, nil
	case "mocktail":
		return DrinkMocktail, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unsupported drink type %q", s))
	}
}

// IsAlcoholic 是否含酒精
func (d DrinkType) IsAlcoholic() bool {
	return d == DrinkCocktail
}

// DrinkRequest 飲品表單
type DrinkRequest struct {
	DrinkType      string   `json:"drink_type" binding:"required"`
	BaseAlcohol    string   `json:"base_alcohol,omitempty"`    // 基酒（僅 Cocktail）
	AlcoholBrand   string   `json:"alcohol_brand,omitempty"`   // 品牌（僅 Cocktail）
	FlavorProfile  []string `json:"flavor_profile,omitempty"`  // 風味（僅 Cocktail）
	BaseFlavor     string   `json:"base_flavor,omitempty"`     // 基底風味（僅 Mocktail）
	SweetnessLevel string   `json:"sweetness_level,omitempty"` // 甜度（僅 Mocktail）
	Mood           string   `json:"mood,omitempty"`
	GlassType      string   `json:"glass_type,omitempty"`
	Ingredients    string   `json:"ingredients,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
}

// GenerationResult 生成結果
type GenerationResult struct {
	DrinkType DrinkType         `json:"drink_type"`
	Raw       string            `json:"raw"`
	Sections  map[string]string `json:"sections"`
	Tier      string            `json:"tier"`
	Parsed    bool              `json:"parsed"` // false 時前端直接顯示 raw
	CacheHit  bool              `json:"cache_hit"`
}

// SavedRecipe 儲存的食譜，未偵測到的章節不輸出
type SavedRecipe struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Introduction string    `json:"introduction,omitempty"`
	Ingredients  string    `json:"ingredients,omitempty"`
	Steps        string    `json:"steps,omitempty"`
	Precautions  string    `json:"precautions,omitempty"`
	BonusTips    string    `json:"bonusTips,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RecipeSection 匯出時使用的章節
type RecipeSection struct {
	Title   string
	Content string
}

// Sections 依標準順序回傳章節
func (r SavedRecipe) Sections() []RecipeSection {
	return []RecipeSection{
		{Title: "Introduction", Content: r.Introduction},
		{Title: "Ingredients", Content: r.Ingredients},
		{Title: "Steps", Content: r.Steps},
		{Title: "Precautions", Content: r.Precautions},
		{Title: "Bonus Tips", Content: r.BonusTips},
	}
}

// Preview 列表用的簡短介紹
func (r SavedRecipe) Preview(limit int) string {
	runes := []rune(r.Introduction)
	if len(runes) <= limit {
		return r.Introduction
	}
	return string(runes[:limit]) + "..."
}
