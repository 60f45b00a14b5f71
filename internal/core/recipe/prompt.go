package recipe

import (
	"fmt"
	"strings"

	"mixmate/internal/pkg/common"
)

// headingInstruction 要求模型使用固定的粗體標題
func headingInstruction(titles []string) string {
	marked := make([]string, len(titles))
	for i, t := range titles {
		marked[i] = "**" + t + "**"
	}
	return fmt.Sprintf(`Please provide the following sections with EXACT headings using the format "**Heading**" (with double asterisks): %s. Keep each section separate.`,
		strings.Join(marked, ", "))
}

// buildCocktailPrompt 建立調酒 prompt
func buildCocktailPrompt(req *common.DrinkRequest, titles []string) string {
	base := common.OrNA(req.BaseAlcohol)
	if brand := strings.TrimSpace(req.AlcoholBrand); brand != "" {
		base = fmt.Sprintf("%s (%s)", base, brand)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s with the following details:\n", common.DrinkCocktail)
	fmt.Fprintf(&b, "Base Alcohol: %s\n", base)
	fmt.Fprintf(&b, "Flavor Profile: %s\n", common.OrNA(common.StringSliceToString(req.FlavorProfile)))
	fmt.Fprintf(&b, "Mood: %s\n", common.OrNA(req.Mood))
	fmt.Fprintf(&b, "Glass Type: %s\n", common.OrNA(req.GlassType))
	fmt.Fprintf(&b, "Ingredients: %s\n", common.OrNA(req.Ingredients))
	fmt.Fprintf(&b, "Difficulty: %s\n", common.OrNA(req.Difficulty))
	b.WriteString(headingInstruction(titles))
	return b.String()
}

// buildMocktailPrompt 建立無酒精飲品 prompt
func buildMocktailPrompt(req *common.DrinkRequest, titles []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a %s (non-alcoholic) with the following details:\n", common.DrinkMocktail)
	fmt.Fprintf(&b, "Base Flavor: %s\n", common.OrNA(req.BaseFlavor))
	fmt.Fprintf(&b, "Mood: %s\n", common.OrNA(req.Mood))
	fmt.Fprintf(&b, "Sweetness Level: %s\n", common.OrNA(req.SweetnessLevel))
	fmt.Fprintf(&b, "Ingredients: %s\n", common.OrNA(req.Ingredients))
	fmt.Fprintf(&b, "Glass Type: %s\n", common.OrNA(req.GlassType))
	fmt.Fprintf(&b, "Difficulty: %s\n", common.OrNA(req.Difficulty))
	b.WriteString("Do not include any alcoholic ingredients.\n")
	b.WriteString(headingInstruction(titles))
	return b.String()
}

// BuildPrompt 依飲品類型建立 prompt
func BuildPrompt(drinkType common.DrinkType, req *common.DrinkRequest, titles []string) string {
	if drinkType.IsAlcoholic() {
		return buildCocktailPrompt(req, titles)
	}
	return buildMocktailPrompt(req, titles)
}
