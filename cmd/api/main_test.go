package main

import (
	"testing"

	"mixmate/internal/core/sections"
	"mixmate/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractor(t *testing.T) {
	e, err := newExtractor(&config.SectionsConfig{
		Titles:          []string{"Introduction", "Ingredients", "Steps", "Precautions", "Bonus"},
		TrailingTitle:   "Bonus",
		ConclusionAlias: "Conclusion",
	})
	require.NoError(t, err)

	result := e.Extract("**Bonus**\nTip1\n**Conclusion**\nTip2")
	assert.True(t, result.ConclusionMerged)
	assert.Equal(t, "Tip1\n\nTip2", result.Sections["Bonus"])
}

func TestNewExtractor_UnknownTrailingTitle(t *testing.T) {
	_, err := newExtractor(&config.SectionsConfig{
		Titles:          []string{"Introduction", "Steps", "Bonus"},
		TrailingTitle:   "Bonsu",
		ConclusionAlias: "Conclusion",
	})
	assert.ErrorIs(t, err, sections.ErrInvalidOptions)
}

func TestNewExtractor_DropsDefaultRuleForMissingTitle(t *testing.T) {
	// 預設的 Introduction 關鍵字規則不應讓沒有 Introduction 的設定失敗
	e, err := newExtractor(&config.SectionsConfig{
		Titles:        []string{"Steps", "Bonus"},
		TrailingTitle: "Bonus",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Steps", "Bonus"}, e.Titles())
}
