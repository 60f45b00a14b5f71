package sections

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefaultExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := New(DefaultOptions())
	require.NoError(t, err)
	return e
}

// TestExtract_AllEmphasisHeadings 五個星號標題依標準順序出現
func TestExtract_AllEmphasisHeadings(t *testing.T) {
	e := newDefaultExtractor(t)
	text := "**Introduction**\nHi\n**Ingredients**\nRum\n**Steps**\nPour\n**Precautions**\nSip slow\n**Bonus**\nEnjoy"

	result := e.Extract(text)

	assert.Equal(t, TierPositional, result.Tier)
	assert.Equal(t, SectionMap{
		"Introduction": "Hi",
		"Ingredients":  "Rum",
		"Steps":        "Pour",
		"Precautions":  "Sip slow",
		"Bonus":        "Enjoy",
	}, result.Sections)
	assert.Empty(t, result.KeywordFilled)
	assert.False(t, result.ConclusionMerged)
	assert.True(t, result.Found())
}

// TestExtract_MixedFormats 冒號與星號混用
func TestExtract_MixedFormats(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("Introduction: Hello\n**Ingredients**\nVodka")

	assert.Equal(t, TierPositional, result.Tier)
	assert.Equal(t, SectionMap{
		"Introduction": "Hello",
		"Ingredients":  "Vodka",
	}, result.Sections)
}

// TestExtract_OrderByPosition 依文字位置而非標題清單排序
func TestExtract_OrderByPosition(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("**Steps**\nMix\n**Introduction**\nHey")

	assert.Equal(t, SectionMap{
		"Steps":        "Mix",
		"Introduction": "Hey",
	}, result.Sections)
	assert.NotContains(t, result.Sections["Steps"], "**")
}

// TestExtract_MarkdownHeadings Markdown 標題從下一行開始
func TestExtract_MarkdownHeadings(t *testing.T) {
	e := newDefaultExtractor(t)
	text := "## Introduction\nHello there\n### Steps\nShake hard\nStrain\n# Precautions\nDrink water"

	result := e.Extract(text)

	assert.Equal(t, TierPositional, result.Tier)
	assert.Equal(t, SectionMap{
		"Introduction": "Hello there",
		"Steps":        "Shake hard\nStrain",
		"Precautions":  "Drink water",
	}, result.Sections)
}

// TestExtract_MarkdownHeadingWithoutNewline 最後一行的 Markdown 標題沒有內容
func TestExtract_MarkdownHeadingWithoutNewline(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("**Steps**\nmix\n## Bonus")

	assert.Equal(t, "mix", result.Sections["Steps"])
	content, ok := result.Sections.Get("Bonus")
	assert.True(t, ok)
	assert.Empty(t, content)
}

// TestExtract_FormatPriority 同一標題有多種格式時星號優先
func TestExtract_FormatPriority(t *testing.T) {
	e := newDefaultExtractor(t)
	text := "Steps: first draft\n**Steps**\nfinal version"

	result := e.Extract(text)

	// 星號標題在後面，冒號格式不會被採用
	assert.Equal(t, "final version", result.Sections["Steps"])
}

// TestExtract_TrailingTextCaptured 最後一個標題後的內容完整保留
func TestExtract_TrailingTextCaptured(t *testing.T) {
	e := newDefaultExtractor(t)
	text := "**Bonus**\nGarnish with mint.\n\n**Serving**\nCold.\nCheers!"

	result := e.Extract(text)

	assert.Equal(t, "Garnish with mint.\n\n**Serving**\nCold.\nCheers!", result.Sections["Bonus"])
}

// TestExtract_Empty 空字串與空白字串
func TestExtract_Empty(t *testing.T) {
	e := newDefaultExtractor(t)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		result := e.Extract(text)
		assert.Empty(t, result.Sections)
		assert.NotNil(t, result.Sections)
		assert.Equal(t, TierNone, result.Tier)
		assert.False(t, result.Found())
	}
}

// TestExtract_NoHeadings 沒有任何可辨識內容
func TestExtract_NoHeadings(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("Just pour whatever you like into a glass.")

	assert.Empty(t, result.Sections)
	assert.Equal(t, TierNone, result.Tier)
}

// TestExtract_PatternFallback 第一層沒有結果時改用第二層
func TestExtract_PatternFallback(t *testing.T) {
	e := newDefaultExtractor(t)

	// 標題前沒有字界，第一層的冒號格式不成立
	result := e.Extract("PreIngredients: rum and lime\nMore: nothing")

	assert.Equal(t, TierPattern, result.Tier)
	assert.Equal(t, SectionMap{"Ingredients": "rum and lime"}, result.Sections)
}

// TestExtract_KeywordSweep 只有一般文字時只補 Introduction
func TestExtract_KeywordSweep(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("This introduction is short and the ingredients are simple. Steps are easy.")

	assert.Equal(t, TierKeyword, result.Tier)
	assert.Equal(t, SectionMap{"Introduction": "is short and the"}, result.Sections)
	assert.Equal(t, []string{"Introduction"}, result.KeywordFilled)
}

// TestExtract_KeywordSweepFillsGapAfterPositional 第一層有結果時仍會補缺
func TestExtract_KeywordSweepFillsGapAfterPositional(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("A quick introduction to the drink.\n**Ingredients**\nGin")

	assert.Equal(t, TierPositional, result.Tier)
	assert.Equal(t, "Gin", result.Sections["Ingredients"])
	assert.Equal(t, "to the drink.\n**", result.Sections["Introduction"])
	assert.Equal(t, []string{"Introduction"}, result.KeywordFilled)
}

// TestExtract_KeywordSweepWrongOrder ingredients 出現在前面時不補
func TestExtract_KeywordSweepWrongOrder(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("The ingredients come before the introduction here.")

	assert.Empty(t, result.Sections)
	assert.Equal(t, TierNone, result.Tier)
}

// TestExtract_ConclusionMerge Conclusion 併入 Bonus
func TestExtract_ConclusionMerge(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("**Bonus**\nTip1\n**Conclusion**\nTip2")

	assert.Equal(t, "Tip1\n\nTip2", result.Sections["Bonus"])
	assert.True(t, result.ConclusionMerged)
	_, ok := result.Sections["Conclusion"]
	assert.False(t, ok)
}

// TestExtract_ConclusionWithoutBonus 沒有 Bonus 時直接設定
func TestExtract_ConclusionWithoutBonus(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("**Steps**\nStir\n**Conclusion**\nEnjoy responsibly")

	assert.Equal(t, "Stir", result.Sections["Steps"])
	assert.Equal(t, "Enjoy responsibly", result.Sections["Bonus"])
}

// TestExtract_ConclusionBeforeNextHeading Conclusion 內容停在下一個星號標題
func TestExtract_ConclusionBeforeNextHeading(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("**Conclusion**\nBye\n**Steps**\nShake")

	assert.Equal(t, "Shake", result.Sections["Steps"])
	assert.Equal(t, "Bye", result.Sections["Bonus"])
}

// TestExtract_ConclusionKeepsTrailingText Conclusion 之後的非標題段落保留在 Bonus
func TestExtract_ConclusionKeepsTrailingText(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("**Bonus**\nTip1\n**Conclusion**\nTip2\n**Cheers**\nServe cold and enjoy")

	assert.Equal(t, TierPositional, result.Tier)
	assert.True(t, result.ConclusionMerged)
	assert.Equal(t, SectionMap{
		"Bonus": "Tip1\n\nTip2\n**Cheers**\nServe cold and enjoy",
	}, result.Sections)
}

// TestExtract_ConclusionOnly 只有 Conclusion 時以正則配對擷取
func TestExtract_ConclusionOnly(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("**Conclusion**\nBye\n**Cheers**\nSee you")

	assert.Equal(t, TierPattern, result.Tier)
	assert.True(t, result.Found())
	assert.True(t, result.ConclusionMerged)
	assert.Equal(t, SectionMap{"Bonus": "Bye"}, result.Sections)
}

// TestExtract_SingleLetterLabelsDoNotEndSections 單一字母的標記不會結束章節
func TestExtract_SingleLetterLabelsDoNotEndSections(t *testing.T) {
	e := newDefaultExtractor(t)

	tests := []struct {
		name string
		text string
		want SectionMap
	}{
		{
			name: "emphasis",
			text: "**Conclusion**\nPick **A** or **B**\n**Cheers**\nBye",
			want: SectionMap{"Bonus": "Pick **A** or **B**"},
		},
		{
			name: "colon",
			text: "PreIngredients: rum\nA: lime\nMore: nothing",
			want: SectionMap{"Ingredients": "rum\nA: lime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Extract(tt.text)
			assert.Equal(t, TierPattern, result.Tier)
			assert.Equal(t, tt.want, result.Sections)
		})
	}
}

// TestExtract_CaseInsensitive 標題不分大小寫
func TestExtract_CaseInsensitive(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("**INTRODUCTION**\nLoud\ningredients: ice")

	assert.Equal(t, SectionMap{
		"Introduction": "Loud",
		"Ingredients":  "ice",
	}, result.Sections)
}

// TestExtract_Idempotent 重複擷取結果相同
func TestExtract_Idempotent(t *testing.T) {
	e := newDefaultExtractor(t)
	text := "## Introduction\nA drink\n**Ingredients**\nRum\nSteps: shake\n**Conclusion**\nDone"

	first := e.Extract(text)
	second := e.Extract(text)

	assert.Equal(t, first, second)
}

// TestExtract_Concurrent 同一個擷取器可以同時使用
func TestExtract_Concurrent(t *testing.T) {
	e := newDefaultExtractor(t)
	text := "**Introduction**\nHi\n**Steps**\nPour"
	want := e.Extract(text)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, e.Extract(text))
		}()
	}
	wg.Wait()
}

// TestExtract_NonASCII 非 ASCII 內容不影響位置計算
func TestExtract_NonASCII(t *testing.T) {
	e := newDefaultExtractor(t)

	result := e.Extract("İntro İİ introduction — café crème ingredients: Cachaça")

	assert.Equal(t, "Cachaça", result.Sections["Ingredients"])
	assert.Equal(t, "— café crème", result.Sections["Introduction"])
}

// TestExtractFunc 以標題清單直接擷取
func TestExtractFunc(t *testing.T) {
	sections, err := Extract("**Garnish**\nLime\n**Glass**\nCoupe", []string{"Glass", "Garnish"})
	require.NoError(t, err)
	assert.Equal(t, SectionMap{"Garnish": "Lime", "Glass": "Coupe"}, sections)

	_, err = Extract("anything", nil)
	assert.True(t, errors.Is(err, ErrInvalidOptions))
}

// TestNew_InvalidOptions 設定錯誤在建立時回報
func TestNew_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"empty titles", func(o *Options) { o.Titles = nil }},
		{"blank title", func(o *Options) { o.Titles = append(o.Titles, "  ") }},
		{"duplicate title", func(o *Options) { o.Titles = append(o.Titles, "steps") }},
		{"unknown trailing", func(o *Options) { o.TrailingTitle = "Tips" }},
		{"alias collides", func(o *Options) { o.ConclusionAlias = "Steps" }},
		{"unknown keyword title", func(o *Options) {
			o.KeywordRules = []KeywordRule{{Title: "Tips", Start: "a", End: "b"}}
		}},
		{"blank keyword", func(o *Options) {
			o.KeywordRules = []KeywordRule{{Title: "Steps", Start: "steps"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			tt.mutate(&opts)
			_, err := New(opts)
			assert.ErrorIs(t, err, ErrInvalidOptions)
		})
	}
}

// TestMustNew 設定錯誤時 panic
func TestMustNew(t *testing.T) {
	assert.Panics(t, func() { MustNew(Options{}) })
	assert.NotPanics(t, func() { MustNew(DefaultOptions()) })
}

// TestExtract_WithoutConclusionMerge 沒有結尾章節時不合併
func TestExtract_WithoutConclusionMerge(t *testing.T) {
	opts := DefaultOptions()
	opts.TrailingTitle = ""
	e, err := New(opts)
	require.NoError(t, err)

	result := e.Extract("**Bonus**\nTip1\n**Conclusion**\nTip2")

	assert.False(t, result.ConclusionMerged)
	assert.Equal(t, "Tip1\n**Conclusion**\nTip2", result.Sections["Bonus"])
}

// TestExtractor_Titles 回傳設定的標題副本
func TestExtractor_Titles(t *testing.T) {
	e := newDefaultExtractor(t)

	titles := e.Titles()
	assert.Equal(t, DefaultTitles, titles)

	titles[0] = "changed"
	assert.Equal(t, "Introduction", e.Titles()[0])
	assert.True(t, strings.HasPrefix(TierKeyword.String(), "key"))
}

func TestOptions_Pruned(t *testing.T) {
	opts := DefaultOptions()
	opts.Titles = []string{TitleSteps, TitlePrecautions}

	_, err := New(opts)
	require.ErrorIs(t, err, ErrInvalidOptions)

	pruned := opts.Pruned()
	assert.Empty(t, pruned.TrailingTitle)
	assert.Empty(t, pruned.KeywordRules)
	// 原設定不受影響
	assert.Len(t, opts.KeywordRules, 1)

	_, err = New(pruned)
	assert.NoError(t, err)
}

func TestOptions_WithoutUnknownRules(t *testing.T) {
	opts := DefaultOptions()
	opts.Titles = []string{TitleSteps, TitlePrecautions}

	kept := opts.WithoutUnknownRules()
	assert.Empty(t, kept.KeywordRules)
	assert.Equal(t, TitleBonus, kept.TrailingTitle)

	// 合併目標拼錯時仍然失敗
	_, err := New(kept)
	assert.ErrorIs(t, err, ErrInvalidOptions)

	opts.Titles = append(opts.Titles, TitleBonus)
	_, err = New(opts.WithoutUnknownRules())
	assert.NoError(t, err)
}
