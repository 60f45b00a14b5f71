package sections

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// 預設標題
const (
	TitleIntroduction = "Introduction"
	TitleIngredients  = "Ingredients"
	TitleSteps        = "Steps"
	TitlePrecautions  = "Precautions"
	TitleBonus        = "Bonus"
	TitleConclusion   = "Conclusion"
)

// DefaultTitles 預設的章節順序
var DefaultTitles = []string{
	TitleIntroduction,
	TitleIngredients,
	TitleSteps,
	TitlePrecautions,
	TitleBonus,
}

// ErrInvalidOptions 章節設定錯誤
var ErrInvalidOptions = errors.New("invalid section options")

// Tier 產生結果的擷取層級
type Tier int

const (
	// TierNone 沒有任何標題被找到
	TierNone Tier = iota
	// TierPositional 第一層：位置掃描
	TierPositional
	// TierPattern 第二層：正則配對
	TierPattern
	// TierKeyword 第三層：關鍵字補位
	TierKeyword
)

// String 實現 fmt.Stringer
func (t Tier) String() string {
	switch t {
	case TierPositional:
		return "positional"
	case TierPattern:
		return "pattern"
	case TierKeyword:
		return "keyword"
	default:
		return "none"
	}
}

// SectionMap 標題到內容的對應
type SectionMap map[string]string

// Get 依標題取得內容
func (m SectionMap) Get(title string) (string, bool) {
	v, ok := m[title]
	return v, ok
}

// KeywordRule 最後一層的關鍵字配對，只用來補缺
type KeywordRule struct {
	Title string
	Start string
	End   string
}

// Options 擷取器設定
type Options struct {
	Titles          []string
	TrailingTitle   string // Conclusion 併入的章節，空字串表示不合併
	ConclusionAlias string
	KeywordRules    []KeywordRule
}

// DefaultOptions 預設設定
func DefaultOptions() Options {
	return Options{
		Titles:          append([]string(nil), DefaultTitles...),
		TrailingTitle:   TitleBonus,
		ConclusionAlias: TitleConclusion,
		KeywordRules: []KeywordRule{
			{Title: TitleIntroduction, Start: "introduction", End: "ingredients"},
		},
	}
}

// Pruned 回傳去掉不在標題清單中的合併目標與關鍵字規則後的設定
func (o Options) Pruned() Options {
	out := o.WithoutUnknownRules()
	if !contains(o.Titles, o.TrailingTitle) {
		out.TrailingTitle = ""
	}
	return out
}

// WithoutUnknownRules 只去掉標題清單中沒有的關鍵字規則，合併目標保持不變
func (o Options) WithoutUnknownRules() Options {
	out := o
	out.KeywordRules = nil
	for _, r := range o.KeywordRules {
		if contains(o.Titles, r.Title) {
			out.KeywordRules = append(out.KeywordRules, r)
		}
	}
	return out
}

// Result 擷取結果
type Result struct {
	Sections         SectionMap
	Tier             Tier
	KeywordFilled    []string // 由關鍵字補上的標題
	ConclusionMerged bool
}

// Found 是否有任何章節
func (r Result) Found() bool {
	return len(r.Sections) > 0
}

// titleEntry 單一標題預先編譯的資料
type titleEntry struct {
	title    string
	headings []headingMatcher
	patterns sectionPatterns
}

// Extractor 章節擷取器，建立後不再變動，可同時被多個 goroutine 使用
type Extractor struct {
	entries    []titleEntry
	trailing   string
	alias      string
	conclusion *headingMatcher
	aliasBody  *regexp.Regexp
	rules      []KeywordRule
}

// New 建立擷取器
func New(opts Options) (*Extractor, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	e := &Extractor{
		entries:  make([]titleEntry, 0, len(opts.Titles)),
		trailing: opts.TrailingTitle,
		rules:    append([]KeywordRule(nil), opts.KeywordRules...),
	}
	for _, title := range opts.Titles {
		e.entries = append(e.entries, titleEntry{
			title:    title,
			headings: newHeadingMatchers(title),
			patterns: newSectionPatterns(title),
		})
	}

	if opts.TrailingTitle != "" && opts.ConclusionAlias != "" {
		m := newHeadingMatchers(opts.ConclusionAlias)[0]
		e.alias = opts.ConclusionAlias
		e.conclusion = &m
		e.aliasBody = emphasisSection(regexp.QuoteMeta(opts.ConclusionAlias))
	}

	return e, nil
}

// MustNew 建立擷取器，設定錯誤時 panic
func MustNew(opts Options) *Extractor {
	e, err := New(opts)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract 以給定標題擷取章節
func Extract(text string, titles []string) (SectionMap, error) {
	opts := DefaultOptions()
	opts.Titles = titles

	e, err := New(opts.Pruned())
	if err != nil {
		return nil, err
	}
	return e.Extract(text).Sections, nil
}

// Titles 回傳設定的標題
func (e *Extractor) Titles() []string {
	titles := make([]string, len(e.entries))
	for i, entry := range e.entries {
		titles[i] = entry.title
	}
	return titles
}

// Extract 擷取章節，不會失敗，最差回傳空結果
func (e *Extractor) Extract(text string) Result {
	result := Result{Sections: SectionMap{}}
	if strings.TrimSpace(text) == "" {
		return result
	}

	sections, conclusion, bounded := e.positional(text)
	if len(sections) > 0 {
		result.Tier = TierPositional
	} else {
		sections = e.pattern(text)
		if len(sections) > 0 {
			result.Tier = TierPattern
		}
	}

	filled := e.keyword(text, sections)
	if result.Tier == TierNone && len(filled) > 0 {
		result.Tier = TierKeyword
	}
	result.KeywordFilled = filled

	if !bounded {
		conclusion, bounded = e.conclusionBody(text)
	}
	if bounded {
		e.mergeConclusion(sections, conclusion)
		result.ConclusionMerged = true
		// 只有 Conclusion 時由正則配對產生
		if result.Tier == TierNone {
			result.Tier = TierPattern
		}
	}
	result.Sections = sections
	return result
}

// positional 第一層：找出每個標題的位置，依位置排序後切分。
// Conclusion 在此作為邊界時，一併回傳它到下一個標題或文末的內容。
func (e *Extractor) positional(text string) (sections SectionMap, conclusion string, bounded bool) {
	matches := make([]Match, 0, len(e.entries)+1)
	for _, entry := range e.entries {
		if m, ok := findHeading(entry.headings, text, entry.title); ok {
			matches = append(matches, m)
		}
	}
	if len(matches) == 0 {
		return SectionMap{}, "", false
	}

	// Conclusion 只作為邊界，內容另外合併
	if e.conclusion != nil {
		if pos, length, ok := e.conclusion.find(text); ok {
			matches = append(matches, Match{
				Title:    e.alias,
				Position: pos,
				Length:   length,
				Format:   FormatEmphasis,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Position < matches[j].Position
	})

	sections = make(SectionMap, len(matches))
	for i, m := range matches {
		end := len(text)
		if i < len(matches)-1 {
			end = matches[i+1].Position
		}
		start := contentStart(text, m)
		if start > end {
			start = end
		}
		content := strings.TrimSpace(text[start:end])

		if e.conclusion != nil && m.Title == e.alias {
			conclusion, bounded = content, true
			continue
		}
		sections[m.Title] = content
	}
	return sections, conclusion, bounded
}

// pattern 第二層：每個標題依序嘗試星號與冒號格式
func (e *Extractor) pattern(text string) SectionMap {
	sections := SectionMap{}
	for _, entry := range e.entries {
		if content, ok := capture(entry.patterns.emphasis, text); ok {
			sections[entry.title] = content
			continue
		}
		if content, ok := capture(entry.patterns.colon, text); ok {
			sections[entry.title] = content
		}
	}
	return sections
}

// keyword 第三層：只補空缺的標題
func (e *Extractor) keyword(text string, sections SectionMap) []string {
	var filled []string
	for _, rule := range e.rules {
		if sections[rule.Title] != "" {
			continue
		}

		start := indexFold(text, rule.Start)
		if start == -1 {
			continue
		}
		end := indexFold(text, rule.End)
		from := start + len(rule.Start)
		if end <= start || from > end {
			continue
		}

		content := strings.TrimSpace(text[from:end])
		if content == "" {
			continue
		}
		sections[rule.Title] = content
		filled = append(filled, rule.Title)
	}
	return filled
}

// conclusionBody 沒有位置邊界時以正則擷取 Conclusion 內容
func (e *Extractor) conclusionBody(text string) (string, bool) {
	if e.conclusion == nil {
		return "", false
	}
	return capture(e.aliasBody, text)
}

// mergeConclusion 將 Conclusion 併入結尾章節
func (e *Extractor) mergeConclusion(sections SectionMap, content string) {
	if existing := sections[e.trailing]; existing != "" {
		sections[e.trailing] = existing + "\n\n" + content
	} else {
		sections[e.trailing] = content
	}
}

// validateOptions 檢查設定
func validateOptions(opts Options) error {
	if len(opts.Titles) == 0 {
		return fmt.Errorf("%w: titles must not be empty", ErrInvalidOptions)
	}

	seen := make(map[string]bool, len(opts.Titles))
	for _, title := range opts.Titles {
		if strings.TrimSpace(title) == "" {
			return fmt.Errorf("%w: empty title", ErrInvalidOptions)
		}
		key := strings.ToLower(title)
		if seen[key] {
			return fmt.Errorf("%w: duplicate title %q", ErrInvalidOptions, title)
		}
		seen[key] = true
	}

	if opts.TrailingTitle != "" {
		if !contains(opts.Titles, opts.TrailingTitle) {
			return fmt.Errorf("%w: trailing title %q is not a configured title", ErrInvalidOptions, opts.TrailingTitle)
		}
		if seen[strings.ToLower(opts.ConclusionAlias)] {
			return fmt.Errorf("%w: conclusion alias %q collides with a title", ErrInvalidOptions, opts.ConclusionAlias)
		}
	}

	for _, rule := range opts.KeywordRules {
		if !contains(opts.Titles, rule.Title) {
			return fmt.Errorf("%w: keyword rule title %q is not a configured title", ErrInvalidOptions, rule.Title)
		}
		if rule.Start == "" || rule.End == "" {
			return fmt.Errorf("%w: keyword rule for %q needs both keywords", ErrInvalidOptions, rule.Title)
		}
	}

	return nil
}

func contains(titles []string, title string) bool {
	for _, t := range titles {
		if t == title {
			return true
		}
	}
	return false
}
