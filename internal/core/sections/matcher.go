package sections

import (
	"fmt"
	"regexp"
	"strings"
)

// Format 標題格式
type Format int

const (
	// FormatEmphasis **Title**
	FormatEmphasis Format = iota + 1
	// FormatColon Title:
	FormatColon
	// FormatMarkdown # Title
	FormatMarkdown
)

// String 實現 fmt.Stringer
func (f Format) String() string {
	switch f {
	case FormatEmphasis:
		return "emphasis"
	case FormatColon:
		return "colon"
	case FormatMarkdown:
		return "markdown"
	default:
		return "unknown"
	}
}

// Match 標題定位結果，只在單次擷取中使用
type Match struct {
	Title    string
	Position int
	Length   int // 標題記號長度
	Format   Format
}

// headingMatcher 針對單一標題預先編譯的比對器
type headingMatcher struct {
	format  Format
	pattern *regexp.Regexp
	group   int // 標題記號所在的子群組，0 表示整個匹配
}

// find 找出第一個符合的標題記號
func (m headingMatcher) find(text string) (pos, length int, ok bool) {
	loc := m.pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	start, end := loc[2*m.group], loc[2*m.group+1]
	if start < 0 {
		return 0, 0, false
	}
	return start, end - start, true
}

// newHeadingMatchers 依優先順序建立比對器：星號 > 冒號 > Markdown 標題
func newHeadingMatchers(title string) []headingMatcher {
	quoted := regexp.QuoteMeta(title)
	return []headingMatcher{
		{
			format:  FormatEmphasis,
			pattern: regexp.MustCompile(`(?i)\*\*` + quoted + `\*\*`),
		},
		{
			format:  FormatColon,
			pattern: regexp.MustCompile(`(?i)\b` + quoted + `:`),
		},
		{
			format:  FormatMarkdown,
			pattern: regexp.MustCompile(`(?i)(?:^|\n)(#{1,3}\s*` + quoted + `)\b`),
			group:   1,
		},
	}
}

// FindHeading 依優先順序尋找標題，回傳第一個成功的格式
func FindHeading(text, title string) (Match, bool) {
	return findHeading(newHeadingMatchers(title), text, title)
}

func findHeading(matchers []headingMatcher, text, title string) (Match, bool) {
	for _, m := range matchers {
		if pos, length, ok := m.find(text); ok {
			return Match{
				Title:    title,
				Position: pos,
				Length:   length,
				Format:   m.format,
			}, true
		}
	}
	return Match{}, false
}

// markdownRun Markdown 標題行沒有換行時的標題範圍
var markdownRun = regexp.MustCompile(`^#{1,3}\s*[A-Za-z\s]+`)

// contentStart 計算標題後內容的起點
func contentStart(text string, m Match) int {
	end := m.Position + m.Length
	if m.Format != FormatMarkdown {
		return end
	}

	if nl := strings.IndexByte(text[end:], '\n'); nl != -1 {
		return end + nl + 1
	}
	if run := markdownRun.FindString(text[m.Position:]); m.Position+len(run) > end {
		return m.Position + len(run)
	}
	return end
}

// sectionPatterns 第二層的正則組合
type sectionPatterns struct {
	emphasis *regexp.Regexp
	colon    *regexp.Regexp
}

func newSectionPatterns(title string) sectionPatterns {
	quoted := regexp.QuoteMeta(title)
	return sectionPatterns{
		emphasis: emphasisSection(quoted),
		colon:    regexp.MustCompile(`(?is)` + quoted + `:(.*?)(?:\n(?:[a-z]{2,}:|#|\*\*[a-z])|$)`),
	}
}

// emphasisSection **Title** 到下一個 **Word** 或文末
func emphasisSection(quoted string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?is)\*\*%s\*\*(.*?)(?:\*\*[a-z]{2,}\*\*|$)`, quoted))
}

// capture 回傳第一個子群組並去除空白
func capture(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// indexFold 不分大小寫搜尋 ASCII 關鍵字，回傳原文中的位元組位置
func indexFold(text, keyword string) int {
	n := len(keyword)
	if n == 0 {
		return -1
	}
	for i := 0; i+n <= len(text); i++ {
		if strings.EqualFold(text[i:i+n], keyword) {
			return i
		}
	}
	return -1
}
