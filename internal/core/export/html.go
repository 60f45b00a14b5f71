package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"mixmate/internal/pkg/common"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

type cardSection struct {
	Title string
	Body  template.HTML
}

type cardData struct {
	Name      string
	Brand     string
	Watermark string
	Sections  []cardSection
}

var cardTemplate = template.Must(template.New("card").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} | {{.Brand}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; background: #1d1a2f; color: #f4f1ea; margin: 0; padding: 24px; }
.card { max-width: 640px; margin: 0 auto; background: #2b2740; border-radius: 16px; padding: 24px; }
header { display: flex; justify-content: space-between; align-items: baseline; }
h1 { margin: 0; font-size: 28px; }
.brand { color: #f08a4b; font-style: italic; }
section h2 { color: #f08a4b; font-size: 18px; border-bottom: 1px solid #48425f; padding-bottom: 4px; }
footer { margin-top: 24px; font-size: 12px; color: #a9a3bd; text-align: center; }
</style>
</head>
<body>
<div class="card">
<header><h1>{{.Name}}</h1><span class="brand">{{.Brand}}</span></header>
{{range .Sections}}<section>
<h2>{{.Title}}</h2>
{{.Body}}</section>
{{end}}<footer>{{.Watermark}}</footer>
</div>
</body>
</html>
`))

// RenderHTML 產生分享卡片，只輸出有內容的章節
func RenderHTML(rec *common.SavedRecipe) ([]byte, error) {
	data := cardData{
		Name:      rec.Name,
		Brand:     brandName,
		Watermark: watermark,
	}
	for _, sec := range rec.Sections() {
		if strings.TrimSpace(sec.Content) == "" {
			continue
		}
		data.Sections = append(data.Sections, cardSection{
			Title: sec.Title,
			Body:  template.HTML(markdownToHTML(sec.Content)),
		})
	}

	var buf bytes.Buffer
	if err := cardTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render share card: %w", err)
	}
	return buf.Bytes(), nil
}

// markdownToHTML 將模型輸出的 Markdown 轉成 HTML，原始 HTML 一律略過
func markdownToHTML(md string) []byte {
	// parser 不可重複使用
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(md))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank})
	return markdown.Render(doc, renderer)
}
