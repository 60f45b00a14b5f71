package export

import (
	"fmt"
	"io"
	"strings"

	"mixmate/internal/pkg/common"

	"github.com/jung-kurt/gofpdf"
)

const (
	brandName = "MixMate"
	watermark = "Generated with MixMate - enjoy responsibly"
)

// RenderPDF 將食譜輸出為 PDF，每個章節一頁
func RenderPDF(w io.Writer, rec *common.SavedRecipe) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(rec.Name, true)
	pdf.SetCreator(brandName, true)

	// 內建字型只支援 cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.SetTextColor(40, 40, 40)
		pdf.CellFormat(130, 10, tr(rec.Name), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "I", 12)
		pdf.SetTextColor(200, 80, 40)
		pdf.CellFormat(0, 10, brandName, "", 1, "R", false, 0, "")
		pdf.Ln(4)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s  |  %d", watermark, pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	for _, sec := range rec.Sections() {
		pdf.AddPage()

		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 10, tr(sec.Title), "", 1, "L", false, 0, "")

		body := strings.TrimSpace(sec.Content)
		if body == "" {
			body = fmt.Sprintf("No %s available.", sec.Title)
		}
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(plainText(body)), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// plainText 去掉 PDF 無法呈現的 Markdown 記號
func plainText(s string) string {
	r := strings.NewReplacer("**", "", "__", "", "`", "")
	lines := strings.Split(r.Replace(s), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "#") {
			lines[i] = strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return strings.Join(lines, "\n")
}
