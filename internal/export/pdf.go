package export

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"arai/internal/model"

	"github.com/go-pdf/fpdf"
)

const (
	lineHeight = 6.0
	margin     = 15.0
)

var (
	orderedItem = regexp.MustCompile(`^\d+\.\s+`)
	tableRule   = regexp.MustCompile(`^\|?\s*:?-{3,}`)
	emphasis    = strings.NewReplacer("**", "", "__", "", "`", "", "*", "")
)

// PDF writes the sections as an A4 document with page numbers in the footer
func PDF(w io.Writer, title string, sections []model.Section) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("AR.AI Marketing Intelligence", true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-margin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(cp1252Only(title)), "", "L", false)
	pdf.Ln(4)

	for _, s := range sections {
		if s.Title != "" {
			heading(pdf, tr, 2, s.Title)
		}
		for _, line := range strings.Split(strings.TrimSpace(s.Text), "\n") {
			writeLine(pdf, tr, line)
		}
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to build PDF: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// PDFBytes is PDF into a buffer, for attachments
func PDFBytes(title string, sections []model.Section) ([]byte, error) {
	var buf bytes.Buffer
	if err := PDF(&buf, title, sections); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, level int, text string) {
	size := 12.0
	switch level {
	case 1:
		size = 16
	case 2:
		size = 14
	}
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, lineHeight+1, tr(plainText(text)), "", "L", false)
	pdf.Ln(1)
}

func writeLine(pdf *fpdf.Fpdf, tr func(string) string, line string) {
	line = strings.TrimRight(line, " \t")
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		pdf.Ln(2)
		return
	case strings.HasPrefix(trimmed, "#"):
		level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
		heading(pdf, tr, level, strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
		return
	case tableRule.MatchString(trimmed):
		return
	}

	pdf.SetFont("Helvetica", "", 11)
	indent := float64(len(line)-len(strings.TrimLeft(line, " \t"))) * 1.5

	text := trimmed
	if strings.HasPrefix(text, "- ") || strings.HasPrefix(text, "* ") {
		text = "• " + text[2:]
		indent += 3
	} else if orderedItem.MatchString(text) {
		indent += 3
	}

	if indent > 0 {
		pdf.SetX(margin + indent)
	}
	pdf.MultiCell(0, lineHeight, tr(plainText(text)), "", "L", false)
}

// plainText drops inline markdown markers and anything the core fonts cannot show
func plainText(s string) string {
	return strings.TrimSpace(cp1252Only(emphasis.Replace(s)))
}

// cp1252 printable characters above Latin-1 control range
const cp1252Extras = "€‚ƒ„…†‡ˆ‰Š‹ŒŽ‘’“”•–—˜™š›œžŸ"

func cp1252Only(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case r >= 0x20 && r < 0x7f, r >= 0xa0 && r <= 0xff:
			return r
		case strings.ContainsRune(cp1252Extras, r):
			return r
		}
		return -1
	}, s)
}
