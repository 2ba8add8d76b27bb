package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"arai/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocationCSV(t *testing.T) {
	var buf bytes.Buffer
	err := AllocationCSV(&buf, []model.Allocation{
		{Channel: "Instagram", Amount: 33.33},
		{Channel: "Google Search", Amount: 33.33},
		{Channel: "Email, Newsletter", Amount: 33.34},
	})
	require.NoError(t, err)

	assert.Equal(t, strings.Join([]string{
		"channel,amount",
		"Instagram,33.33",
		"Google Search,33.33",
		`"Email, Newsletter",33.34`,
		"Total,100.00",
		"",
	}, "\n"), buf.String())
}

func TestAllocationCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, AllocationCSV(&buf, nil))
	assert.Equal(t, "channel,amount\nTotal,0.00\n", buf.String())
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	tests := []struct {
		brand string
		want  string
	}{
		{brand: "Cocoa Co", want: "arai_cocoa_co_2026-10-14.pdf"},
		{brand: "  L'Artisan & Co!", want: "arai_l_artisan_co_2026-10-14.pdf"},
		{brand: "Café 42", want: "arai_caf_42_2026-10-14.pdf"},
		{brand: "", want: "arai_strategy_2026-10-14.pdf"},
		{brand: "🍫", want: "arai_strategy_2026-10-14.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Filename(tt.brand, "pdf", now), tt.brand)
	}
}

func TestPDF(t *testing.T) {
	sections := []model.Section{
		{Title: "Marketing Strategy", Text: "### Objective\n\n**Cocoa Co** will grow 🍫 revenue.\n\n- Instagram\n- Email\n\n1. Acquisition\n2. Conversion"},
		{Title: "Content Calendar", Text: "| Week | Idea |\n|---|---|\n| 1 | Origin story |"},
		{Text: strings.Repeat("A long paragraph that needs wrapping. ", 400)},
	}

	data, err := PDFBytes("AR.AI Strategy Generated for Cocoa Co", sections)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data), "%%EOF")
}

func TestPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, "Empty", nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "**Bold** and *italic*", want: "Bold and italic"},
		{in: "Grow 🍫 fast 🚀", want: "Grow  fast"},
		{in: "`code` – “quoted” €5", want: "code – “quoted” €5"},
		{in: "Café\tau lait", want: "Café au lait"},
		{in: "日本 market", want: "market"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, plainText(tt.in), tt.in)
	}
}
