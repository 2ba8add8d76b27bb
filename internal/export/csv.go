// Package export turns session text and budget splits into downloadable files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"arai/internal/model"
)

// AllocationCSV writes one row per channel followed by a total row
func AllocationCSV(w io.Writer, allocations []model.Allocation) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"channel", "amount"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	var total float64
	for _, a := range allocations {
		total += a.Amount
		if err := writer.Write([]string{a.Channel, fmt.Sprintf("%.2f", a.Amount)}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	if err := writer.Write([]string{"Total", fmt.Sprintf("%.2f", total)}); err != nil {
		return fmt.Errorf("failed to write CSV record: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("CSV writer error: %w", err)
	}
	return nil
}

// Filename builds arai_<brand>_<date>.<ext> with the brand reduced to a slug
func Filename(brand, ext string, now time.Time) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(brand) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		slug = "strategy"
	}
	return fmt.Sprintf("arai_%s_%s.%s", slug, now.Format("2006-01-02"), ext)
}
