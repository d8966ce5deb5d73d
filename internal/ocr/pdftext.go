package ocr

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFText returns the embedded text layer of a PDF, line by line.
// Digitally generated receipts (email invoices, card statements) carry one,
// and reading it directly is both cheaper and more accurate than rendering
// the page and running recognition. Scanned PDFs have no usable layer and
// return an error so callers fall through to the Recognizer.
func ExtractPDFText(data []byte) (text string, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf text extraction crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening pdf: %w", err)
	}

	var lines []string
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
	}

	text = strings.Join(lines, "\n")
	if !isReadableText(text) {
		return "", fmt.Errorf("pdf has no usable text layer")
	}
	return text, nil
}

// isReadableText guards against identity-encoded fonts that extract as
// garbage: require some length and a majority of plain readable runes.
func isReadableText(text string) bool {
	if len(text) < 20 {
		return false
	}
	total, readable := 0, 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			strings.ContainsRune(".,:;-/()$€£%@#&'\"*", r) {
			readable++
		}
	}
	return float64(readable)/float64(total) > 0.6
}
