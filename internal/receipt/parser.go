// Package receipt extracts candidate line items from noisy receipt text
// (OCR output or pasted) and aggregates assigned items into itemized expense
// drafts. Everything here is a pure function over its inputs.
package receipt

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/splitrail/tripledger/internal/models"
)

// Amounts outside this range are treated as stray quantities, item codes or
// transaction IDs rather than prices.
const (
	minAmount = 0.5
	maxAmount = 100000
)

var (
	// A header line opens the items section when it names an item column and
	// a quantity/price column.
	itemHeaderRe   = regexp.MustCompile(`(?i)\b(item|items|description|product|particulars)\b`)
	columnHeaderRe = regexp.MustCompile(`(?i)\b(qty|quantity|price|rate|amount|total|mrp)\b`)

	numberRe = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)

	dateRe = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b|\b\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2}\b`)
	timeRe = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(:\d{2})?\s*(am|pm)?\b`)
	refRe  = regexp.MustCompile(`(?i)\b(auth|approval|terminal|merchant|order|trans|txn|ref|reference|invoice|receipt|tel|phone|fax)\b`)

	leadJunkRe  = regexp.MustCompile(`^[\s\-*•·#>|:=~.]+`)
	leadQtyRe   = regexp.MustCompile(`(?i)^(?:qty|quantity)\b[.:]?\s*`)
	leadNumRe   = regexp.MustCompile(`^\d+(?:\.\d+)?\s*[.):xX*]?\s+`)
	leadMultRe  = regexp.MustCompile(`(?i)^x\s+`)
	trailMultRe = regexp.MustCompile(`(?i)\s+x$`)
	qtyWordRe   = regexp.MustCompile(`(?i)\b(qty|quantity)\b[.:]?`)
	spaceRe     = regexp.MustCompile(`\s+`)
)

// excludedKeywords is the fixed footer/metadata vocabulary. A line containing
// any of these is never an item; inside a bounded items section it also marks
// the end of the section once items have been collected.
var excludedKeywords = []string{
	"subtotal", "sub-total", "sub total", "total", "tax", "gst", "vat", "cgst", "sgst",
	"tip", "gratuity", "service charge", "discount", "cash", "card", "credit", "debit",
	"change", "balance", "due", "visa", "mastercard", "amex", "upi", "paypal",
	"payment", "paid", "tender", "thank", "welcome", "cashier",
	"usd", "eur", "gbp", "inr",
}

// ParseText extracts candidate line items from raw receipt text.
//
// Two passes run in a fallback chain: a section-bounded pass that only
// considers lines between an items header and the first footer keyword, then
// a whole-document pass with the same per-line filtering but no gating. The
// first pass to yield anything wins. Zero items is a valid result, not an
// error.
//
// Each accepted item gets a synthesized ID and a suggested assignee inferred
// from its label. Duplicate names (case-insensitive) keep the first
// occurrence.
func ParseText(text string, participants []models.Participant) []models.LineItem {
	lines := splitLines(text)

	items := extract(lines, true)
	if len(items) == 0 {
		items = extract(lines, false)
	}

	for i := range items {
		items[i].ID = uuid.New().String()
		items[i].AssignedTo = Suggest(items[i].Name, participants)
	}
	return items
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func extract(lines []string, requireSection bool) []models.LineItem {
	var items []models.LineItem
	seen := make(map[string]bool)
	inSection := !requireSection

	for _, line := range lines {
		if requireSection && !inSection {
			if isItemsHeader(line) {
				inSection = true
			}
			continue
		}

		if hasExcludedKeyword(line) {
			if requireSection && len(items) > 0 {
				// First footer keyword after collected items closes the section.
				break
			}
			continue
		}

		item, ok := parseLine(line)
		if !ok {
			continue
		}

		key := strings.ToLower(item.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, item)
	}

	return items
}

func isItemsHeader(line string) bool {
	return itemHeaderRe.MatchString(line) && columnHeaderRe.MatchString(line)
}

func hasExcludedKeyword(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range excludedKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// parseLine applies the per-line heuristics: at least two numeric tokens
// (quantity/code plus price), a plausible amount near the end of the line,
// and a name that survives cleanup.
//
// Date and time patterns disqualify the whole line, not just the name. The
// name is truncated at the first digit and so can never carry a date itself;
// a line with a date anywhere is treated as receipt metadata even when it
// also looks like an item.
func parseLine(line string) (models.LineItem, bool) {
	tokens := numberRe.FindAllStringIndex(line, -1)
	if len(tokens) < 2 {
		return models.LineItem{}, false
	}

	if dateRe.MatchString(line) || timeRe.MatchString(line) {
		return models.LineItem{}, false
	}

	amount, ok := pickAmount(line, tokens)
	if !ok {
		return models.LineItem{}, false
	}

	name := cleanName(line)
	if !isPlausibleName(name) {
		return models.LineItem{}, false
	}

	return models.LineItem{Name: name, Amount: amount}, true
}

// pickAmount scans numeric tokens from the end of the line backward and
// returns the first whose value is strictly inside the plausible price range.
// A percent sign adjoining the chosen token disqualifies the whole line
// (discount/tax rows).
func pickAmount(line string, tokens [][]int) (float64, bool) {
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := line[tokens[i][0]:tokens[i][1]]
		v, err := strconv.ParseFloat(strings.ReplaceAll(tok, ",", ""), 64)
		if err != nil {
			continue
		}
		if v > minAmount && v < maxAmount {
			if percentAdjoins(line, tokens[i]) {
				return 0, false
			}
			return v, true
		}
	}
	return 0, false
}

func percentAdjoins(line string, token []int) bool {
	for i := token[1]; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t':
			continue
		case '%':
			return true
		default:
			return false
		}
	}
	return false
}

// cleanName returns the item label: the text preceding the first digit, with
// leading bullets/markup, multiplier tokens ("2x"), quantity labels and
// numeric list prefixes stripped, and whitespace squeezed.
func cleanName(line string) string {
	s := leadJunkRe.ReplaceAllString(line, "")

	for {
		if m := leadQtyRe.FindString(s); m != "" {
			s = s[len(m):]
			continue
		}
		if m := leadNumRe.FindString(s); m != "" {
			s = s[len(m):]
			continue
		}
		break
	}

	if i := strings.IndexFunc(s, unicode.IsDigit); i >= 0 {
		s = s[:i]
	}

	s = leadMultRe.ReplaceAllString(s, "")
	s = trailMultRe.ReplaceAllString(s, "")
	s = qtyWordRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.Trim(s, " -–—:.,*@/")
}

func isPlausibleName(name string) bool {
	if utf8.RuneCountInString(name) < 2 {
		return false
	}
	if strings.IndexFunc(name, unicode.IsLetter) < 0 {
		// Purely numeric or symbolic after cleanup.
		return false
	}
	if refRe.MatchString(name) {
		// Authorization/terminal/merchant/phone reference rows.
		return false
	}
	return true
}
