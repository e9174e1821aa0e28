package ingest

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/envel/internal/model"
)

// ParseResult holds the output of parsing a single CSV export.
type ParseResult struct {
	Incomes   []model.Income
	Expenses  []model.Expense
	RowErrors int
	Err       error
}

// Accepted date layouts, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02.01.2006",
	"2006/01/02",
}

// ParseFile reads one bank CSV export. The first row is a header; columns
// are matched by name, case-insensitively. "date" and "amount" are
// required. Sign decides direction: negative amounts become expenses,
// positive ones incomes. Rows that fail to parse are counted, not fatal.
//
// Row IDs are derived from the file path and row content, so re-importing
// a changed file replaces its earlier rows instead of duplicating them.
func ParseFile(df DiscoveredFile, userID string) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return ParseResult{Err: fmt.Errorf("reading header: %w", err)}
	}
	cols := columnIndex(header)
	if cols["date"] < 0 || cols["amount"] < 0 {
		return ParseResult{Err: fmt.Errorf("%s: header needs date and amount columns", df.Path)}
	}

	var res ParseResult
	for rowNum := 1; ; rowNum++ {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.RowErrors++
			continue
		}

		date, ok := parseDate(field(rec, cols["date"]))
		if !ok {
			res.RowErrors++
			continue
		}
		amount, ok := parseSignedAmount(field(rec, cols["amount"]))
		if !ok || amount == 0 {
			res.RowErrors++
			continue
		}

		id := rowID(df.Path, rowNum, rec)
		desc := field(rec, cols["description"])
		hhmm := field(rec, cols["time"])

		if amount > 0 {
			res.Incomes = append(res.Incomes, model.Income{
				ID:     id,
				Date:   date,
				Time:   hhmm,
				Amount: amount,
				Kind:   model.KindNormal,
				UserID: userID,
				Source: firstNonEmpty(field(rec, cols["source"]), df.Source),
			})
		} else {
			res.Expenses = append(res.Expenses, model.Expense{
				ID:          id,
				Date:        date,
				Time:        hhmm,
				Amount:      -amount,
				Quantity:    1,
				Kind:        model.KindNormal,
				UserID:      userID,
				Category:    field(rec, cols["category"]),
				Description: desc,
			})
		}
	}

	return res
}

// columnIndex maps the known column names to their positions, -1 when
// absent. Common bank header aliases fold onto the canonical names.
func columnIndex(header []string) map[string]int {
	aliases := map[string]string{
		"date": "date", "fecha": "date", "booking date": "date",
		"amount": "amount", "importe": "amount", "value": "amount",
		"description": "description", "concepto": "description", "memo": "description",
		"category": "category", "categoria": "category",
		"source": "source", "account": "source",
		"time": "time",
	}
	cols := map[string]int{
		"date": -1, "amount": -1, "description": -1,
		"category": -1, "source": -1, "time": -1,
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if canonical, ok := aliases[key]; ok && cols[canonical] < 0 {
			cols[canonical] = i
		}
	}
	return cols
}

func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func parseDate(s string) (string, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// parseSignedAmount accepts "-12,34", "1.234,56", "1234.56" and plain
// integers. Thousands separators are stripped before the decimal comma is
// normalized.
func parseSignedAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		// Comma is the decimal separator; dots are thousands.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func rowID(path string, rowNum int, rec []string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%s", path, rowNum, strings.Join(rec, "|"))
	return "imp-" + hex.EncodeToString(h.Sum(nil))[:16]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
