// Package ledger turns raw import rows into canonical entries and derives
// spending and net-worth series from them.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingDescription = errors.New("missing description")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
)

// Field names tried in order when reading a raw row.
var (
	importDescriptionKeys = []string{"Description", "description", "memo", "Name"}
	importAmountKeys      = []string{"Amount", "amount"}
	importDateKeys        = []string{"Date", "date", "posted"}

	ledgerDateKeys        = []string{"date", "Date", "posted", "POSTED"}
	ledgerAmountKeys      = []string{"amount", "Amount", "debit", "credit"}
	ledgerDescriptionKeys = []string{"description", "Description", "memo", "Name"}
	ledgerCategoryKeys    = []string{"category", "Category"}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
}

// RawRow is one row of an import file, keyed by its column headers.
type RawRow map[string]any

// Entry is a canonical transaction record.
type Entry struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category,omitempty"`
	RawFields   RawRow          `json:"raw_fields,omitempty"`
}

// Skip reports an input row that was dropped during normalization.
type Skip struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type Normalizer struct {
	logger *slog.Logger
}

func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// NormalizeImport converts bank export rows. Rows without a description,
// with an unparseable amount or with an unparseable date are skipped.
func (n *Normalizer) NormalizeImport(rows []RawRow) ([]Entry, []Skip) {
	return n.normalizeAll(rows, NormalizeImportRow)
}

// NormalizeLedger converts loosely shaped ledger rows. Only rows without a
// usable date are skipped; a missing amount counts as zero.
func (n *Normalizer) NormalizeLedger(rows []RawRow) ([]Entry, []Skip) {
	return n.normalizeAll(rows, NormalizeLedgerRow)
}

func (n *Normalizer) normalizeAll(rows []RawRow, fn func(RawRow) (Entry, error)) ([]Entry, []Skip) {
	entries := make([]Entry, 0, len(rows))
	var skipped []Skip

	for i, row := range rows {
		entry, err := fn(row)
		if err != nil {
			n.logger.Warn("skipping invalid transaction row",
				"index", i,
				"reason", err.Error())
			skipped = append(skipped, Skip{Index: i, Reason: err.Error()})
			continue
		}
		entries = append(entries, entry)
	}

	return entries, skipped
}

// NormalizeImportRow maps a single bank export row to an Entry.
func NormalizeImportRow(row RawRow) (Entry, error) {
	description := strings.TrimSpace(stringValue(firstTruthy(row, importDescriptionKeys)))
	if description == "" {
		return Entry{}, ErrMissingDescription
	}

	amount, err := ParseAmount(firstTruthy(row, importAmountKeys))
	if err != nil {
		return Entry{}, err
	}

	date, err := ParseDate(firstTruthy(row, importDateKeys))
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Date:        date,
		Description: description,
		Amount:      amount,
		RawFields:   row,
	}, nil
}

// NormalizeLedgerRow maps a single ledger row to an Entry.
func NormalizeLedgerRow(row RawRow) (Entry, error) {
	date, err := ParseDate(firstTruthy(row, ledgerDateKeys))
	if err != nil {
		return Entry{}, err
	}

	amount, err := ParseAmount(firstNonNil(row, ledgerAmountKeys))
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Date:        date,
		Description: strings.TrimSpace(stringValue(firstTruthy(row, ledgerDescriptionKeys))),
		Amount:      amount,
		Category:    strings.TrimSpace(stringValue(firstTruthy(row, ledgerCategoryKeys))),
		RawFields:   row,
	}, nil
}

// ParseAmount accepts numbers and numeric strings such as "$1,234.50" or
// "(12.00)". A nil value is zero.
func ParseAmount(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return val, nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case float32:
		return decimal.NewFromFloat32(val), nil
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case json.Number:
		return parseAmountString(val.String())
	case string:
		return parseAmountString(val)
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrInvalidAmount, v)
	}
}

func parseAmountString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// ParseDate accepts time values, epoch milliseconds and the common export
// layouts. The result is truncated to the UTC calendar day.
func ParseDate(v any) (time.Time, error) {
	var t time.Time

	switch val := v.(type) {
	case time.Time:
		t = val
	case float64:
		t = time.UnixMilli(int64(val))
	case int64:
		t = time.UnixMilli(val)
	case int:
		t = time.UnixMilli(int64(val))
	case string:
		parsed, err := parseDateString(val)
		if err != nil {
			return time.Time{}, err
		}
		t = parsed
	default:
		return time.Time{}, ErrInvalidDate
	}

	if t.IsZero() {
		return time.Time{}, ErrInvalidDate
	}

	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func parseDateString(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// firstTruthy returns the first value that is not nil, empty, zero or false.
func firstTruthy(row RawRow, keys []string) any {
	for _, key := range keys {
		v, ok := row[key]
		if !ok || !truthy(v) {
			continue
		}
		return v
	}
	return nil
}

// firstNonNil returns the first value present and not nil.
func firstNonNil(row RawRow, keys []string) any {
	for _, key := range keys {
		if v, ok := row[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case float64:
		return val != 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case json.Number:
		return val.String() != "" && val.String() != "0"
	default:
		return true
	}
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
