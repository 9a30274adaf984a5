package ledger

import (
	"errors"
	"regexp"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	MonthLayout   = "2006-01"
	Uncategorized = "Uncategorized"
)

var (
	ErrInvalidMonth = errors.New("invalid month format, use YYYY-MM")

	monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
)

// MonthlyPoint is a per-month total.
type MonthlyPoint struct {
	Month  string          `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

type CategorySpend struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type NetWorthPoint struct {
	Month string          `json:"month"`
	Value decimal.Decimal `json:"value"`
}

type CashFlowPoint struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

type Balances struct {
	Cash        decimal.Decimal `json:"cash"`
	Investments decimal.Decimal `json:"investments"`
	Debt        decimal.Decimal `json:"debt"`
}

// NetWorth is cash plus investments minus debt.
func (b Balances) NetWorth() decimal.Decimal {
	return b.Cash.Add(b.Investments).Sub(b.Debt)
}

// MonthKey formats t as YYYY-MM.
func MonthKey(t time.Time) string {
	return t.Format(MonthLayout)
}

// ParseMonth validates a YYYY-MM string and returns the first instant of
// that month in UTC.
func ParseMonth(month string) (time.Time, error) {
	if !monthPattern.MatchString(month) {
		return time.Time{}, ErrInvalidMonth
	}
	t, err := time.Parse(MonthLayout, month)
	if err != nil {
		return time.Time{}, ErrInvalidMonth
	}
	return t, nil
}

// MonthlyTotals sums signed amounts per calendar month, oldest first.
// Entries without a date are ignored.
func MonthlyTotals(entries []Entry) []MonthlyPoint {
	return groupByMonth(entries, func(e Entry) (decimal.Decimal, bool) {
		return e.Amount, true
	})
}

// MonthlySpent reports how much was spent per month: the absolute value of
// the sum of negative amounts. Months without expenses are omitted.
func MonthlySpent(entries []Entry) []MonthlyPoint {
	points := groupByMonth(entries, func(e Entry) (decimal.Decimal, bool) {
		if !e.Amount.IsNegative() {
			return decimal.Zero, false
		}
		return e.Amount, true
	})
	for i := range points {
		points[i].Amount = points[i].Amount.Abs()
	}
	return points
}

func groupByMonth(entries []Entry, pick func(Entry) (decimal.Decimal, bool)) []MonthlyPoint {
	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		amount, ok := pick(e)
		if !ok {
			continue
		}
		key := MonthKey(e.Date)
		totals[key] = totals[key].Add(amount)
	}

	points := make([]MonthlyPoint, 0, len(totals))
	for month, amount := range totals {
		points = append(points, MonthlyPoint{Month: month, Amount: amount})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Month < points[j].Month
	})
	return points
}

// CategoryActuals returns spending per category for one YYYY-MM month.
// Only expenses count; entries without a category are grouped under
// Uncategorized. The largest spend comes first; ties sort by name.
func CategoryActuals(entries []Entry, month string) ([]CategorySpend, error) {
	if _, err := ParseMonth(month); err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Date.IsZero() || MonthKey(e.Date) != month || !e.Amount.IsNegative() {
			continue
		}
		name := e.Category
		if name == "" {
			name = Uncategorized
		}
		totals[name] = totals[name].Add(e.Amount)
	}

	actuals := make([]CategorySpend, 0, len(totals))
	for name, sum := range totals {
		actuals = append(actuals, CategorySpend{Category: name, Amount: sum.Abs()})
	}
	sort.Slice(actuals, func(i, j int) bool {
		if c := actuals[i].Amount.Cmp(actuals[j].Amount); c != 0 {
			return c > 0
		}
		return actuals[i].Category < actuals[j].Category
	})
	return actuals, nil
}

// NetWorthHistory walks the monthly points in order starting from the
// current net worth and subtracts each month's positive total. This is an
// approximation and not a reconstruction of historical balances.
func NetWorthHistory(balances Balances, points []MonthlyPoint) []NetWorthPoint {
	history := make([]NetWorthPoint, 0, len(points))
	base := balances.NetWorth()
	for _, p := range points {
		if p.Amount.IsPositive() {
			base = base.Sub(p.Amount)
		}
		history = append(history, NetWorthPoint{Month: p.Month, Value: base})
	}
	return history
}

// CashFlowStart is the first day of the oldest calendar month in a window
// of months whole months ending with the month of now.
func CashFlowStart(now time.Time, months int) time.Time {
	if months < 1 {
		months = 1
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -(months - 1), 0)
}

// CashFlow splits income and expenses per month for entries dated from
// CashFlowStart up to now.
func CashFlow(entries []Entry, now time.Time, months int) []CashFlowPoint {
	since := CashFlowStart(now, months)

	byMonth := make(map[string]*CashFlowPoint)
	for _, e := range entries {
		if e.Date.IsZero() || e.Date.Before(since) || e.Date.After(now) {
			continue
		}
		key := MonthKey(e.Date)
		point, ok := byMonth[key]
		if !ok {
			point = &CashFlowPoint{Month: key}
			byMonth[key] = point
		}
		if e.Amount.IsPositive() {
			point.Income = point.Income.Add(e.Amount)
		} else {
			point.Expenses = point.Expenses.Add(e.Amount.Abs())
		}
	}

	flow := make([]CashFlowPoint, 0, len(byMonth))
	for _, p := range byMonth {
		flow = append(flow, *p)
	}
	sort.Slice(flow, func(i, j int) bool {
		return flow[i].Month < flow[j].Month
	})
	return flow
}
