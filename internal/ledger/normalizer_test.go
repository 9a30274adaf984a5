package ledger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type NormalizerTestSuite struct {
	suite.Suite
	logs       *bytes.Buffer
	normalizer *Normalizer
}

func TestNormalizerSuite(t *testing.T) {
	suite.Run(t, new(NormalizerTestSuite))
}

func (s *NormalizerTestSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.normalizer = NewNormalizer(slog.New(slog.NewTextHandler(s.logs, nil)))
}

func (s *NormalizerTestSuite) TestNormalizeImportRow_FieldFallbacks() {
	testCases := []struct {
		name        string
		row         RawRow
		description string
		amount      string
		date        string
	}{
		{
			name:        "capitalized headers",
			row:         RawRow{"Description": "Coffee", "Amount": "-4.50", "Date": "2024-03-05"},
			description: "Coffee", amount: "-4.5", date: "2024-03-05",
		},
		{
			name:        "lowercase headers",
			row:         RawRow{"description": "Rent", "amount": -1500.0, "date": "03/01/2024"},
			description: "Rent", amount: "-1500", date: "2024-03-01",
		},
		{
			name:        "memo and posted",
			row:         RawRow{"memo": "Payroll", "amount": "2,500.00", "posted": "2024-02-29T10:00:00Z"},
			description: "Payroll", amount: "2500", date: "2024-02-29",
		},
		{
			name:        "name column and missing amount",
			row:         RawRow{"Name": "Adjustment", "Date": "Jan 2, 2024"},
			description: "Adjustment", amount: "0", date: "2024-01-02",
		},
		{
			name:        "empty Description falls through to memo",
			row:         RawRow{"Description": "", "memo": "Fallback", "Amount": "$12.00", "Date": "2024/05/06"},
			description: "Fallback", amount: "12", date: "2024-05-06",
		},
		{
			name:        "parenthesized negative",
			row:         RawRow{"Description": "Refund reversal", "Amount": "(19.99)", "Date": "2024-04-01"},
			description: "Refund reversal", amount: "-19.99", date: "2024-04-01",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			entry, err := NormalizeImportRow(tc.row)
			s.Require().NoError(err)
			s.Equal(tc.description, entry.Description)
			s.True(decimal.RequireFromString(tc.amount).Equal(entry.Amount), "amount %s", entry.Amount)
			s.Equal(tc.date, entry.Date.Format("2006-01-02"))
			s.Equal(tc.row, entry.RawFields)
		})
	}
}

func (s *NormalizerTestSuite) TestNormalizeImportRow_Invalid() {
	testCases := []struct {
		name string
		row  RawRow
		err  error
	}{
		{"no description", RawRow{"Amount": "1", "Date": "2024-01-01"}, ErrMissingDescription},
		{"blank description", RawRow{"Description": "   ", "Amount": "1", "Date": "2024-01-01"}, ErrMissingDescription},
		{"bad amount", RawRow{"Description": "x", "Amount": "abc", "Date": "2024-01-01"}, ErrInvalidAmount},
		{"bad date", RawRow{"Description": "x", "Amount": "1", "Date": "not a date"}, ErrInvalidDate},
		{"missing date", RawRow{"Description": "x", "Amount": "1"}, ErrInvalidDate},
		{"impossible date", RawRow{"Description": "x", "Amount": "1", "Date": "2024-13-40"}, ErrInvalidDate},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := NormalizeImportRow(tc.row)
			s.ErrorIs(err, tc.err)
		})
	}
}

func (s *NormalizerTestSuite) TestNormalizeImport_SkipsAndLogs() {
	rows := []RawRow{
		{"Description": gofakeit.Company(), "Amount": "-10", "Date": "2024-01-10"},
		{"Description": "", "Amount": "-10", "Date": "2024-01-10"},
		{"Description": gofakeit.Company(), "Amount": "-20", "Date": "garbage"},
		{"Description": gofakeit.Company(), "Amount": "30", "Date": "2024-01-12"},
	}

	entries, skipped := s.normalizer.NormalizeImport(rows)

	s.Len(entries, 2)
	s.Require().Len(skipped, 2)
	s.Equal(1, skipped[0].Index)
	s.Equal(2, skipped[1].Index)
	s.Contains(s.logs.String(), "skipping invalid transaction row")
}

func (s *NormalizerTestSuite) TestNormalizeLedgerRow() {
	s.Run("debit column and upper-case POSTED", func() {
		entry, err := NormalizeLedgerRow(RawRow{"POSTED": "2024-06-03", "debit": 42.0, "memo": "Gym"})
		s.NoError(err)
		s.Equal("2024-06", MonthKey(entry.Date))
		s.True(decimal.NewFromInt(42).Equal(entry.Amount))
		s.Equal("Gym", entry.Description)
	})

	s.Run("zero amount is kept", func() {
		entry, err := NormalizeLedgerRow(RawRow{"date": "2024-06-03", "amount": 0.0, "debit": 9.0})
		s.NoError(err)
		s.True(entry.Amount.IsZero())
	})

	s.Run("category carried through", func() {
		entry, err := NormalizeLedgerRow(RawRow{"date": "2024-06-03", "amount": "5", "Category": "Fun"})
		s.NoError(err)
		s.Equal("Fun", entry.Category)
	})

	s.Run("missing date is rejected", func() {
		_, err := NormalizeLedgerRow(RawRow{"amount": "5"})
		s.ErrorIs(err, ErrInvalidDate)
	})
}

func (s *NormalizerTestSuite) TestParseAmount_Types() {
	d, err := ParseAmount(json.Number("12.34"))
	s.NoError(err)
	s.Equal("12.34", d.String())

	d, err = ParseAmount(7)
	s.NoError(err)
	s.Equal("7", d.String())

	_, err = ParseAmount(true)
	s.ErrorIs(err, ErrInvalidAmount)
}

func (s *NormalizerTestSuite) TestParseDate_TruncatesToDay() {
	local := time.Date(2024, 7, 4, 23, 59, 0, 0, time.UTC)
	d, err := ParseDate(local)
	s.NoError(err)
	s.Equal(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate(float64(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC).UnixMilli()))
	s.NoError(err)
	s.Equal("2024-01-15", d.Format("2006-01-02"))
}
