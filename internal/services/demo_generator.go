package services

import (
	"math/rand"
	"time"

	"pfm-api/internal/ledger"
	"pfm-api/internal/models"

	"github.com/shopspring/decimal"
)

const (
	demoDateLayout    = "2006-01-02"
	demoMaxDailyBuys  = 3
	demoRefundPercent = 4
	demoSalaryDay1    = 1
	demoSalaryDay2    = 15
	demoRentDay       = 1
	demoUtilityDay    = 20
)

type demoMerchant struct {
	Name string
	Low  float64
	High float64
}

type demoGenerator struct {
	merchants []demoMerchant
	rng       *rand.Rand
}

// NewDemoGenerator returns a generator of synthetic history. A zero seed
// seeds from the clock.
func NewDemoGenerator(seed int64) DemoGeneratorInterface {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &demoGenerator{
		merchants: demoMerchantPool(),
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// demoMerchantPool mixes merchants the demo categories cover with a few
// they do not, so demo data leaves some rows uncategorized
func demoMerchantPool() []demoMerchant {
	return []demoMerchant{
		{"SAFEWAY #1432", 18, 160},
		{"TRADER JOE'S #552", 15, 120},
		{"WHOLE FOODS MARKET", 20, 180},
		{"STARBUCKS STORE 0921", 4, 14},
		{"CHIPOTLE 1187", 10, 28},
		{"MCDONALDS F2231", 6, 18},
		{"AMAZON MKTPLACE PMTS", 12, 140},
		{"TARGET 00028", 15, 110},
		{"WALMART SUPERCENTER", 10, 90},
		{"UBER TRIP", 9, 45},
		{"LYFT RIDE", 8, 40},
		{"SHELL GAS 5521", 30, 70},
		{"NETFLIX.COM", 15.49, 15.49},
		{"SPOTIFY USA", 10.99, 10.99},
		{"AMC CINEMA 12", 12, 40},
		{"CVS PHARMACY 8812", 6, 60},
		{"WALGREENS 4410", 5, 45},
		{"BLUE BOTTLE COFFEE", 5, 12},
		{"CORNER HARDWARE", 8, 75},
		{"CITY PARKING METER", 2, 12},
	}
}

func (g *demoGenerator) amount(low, high float64) decimal.Decimal {
	return decimal.NewFromFloat(low + g.rng.Float64()*(high-low)).Round(2)
}

func demoRow(date time.Time, description string, amount decimal.Decimal) ledger.RawRow {
	return ledger.RawRow{
		"Date":        date.Format(demoDateLayout),
		"Description": description,
		"Amount":      amount.StringFixed(2),
	}
}

// GenerateRows produces bank export rows between start and end inclusive:
// twice monthly salary, monthly rent and utilities, and daily purchases
func (g *demoGenerator) GenerateRows(start, end time.Time) []ledger.RawRow {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	rows := make([]ledger.RawRow, 0)
	salary := g.amount(2800, 3600)
	rent := decimal.NewFromInt(1500)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		switch day.Day() {
		case demoSalaryDay1, demoSalaryDay2:
			rows = append(rows, demoRow(day, "ACME CORP PAYROLL DIRECT DEP", salary))
		}
		if day.Day() == demoRentDay {
			rows = append(rows, demoRow(day, "RENT PAYMENT - OAK ST LANDLORD", rent.Neg()))
		}
		if day.Day() == demoUtilityDay {
			rows = append(rows,
				demoRow(day, "PG&E ELECTRIC AUTOPAY", g.amount(60, 140).Neg()),
				demoRow(day, "COMCAST INTERNET", decimal.NewFromFloat(79.99).Neg()),
			)
		}

		for i := g.rng.Intn(demoMaxDailyBuys + 1); i > 0; i-- {
			merchant := g.merchants[g.rng.Intn(len(g.merchants))]
			amount := g.amount(merchant.Low, merchant.High)
			if g.rng.Intn(100) < demoRefundPercent {
				rows = append(rows, demoRow(day, "REFUND "+merchant.Name, amount))
				continue
			}
			rows = append(rows, demoRow(day, merchant.Name, amount.Neg()))
		}
	}

	return rows
}

// GenerateCategories returns budget categories with rules covering the
// demo merchants. UserID is left for the caller to set.
func (g *demoGenerator) GenerateCategories() []models.Category {
	return []models.Category{
		{Name: "Income", PlannedAmount: decimal.Zero, Rules: models.StringList{`payroll|direct dep`}},
		{Name: "Housing", PlannedAmount: decimal.NewFromInt(1500), Rules: models.StringList{`^rent payment`}},
		{Name: "Utilities", PlannedAmount: decimal.NewFromInt(250), Rules: models.StringList{`electric`, `internet|cable`}},
		{Name: "Groceries", PlannedAmount: decimal.NewFromInt(450), Rules: models.StringList{`safeway|trader joe|whole foods`}},
		{Name: "Restaurants", PlannedAmount: decimal.NewFromInt(200), Rules: models.StringList{`starbucks|chipotle|mcdonalds`}},
		{Name: "Shopping", PlannedAmount: decimal.NewFromInt(250), Rules: models.StringList{`amazon|target|walmart`}},
		{Name: "Transportation", PlannedAmount: decimal.NewFromInt(150), Rules: models.StringList{`uber|lyft`, `\bgas\b`}},
		{Name: "Entertainment", PlannedAmount: decimal.NewFromInt(60), Rules: models.StringList{`netflix|spotify|cinema`}},
		{Name: "Health", PlannedAmount: decimal.NewFromInt(80), Rules: models.StringList{`pharmacy|walgreens`}},
	}
}
