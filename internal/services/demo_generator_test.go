package services

import (
	"testing"
	"time"

	"pfm-api/internal/ledger"
	"pfm-api/internal/rules"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoGenerator_RowsNormalizeCleanly(t *testing.T) {
	gen := NewDemoGenerator(42)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	rows := gen.GenerateRows(start, end)
	require.NotEmpty(t, rows)

	entries, skipped := ledger.NewNormalizer(nil).NormalizeImport(rows)
	assert.Empty(t, skipped)
	assert.Len(t, entries, len(rows))

	payroll := 0
	for _, e := range entries {
		assert.False(t, e.Date.Before(start))
		assert.False(t, e.Date.After(end))
		if e.Description == "ACME CORP PAYROLL DIRECT DEP" {
			payroll++
			assert.True(t, e.Amount.IsPositive())
		}
	}
	assert.Equal(t, 6, payroll)
}

func TestDemoGenerator_SameSeedSameRows(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)

	first := NewDemoGenerator(7).GenerateRows(start, end)
	second := NewDemoGenerator(7).GenerateRows(start, end)

	assert.Equal(t, first, second)
}

func TestDemoGenerator_CategoriesCategorizeDemoRows(t *testing.T) {
	gen := NewDemoGenerator(3)
	categories := gen.GenerateCategories()

	ruleCategories := make([]rules.Category, 0, len(categories))
	ids := make(map[string]string, len(categories))
	for i := range categories {
		categories[i].ID = uuid.New()
		ids[categories[i].ID.String()] = categories[i].Name
		for _, pattern := range categories[i].Rules {
			require.NoError(t, rules.ValidatePattern(pattern), pattern)
		}
		ruleCategories = append(ruleCategories, categories[i].ToRuleCategory())
	}

	engine := rules.NewEngine(ruleCategories, nil)

	match, ok := engine.Match("ACME CORP PAYROLL DIRECT DEP")
	require.True(t, ok)
	assert.Equal(t, "Income", ids[match.CategoryID])

	match, ok = engine.Match("SHELL GAS 5521")
	require.True(t, ok)
	assert.Equal(t, "Transportation", ids[match.CategoryID])

	_, ok = engine.Match("CORNER HARDWARE")
	assert.False(t, ok)
}
