package rules

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RulesTestSuite struct {
	suite.Suite
	logs   *bytes.Buffer
	logger *slog.Logger
}

func TestRulesSuite(t *testing.T) {
	suite.Run(t, new(RulesTestSuite))
}

func (s *RulesTestSuite) SetupTest() {
	s.logs = &bytes.Buffer{}
	s.logger = slog.New(slog.NewTextHandler(s.logs, nil))
}

func (s *RulesTestSuite) TestValidatePattern() {
	testCases := []struct {
		name    string
		pattern string
		err     error
	}{
		{"literal", "uber", nil},
		{"alternation", "coffee|starbucks", nil},
		{"bounded repeat", `\d{2,4}`, nil},
		{"optional inside plus", "(a?)+", nil},
		{"empty", "", ErrEmptyPattern},
		{"too long", strings.Repeat("a", MaxPatternLength+1), ErrPatternTooLong},
		{"unbalanced", "(", ErrInvalidPattern},
		{"bad class", "[z-a]", ErrInvalidPattern},
		{"nested plus", "(a+)+", ErrNestedQuantifier},
		{"nested counted", "(x{2,})+", ErrNestedQuantifier},
		{"nested star", `(\w*)*`, ErrNestedQuantifier},
		{"too many operators", "a?b?c?d?e?f?g?h?i?j?k?", ErrPatternTooComplex},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := ValidatePattern(tc.pattern)
			if tc.err == nil {
				s.NoError(err)
				return
			}
			s.ErrorIs(err, tc.err)
		})
	}
}

func (s *RulesTestSuite) TestCompilePattern_CaseInsensitive() {
	re, err := CompilePattern("whole foods")
	s.Require().NoError(err)
	s.True(re.MatchString("WHOLE FOODS MARKET #12"))

	_, err = CompilePattern("(a+)+$")
	s.ErrorIs(err, ErrNestedQuantifier)
}

func (s *RulesTestSuite) categories() []Category {
	return []Category{
		{ID: "2", Name: "Transport", Patterns: []string{"uber", "lyft"}},
		{ID: "1", Name: "Food", Patterns: []string{"uber eats", "cafe"}},
	}
}

func (s *RulesTestSuite) TestEngine_MatchOrder() {
	engine := NewEngine(s.categories(), s.logger)

	match, ok := engine.Match("UBER EATS order 1234")
	s.Require().True(ok)
	s.Equal("1", match.CategoryID)
	s.Equal("uber eats", match.Pattern)

	match, ok = engine.Match("Uber trip")
	s.Require().True(ok)
	s.Equal("2", match.CategoryID)

	_, ok = engine.Match("Payroll deposit")
	s.False(ok)
}

func (s *RulesTestSuite) TestEngine_SameNameOrdersByID() {
	engine := NewEngine([]Category{
		{ID: "b", Name: "Fun", Patterns: []string{"cinema"}},
		{ID: "a", Name: "Fun", Patterns: []string{"cinema"}},
	}, s.logger)

	match, ok := engine.Match("Cinema tickets")
	s.Require().True(ok)
	s.Equal("a", match.CategoryID)
}

func (s *RulesTestSuite) TestEngine_SkipsInvalidPatterns() {
	engine := NewEngine([]Category{
		{ID: "1", Name: "Broken", Patterns: []string{"(", "(a+)+"}},
		{ID: "2", Name: "Shopping", Patterns: []string{"amazon"}},
	}, s.logger)

	match, ok := engine.Match("AMAZON MKTP")
	s.Require().True(ok)
	s.Equal("2", match.CategoryID)
	s.Contains(s.logs.String(), "skipping invalid categorization rule")
}

func (s *RulesTestSuite) TestEngine_ApplyOnlyUncategorized() {
	engine := NewEngine(s.categories(), s.logger)
	txs := []Transaction{
		{ID: "t1", Description: "Uber ride"},
		{ID: "t2", Description: "Blue Bottle Cafe", CategoryID: "custom"},
		{ID: "t3", Description: "Corner cafe"},
		{ID: "t4", Description: "Electric bill"},
	}

	assignments := engine.Apply(txs)

	s.Require().Len(assignments, 2)
	s.Equal(Assignment{TransactionID: "t1", CategoryID: "2", Pattern: "uber"}, assignments[0])
	s.Equal(Assignment{TransactionID: "t3", CategoryID: "1", Pattern: "cafe"}, assignments[1])
	s.Equal("custom", txs[1].CategoryID)
}

func (s *RulesTestSuite) TestEngine_ApplyIsIdempotent() {
	engine := NewEngine(s.categories(), s.logger)
	txs := []Transaction{
		{ID: "t1", Description: "Lyft"},
		{ID: "t2", Description: "cafe"},
		{ID: "t3", Description: "nothing"},
	}

	s.Equal(2, engine.ApplyInPlace(txs))
	s.Equal("2", txs[0].CategoryID)
	s.Equal("1", txs[1].CategoryID)
	s.Empty(txs[2].CategoryID)

	s.Equal(0, engine.ApplyInPlace(txs))
	s.Empty(engine.Apply(txs))
}

func (s *RulesTestSuite) TestEngine_NoCategories() {
	engine := NewEngine(nil, nil)
	s.Empty(engine.Apply([]Transaction{{ID: "t1", Description: "anything"}}))
}

func (s *RulesTestSuite) TestExtractKeywords() {
	s.Equal([]string{"starbucks", "coffee", "mall"}, ExtractKeywords("Starbucks Coffee at the Mall"))
	s.Equal([]string{"coffee", "coffee", "shop"}, ExtractKeywords("Coffee  coffee shop"))
	s.Equal([]string{"coffee", "shop"}, UniqueKeywords("Coffee  coffee shop"))
	s.Empty(ExtractKeywords("a an the"))
	s.Empty(ExtractKeywords(""))
}

func (s *RulesTestSuite) TestExtractKeywords_DropsOverlongWords() {
	long := strings.Repeat("x", MaxKeywordLength+1)
	edge := strings.Repeat("y", MaxKeywordLength)

	s.Equal([]string{"amazon", edge, "refund"}, ExtractKeywords("AMAZON "+long+" "+edge+" refund"))
	s.Empty(ExtractKeywords(long))
}

func (s *RulesTestSuite) TestRankSuggestion() {
	s.Run("highest total wins", func() {
		best, ok := RankSuggestion([]string{"coffee", "shop"}, []KeywordScore{
			{Keyword: "coffee", CategoryID: "A", Score: 2},
			{Keyword: "coffee", CategoryID: "B", Score: 3},
			{Keyword: "shop", CategoryID: "A", Score: 2},
		})
		s.Require().True(ok)
		s.Equal(Suggestion{CategoryID: "A", TotalScore: 4}, best)
	})

	s.Run("ties go to the first category seen", func() {
		best, ok := RankSuggestion([]string{"coffee", "shop"}, []KeywordScore{
			{Keyword: "shop", CategoryID: "A", Score: 2},
			{Keyword: "coffee", CategoryID: "B", Score: 2},
		})
		s.Require().True(ok)
		s.Equal("B", best.CategoryID)
	})

	s.Run("repeated keywords count once", func() {
		best, ok := RankSuggestion([]string{"coffee", "coffee"}, []KeywordScore{
			{Keyword: "coffee", CategoryID: "A", Score: 1},
		})
		s.Require().True(ok)
		s.Equal(1, best.TotalScore)
	})

	s.Run("no matching scores", func() {
		_, ok := RankSuggestion([]string{"coffee"}, []KeywordScore{{Keyword: "rent", CategoryID: "A", Score: 5}})
		s.False(ok)

		_, ok = RankSuggestion(nil, nil)
		s.False(ok)
	})
}

func (s *RulesTestSuite) TestKeywordTable_Categorize() {
	category, ok := DefaultKeywordRules.Categorize("WHOLE FOODS MARKET")
	s.True(ok)
	s.Equal("Groceries", category)

	category, ok = DefaultKeywordRules.Categorize("Shell gas station")
	s.True(ok)
	s.Equal("Transportation", category)

	_, ok = DefaultKeywordRules.Categorize("Wire transfer")
	s.False(ok)
}

func (s *RulesTestSuite) TestLoadKeywordRules() {
	doc := `
rules:
  - category: Pets
    keywords: [PetCo, " chewy "]
  - category: ""
    keywords: [ignored]
  - category: Books
    keywords: []
`
	table, err := LoadKeywordRules(strings.NewReader(doc))
	s.Require().NoError(err)
	s.Require().Len(table, 1)
	s.Equal(KeywordRule{Category: "Pets", Keywords: []string{"petco", "chewy"}}, table[0])

	category, ok := table.Categorize("CHEWY.COM order")
	s.True(ok)
	s.Equal("Pets", category)

	_, err = LoadKeywordRules(strings.NewReader("rules: []"))
	s.ErrorIs(err, ErrEmptyRuleTable)

	_, err = LoadKeywordRules(strings.NewReader("rules: [unterminated"))
	s.Error(err)
}

func (s *RulesTestSuite) TestLoadKeywordRulesFile() {
	table, err := LoadKeywordRulesFile("")
	s.NoError(err)
	s.Equal(DefaultKeywordRules, table)

	path := filepath.Join(s.T().TempDir(), "rules.yaml")
	s.Require().NoError(os.WriteFile(path, []byte("rules:\n  - category: Gym\n    keywords: [fitness]\n"), 0o600))

	table, err = LoadKeywordRulesFile(path)
	s.Require().NoError(err)
	s.Equal("Gym", table[0].Category)

	_, err = LoadKeywordRulesFile(filepath.Join(s.T().TempDir(), "missing.yaml"))
	s.Error(err)
}
