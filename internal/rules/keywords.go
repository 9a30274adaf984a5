package rules

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// MinKeywordLength is exclusive: only words longer than this are keywords.
const MinKeywordLength = 3

// MaxKeywordLength matches the width of the stored keyword column. Longer
// words are dropped rather than learned.
const MaxKeywordLength = 100

var ErrEmptyRuleTable = errors.New("keyword rule table is empty")

// ExtractKeywords splits a description on spaces and keeps the lowercased
// words longer than MinKeywordLength and at most MaxKeywordLength characters,
// in order and with repeats.
func ExtractKeywords(description string) []string {
	var keywords []string
	for _, w := range strings.Split(description, " ") {
		w = strings.ToLower(w)
		if n := utf8.RuneCountInString(w); n > MinKeywordLength && n <= MaxKeywordLength {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// UniqueKeywords is ExtractKeywords without repeats.
func UniqueKeywords(description string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, k := range ExtractKeywords(description) {
		if !seen[k] {
			seen[k] = true
			unique = append(unique, k)
		}
	}
	return unique
}

// KeywordScore is the learned confidence that a keyword indicates a category.
type KeywordScore struct {
	Keyword    string
	CategoryID string
	Score      int
}

// Suggestion is the best-scoring category for a description.
type Suggestion struct {
	CategoryID string `json:"category_id"`
	TotalScore int    `json:"total_score"`
}

// RankSuggestion sums scores per category over the given keywords and
// returns the highest total. Ties go to the category seen first, walking
// keywords in order and scores in the order given.
func RankSuggestion(keywords []string, scores []KeywordScore) (Suggestion, bool) {
	totals := make(map[string]int)
	var order []string

	seen := make(map[string]bool)
	for _, k := range keywords {
		if seen[k] {
			continue
		}
		seen[k] = true
		for _, s := range scores {
			if s.Keyword != k {
				continue
			}
			if _, ok := totals[s.CategoryID]; !ok {
				order = append(order, s.CategoryID)
			}
			totals[s.CategoryID] += s.Score
		}
	}

	if len(order) == 0 {
		return Suggestion{}, false
	}

	best := Suggestion{CategoryID: order[0], TotalScore: totals[order[0]]}
	for _, id := range order[1:] {
		if totals[id] > best.TotalScore {
			best = Suggestion{CategoryID: id, TotalScore: totals[id]}
		}
	}
	return best, true
}

// KeywordRule maps substrings of a description to a category name.
type KeywordRule struct {
	Category string   `yaml:"category" json:"category"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// KeywordTable is evaluated in order; the first rule containing a matching
// keyword wins.
type KeywordTable []KeywordRule

var DefaultKeywordRules = KeywordTable{
	{Category: "Groceries", Keywords: []string{"grocery", "supermarket", "safeway", "trader joe", "whole foods"}},
	{Category: "Restaurants", Keywords: []string{"restaurant", "cafe", "starbucks", "mcdonalds", "chipotle"}},
	{Category: "Shopping", Keywords: []string{"amazon", "target", "walmart", "best buy"}},
	{Category: "Transportation", Keywords: []string{"uber", "lyft", "bart", "scooter", "gas"}},
	{Category: "Housing", Keywords: []string{"rent", "mortgage", "landlord"}},
	{Category: "Utilities", Keywords: []string{"internet", "cable", "electric", "water", "gas"}},
	{Category: "Entertainment", Keywords: []string{"netflix", "spotify", "hulu", "cinema", "movie"}},
	{Category: "Health", Keywords: []string{"pharmacy", "doctor", "hospital", "cvs", "walgreens"}},
}

// Categorize returns the category of the first rule with a keyword contained
// in the lowercased description.
func (t KeywordTable) Categorize(description string) (string, bool) {
	lower := strings.ToLower(description)
	for _, rule := range t {
		for _, k := range rule.Keywords {
			if strings.Contains(lower, k) {
				return rule.Category, true
			}
		}
	}
	return "", false
}

type keywordFile struct {
	Rules KeywordTable `yaml:"rules"`
}

// LoadKeywordRules reads a YAML document of the form
//
//	rules:
//	  - category: Groceries
//	    keywords: [grocery, supermarket]
//
// Keywords are lowercased so matching stays case-insensitive.
func LoadKeywordRules(r io.Reader) (KeywordTable, error) {
	var file keywordFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode keyword rules: %w", err)
	}

	table := make(KeywordTable, 0, len(file.Rules))
	for _, rule := range file.Rules {
		if strings.TrimSpace(rule.Category) == "" || len(rule.Keywords) == 0 {
			continue
		}
		keywords := make([]string, 0, len(rule.Keywords))
		for _, k := range rule.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				keywords = append(keywords, k)
			}
		}
		table = append(table, KeywordRule{Category: rule.Category, Keywords: keywords})
	}

	if len(table) == 0 {
		return nil, ErrEmptyRuleTable
	}
	return table, nil
}

// LoadKeywordRulesFile loads a rule table from path, or returns the default
// table when path is empty.
func LoadKeywordRulesFile(path string) (KeywordTable, error) {
	if path == "" {
		return DefaultKeywordRules, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open keyword rules: %w", err)
	}
	defer f.Close()

	return LoadKeywordRules(f)
}
