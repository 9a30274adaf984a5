package rules

import (
	"log/slog"
	"regexp"
	"sort"
)

// Category is a named bucket with ordered regex rules.
type Category struct {
	ID       string
	Name     string
	Patterns []string
}

// Transaction is the minimal view of a transaction the engine needs.
// An empty CategoryID means uncategorized.
type Transaction struct {
	ID          string
	Description string
	CategoryID  string
}

// Assignment records a category assigned by a rule.
type Assignment struct {
	TransactionID string `json:"transaction_id"`
	CategoryID    string `json:"category_id"`
	Pattern       string `json:"pattern"`
}

type compiledRule struct {
	pattern string
	re      *regexp.Regexp
}

type compiledCategory struct {
	id    string
	rules []compiledRule
}

// Engine evaluates categories in name order and their rules in insertion
// order; the first matching rule wins.
type Engine struct {
	categories []compiledCategory
	logger     *slog.Logger
}

// NewEngine compiles the rules of every category. Patterns that fail
// validation are skipped and logged.
func NewEngine(categories []Category, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	ordered := make([]Category, len(categories))
	copy(ordered, categories)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID < ordered[j].ID
	})

	compiled := make([]compiledCategory, 0, len(ordered))
	for _, c := range ordered {
		cc := compiledCategory{id: c.ID}
		for _, p := range c.Patterns {
			re, err := CompilePattern(p)
			if err != nil {
				logger.Warn("skipping invalid categorization rule",
					"category_id", c.ID,
					"pattern", p,
					"error", err)
				continue
			}
			cc.rules = append(cc.rules, compiledRule{pattern: p, re: re})
		}
		compiled = append(compiled, cc)
	}

	return &Engine{categories: compiled, logger: logger}
}

// Match returns the first category whose rule matches description.
func (e *Engine) Match(description string) (Assignment, bool) {
	for _, c := range e.categories {
		for _, r := range c.rules {
			if r.re.MatchString(description) {
				return Assignment{CategoryID: c.id, Pattern: r.pattern}, true
			}
		}
	}
	return Assignment{}, false
}

// Apply categorizes every uncategorized transaction that a rule matches.
// Transactions that already have a category are never touched, so applying
// the same rules twice yields no further assignments.
func (e *Engine) Apply(transactions []Transaction) []Assignment {
	var assignments []Assignment
	for _, tx := range transactions {
		if tx.CategoryID != "" {
			continue
		}
		match, ok := e.Match(tx.Description)
		if !ok {
			continue
		}
		match.TransactionID = tx.ID
		assignments = append(assignments, match)
	}
	return assignments
}

// ApplyInPlace is Apply followed by writing the assignments back into transactions.
func (e *Engine) ApplyInPlace(transactions []Transaction) int {
	assignments := e.Apply(transactions)
	byID := make(map[string]string, len(assignments))
	for _, a := range assignments {
		byID[a.TransactionID] = a.CategoryID
	}
	for i := range transactions {
		if id, ok := byID[transactions[i].ID]; ok {
			transactions[i].CategoryID = id
		}
	}
	return len(assignments)
}
