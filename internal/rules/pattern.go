// Package rules assigns categories to transaction descriptions using
// user-defined regular expressions, a static keyword table and learned
// keyword scores.
package rules

import (
	"errors"
	"fmt"
	"regexp"
	"regexp/syntax"
)

const (
	MaxPatternLength       = 256
	MaxRepetitionOperators = 10
)

var (
	ErrEmptyPattern      = errors.New("pattern cannot be empty")
	ErrPatternTooLong    = fmt.Errorf("pattern must not exceed %d bytes", MaxPatternLength)
	ErrInvalidPattern    = errors.New("pattern is not a valid regular expression")
	ErrNestedQuantifier  = errors.New("pattern contains nested quantifiers")
	ErrPatternTooComplex = fmt.Errorf("pattern must not contain more than %d repetition operators", MaxRepetitionOperators)
)

// ValidatePattern rejects user patterns that are empty, oversized, fail to
// parse, or nest unbounded repetition such as (a+)+.
func ValidatePattern(pattern string) error {
	if pattern == "" {
		return ErrEmptyPattern
	}
	if len(pattern) > MaxPatternLength {
		return ErrPatternTooLong
	}

	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}

	count := 0
	if err := inspect(re, false, &count); err != nil {
		return err
	}
	if count > MaxRepetitionOperators {
		return ErrPatternTooComplex
	}
	return nil
}

// CompilePattern validates a pattern and compiles it for case-insensitive matching.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if err := ValidatePattern(pattern); err != nil {
		return nil, err
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	return re, nil
}

func inspect(re *syntax.Regexp, insideRepeat bool, count *int) error {
	repeats := isUnboundedRepeat(re)
	if isRepetition(re) {
		*count++
	}
	if repeats && insideRepeat {
		return ErrNestedQuantifier
	}

	for _, sub := range re.Sub {
		if err := inspect(sub, insideRepeat || repeats, count); err != nil {
			return err
		}
	}
	return nil
}

func isRepetition(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		return true
	}
	return false
}

func isUnboundedRepeat(re *syntax.Regexp) bool {
	switch re.Op {
	case syntax.OpStar, syntax.OpPlus:
		return true
	case syntax.OpRepeat:
		return re.Max == -1 || re.Max > 1
	}
	return false
}
