package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"pfm-api/internal/models"
	"pfm-api/internal/rules"

	"github.com/go-playground/validator/v10"
)

var (
	moneyRegex = regexp.MustCompile(`^\d{1,13}(\.\d{1,8})?$`)
	monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// Validator wraps the go-playground validator with custom rules and error formatting
type Validator struct {
	validate *validator.Validate
}

var (
	instance     *Validator
	instanceOnce sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *Validator {
	instanceOnce.Do(func() {
		instance = NewValidator()
	})
	return instance
}

// NewValidator creates a new validator instance with custom rules and configuration
func NewValidator() *Validator {
	v := validator.New()

	_ = v.RegisterValidation("money", validateMoney)
	_ = v.RegisterValidation("month", validateMonth)
	_ = v.RegisterValidation("regex_pattern", validateRegexPattern)
	_ = v.RegisterValidation("symbol", validateSymbol)
	_ = v.RegisterValidation("account_type", validateAccountType)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	return &Validator{validate: v}
}

// Struct validates a struct against its validate tags
func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// FieldErrors maps each failing field to a readable message. Errors that are
// not validation errors are returned under the "request" key.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid UUID"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("must be %s %s", fe.Tag(), fe.Param())
	case "money":
		return "must be a non-negative decimal amount"
	case "month":
		return "must be a month in YYYY-MM format"
	case "regex_pattern":
		return "must be a valid, bounded regular expression"
	case "symbol":
		return "must be a ticker symbol"
	case "account_type":
		return "must be cash, investment or debt"
	case "datetime":
		return fmt.Sprintf("must match the layout %s", fe.Param())
	}
	return fmt.Sprintf("failed the %s rule", fe.Tag())
}

// validateMoney accepts non-negative decimal strings such as "12" or "1500.25"
func validateMoney(fl validator.FieldLevel) bool {
	return moneyRegex.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateMonth accepts YYYY-MM month keys
func validateMonth(fl validator.FieldLevel) bool {
	return monthRegex.MatchString(fl.Field().String())
}

// validateRegexPattern rejects patterns the categorization engine would refuse
func validateRegexPattern(fl validator.FieldLevel) bool {
	return rules.ValidatePattern(fl.Field().String()) == nil
}

func validateSymbol(fl validator.FieldLevel) bool {
	return models.IsValidSymbol(models.NormalizeSymbol(fl.Field().String()))
}

// validateAccountType accepts the account types and their aliases, e.g. checking or credit
func validateAccountType(fl validator.FieldLevel) bool {
	return models.IsValidAccountType(models.NormalizeAccountType(fl.Field().String()))
}
