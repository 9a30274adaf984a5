package handlers

import (
	"pfm-api/internal/validation"

	"github.com/labstack/echo/v4"
)

// requestValidator plugs the shared rule set (money, month, regex_pattern,
// symbol, account_type) into c.Validate
type requestValidator struct {
	rules *validation.Validator
}

func NewValidator() echo.Validator {
	return requestValidator{rules: validation.GetValidator()}
}

func (v requestValidator) Validate(i interface{}) error {
	return v.rules.Struct(i)
}
