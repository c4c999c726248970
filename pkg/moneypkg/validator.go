package moneypkg

import (
	"github.com/go-playground/validator/v10"
)

// ValidAmount validates that a bound field holds a positive amount with at
// most two decimal places.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	amount, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	minor, err := ToMinorUnits(amount)

	return err == nil && minor > 0
}
