package application

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterConfigValidators registers the custom tags used by EvalConfig.
func RegisterConfigValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("filesuffix", validateFileSuffix); err != nil {
		return fmt.Errorf("failed to register filesuffix validator: %w", err)
	}
	return nil
}

// validateFileSuffix accepts text that can be appended to a file stem:
// no path separators, no NUL and no leading dot.
func validateFileSuffix(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	if strings.HasPrefix(s, ".") {
		return false
	}
	return !strings.ContainsAny(s, "/\\\x00")
}

func newConfigValidator() *validator.Validate {
	v := validator.New()
	if err := RegisterConfigValidators(v); err != nil {
		panic(err)
	}
	return v
}
