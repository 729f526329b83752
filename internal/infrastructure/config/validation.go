package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors into readable messages
func (v *Validator) formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		var messages []string
		for _, e := range validationErrs {
			messages = append(messages, fmt.Sprintf(
				"field '%s' failed validation: %s (value: '%v')",
				e.Field(),
				e.Tag(),
				e.Value(),
			))
		}
		return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
	}
	return err
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	v := NewValidator()
	if err := v.Validate(cfg); err != nil {
		return err
	}
	// Cross-field checks the tag syntax can't express
	p := cfg.Dispatch.Predictor
	if p.MinOmega > p.MaxOmega {
		return fmt.Errorf("predictor min_omega (%v) must not exceed max_omega (%v)", p.MinOmega, p.MaxOmega)
	}
	if p.InitialOmega < p.MinOmega || p.InitialOmega > p.MaxOmega {
		return fmt.Errorf("predictor initial_omega (%v) must lie within [%v, %v]", p.InitialOmega, p.MinOmega, p.MaxOmega)
	}
	return nil
}
