package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// DestinationCodePattern is the 4 character institution code, matched case-insensitively
	// since codes are uppercased before they are stored
	DestinationCodePattern = `^[A-Za-z0-9]{4}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	DestinationCode *regexp.Regexp
}{
	DestinationCode: regexp.MustCompile(DestinationCodePattern),
}

// IsDestinationCode reports whether code is a valid destination code
func IsDestinationCode(code string) bool {
	return CompiledPatterns.DestinationCode.MatchString(code)
}

// RegisterRules adds the custom tags used by request DTOs to v
func RegisterRules(v *validator.Validate) error {
	if err := v.RegisterValidation("destcode", func(fl validator.FieldLevel) bool {
		return IsDestinationCode(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register destcode rule: %w", err)
	}
	return nil
}
