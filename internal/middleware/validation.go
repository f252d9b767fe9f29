package middleware

import (
	"fmt"

	"github.com/disa/mapa/internal/pkg/validation"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom rules on gin's binding validator so that
// ShouldBindJSON enforces them
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return validation.RegisterRules(v)
}
