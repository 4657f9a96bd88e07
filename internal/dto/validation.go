package dto

import (
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	"github.com/go-playground/validator/v10"
)

// TagName is the struct tag read by gin binding. Services validate the same
// request structs with it so both entry points apply identical rules.
const TagName = "binding"

// RegisterValidations installs the ledger-specific rules on v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("ledgerid", func(fl validator.FieldLevel) bool {
		return domain.IsAccountID(fl.Field().String())
	})
}

// NewValidator returns a validator configured like the gin binding engine.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName(TagName)
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
