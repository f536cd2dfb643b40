package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/ziedsaddem/hotelbooking/internal/apperr"
)

// Validator adapts go-playground/validator to echo's Validator interface,
// surfacing failures as application validation errors.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.NewValidation(err.Error())
	}
	return nil
}
