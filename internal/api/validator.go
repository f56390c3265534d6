package api

import (
	"github.com/go-playground/validator/v10"
)

type appValidator struct {
	validate *validator.Validate
}

func newValidator() *appValidator {
	return &appValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *appValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// filterQuery is the query string shared by the analytics endpoints.
type filterQuery struct {
	ClassID   string `query:"class_id" validate:"omitempty,max=128"`
	StudentID string `query:"student_id" validate:"omitempty,max=128"`
	Order     string `query:"order" validate:"omitempty,oneof=attempts percentage code attention"`
}
