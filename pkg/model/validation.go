package model

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidations installs the domain rules referenced by struct tags.
func RegisterValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"schedule_status": func(fl validator.FieldLevel) bool {
			return ScheduleStatus(fl.Field().String()).Valid()
		},
		"property_status": func(fl validator.FieldLevel) bool {
			return IsPropertyStatus(fl.Field().String())
		},
		"member_role": func(fl validator.FieldLevel) bool {
			return IsMemberRole(fl.Field().String())
		},
		"member_status": func(fl validator.FieldLevel) bool {
			return IsMemberStatus(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
