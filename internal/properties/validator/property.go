package validator

import (
	"fmt"
	"strings"

	"homeview/pkg/logger"
	"homeview/pkg/model"
	"homeview/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type PropertyValidator struct {
	validator *validation.Validator
	logger    *logger.Logger
}

func NewPropertyValidator(log *logger.Logger) *PropertyValidator {
	v := validation.New(log, propertyMessage)
	log.Info("Property validator initialized successfully")

	return &PropertyValidator{
		validator: v,
		logger:    log,
	}
}

func propertyMessage(fe validator.FieldError) string {
	if fe.Tag() == "property_status" {
		return fmt.Sprintf("status must be one of: %s", strings.Join(model.PropertyStatuses, ", "))
	}
	return ""
}

func (v *PropertyValidator) Validate(p *model.Property) error {
	return v.validator.Struct(p)
}

func (v *PropertyValidator) ValidateImages(images []model.PropertyImage) error {
	for i := range images {
		if err := v.validator.Struct(&images[i]); err != nil {
			return fmt.Errorf("images[%d]: %w", i, err)
		}
	}
	return nil
}

func (v *PropertyValidator) ValidateVideos(videos []model.PropertyVideo) error {
	for i := range videos {
		if err := v.validator.Struct(&videos[i]); err != nil {
			return fmt.Errorf("videos[%d]: %w", i, err)
		}
	}
	return nil
}
