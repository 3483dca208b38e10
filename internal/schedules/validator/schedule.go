package validator

import (
	"fmt"
	"strings"

	"homeview/pkg/logger"
	"homeview/pkg/model"
	"homeview/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type ScheduleValidator struct {
	validator *validation.Validator
	logger    *logger.Logger
}

func NewScheduleValidator(log *logger.Logger) *ScheduleValidator {
	v := validation.New(log, scheduleMessage)
	log.Info("Schedule validator initialized successfully")

	return &ScheduleValidator{
		validator: v,
		logger:    log,
	}
}

func scheduleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "schedule_status":
		statuses := make([]string, 0, len(model.ScheduleStatuses))
		for _, s := range model.ScheduleStatuses {
			statuses = append(statuses, string(s))
		}
		return fmt.Sprintf("status must be one of: %s", strings.Join(statuses, ", "))
	case "required":
		if fe.Field() == "schedule_time" {
			return "schedule_time is required and must be an RFC3339 timestamp"
		}
	}
	return ""
}

func (v *ScheduleValidator) Validate(sc *model.Schedule) error {
	return v.validator.Struct(sc)
}

func (v *ScheduleValidator) ValidateUpdate(updates *model.ScheduleUpdate) error {
	return v.validator.Struct(updates)
}
