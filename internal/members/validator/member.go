package validator

import (
	"homeview/pkg/logger"
	"homeview/pkg/model"
	"homeview/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type MemberValidator struct {
	validator *validation.Validator
	logger    *logger.Logger
}

func NewMemberValidator(log *logger.Logger) *MemberValidator {
	v := validation.New(log, memberMessage)
	log.Info("Member validator initialized successfully")

	return &MemberValidator{
		validator: v,
		logger:    log,
	}
}

func memberMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "member_role":
		return "role must be one of: agent, client"
	case "member_status":
		return "status must be one of: active, pending, suspended"
	case "e164":
		return "phone must be a valid phone number"
	}
	return ""
}

func (v *MemberValidator) ValidateAgent(a *model.Agent) error {
	return v.validator.Struct(a)
}

func (v *MemberValidator) ValidateClient(c *model.Client) error {
	return v.validator.Struct(c)
}

func (v *MemberValidator) ValidateStatus(u *model.MemberStatusUpdate) error {
	return v.validator.Struct(u)
}

func (v *MemberValidator) ValidateVerification(u *model.AgentVerification) error {
	return v.validator.Struct(u)
}
