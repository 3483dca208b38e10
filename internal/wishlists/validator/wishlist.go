package validator

import (
	"homeview/pkg/logger"
	"homeview/pkg/model"
	"homeview/pkg/validation"
)

type WishlistValidator struct {
	validator *validation.Validator
	logger    *logger.Logger
}

func NewWishlistValidator(log *logger.Logger) *WishlistValidator {
	v := validation.New(log, nil)
	log.Info("Wishlist validator initialized successfully")

	return &WishlistValidator{
		validator: v,
		logger:    log,
	}
}

func (v *WishlistValidator) Validate(w *model.Wishlist) error {
	return v.validator.Struct(w)
}
