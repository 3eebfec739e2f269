package handlers

import (
	"strings"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/money"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the custom binding tags used by the request DTOs:
// "currency" (an ISO 4217 code) and "interval" (weekly, monthly or yearly).
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("currency", validateCurrency); err != nil {
		return err
	}
	return v.RegisterValidation("interval", validateInterval)
}

func validateCurrency(fl validator.FieldLevel) bool {
	return money.IsKnownCurrency(strings.ToUpper(fl.Field().String()))
}

func validateInterval(fl validator.FieldLevel) bool {
	return domain.Interval(fl.Field().String()).IsValid()
}
