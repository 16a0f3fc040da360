package service

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/storefront/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("storepass", storePassword); err != nil {
		panic(err)
	}
	return v
}

// storePassword accepts lowercase letters and digits only, with at least one of each.
func storePassword(fl validator.FieldLevel) bool {
	var letter, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			return false
		}
	}
	return letter && digit
}

var fieldMessages = map[string]string{
	"required":  "is required",
	"min":       "is too short",
	"alphanum":  "may contain only letters and digits",
	"email":     "must be a valid email address",
	"storepass": "must combine lowercase letters and digits only",
}

// validateInput runs struct validation and converts failures to a VALIDATION_FAILED error.
func validateInput(input any) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := lowerFirst(fe.Field())
		if _, seen := details[field]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "is invalid"
		}
		details[field] = msg
	}
	return apperrors.NewValidationError("invalid payload", details)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
