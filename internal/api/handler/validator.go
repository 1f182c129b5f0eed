package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/99minutos/tracking-system/internal/core/domain"
)

// Tracking-specific tags on top of the validator's built-ins.
const (
	// tagTrackingNumber accepts 6 to 40 ASCII letters and digits, surrounding
	// blanks ignored. Which carrier owns the number is decided later.
	tagTrackingNumber = "trackingnumber"
	// tagNotifyEvent accepts a canonical category or "status_changed".
	tagNotifyEvent = "notifyevent"
)

type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns the echo.Validator for request payloads. Messages name
// fields by their json tag, e.g. "tracking_number is required".
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation(tagTrackingNumber, func(fl validator.FieldLevel) bool {
		return looksLikeTrackingNumber(fl.Field().String())
	})
	_ = v.RegisterValidation(tagNotifyEvent, func(fl validator.FieldLevel) bool {
		e := fl.Field().String()
		return e == domain.EventStatusChanged || domain.Category(e).Valid()
	})
	return &echoValidator{v: v}
}

func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	msgs := make([]string, 0, len(ve))
	for _, fe := range ve {
		msgs = append(msgs, fieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func looksLikeTrackingNumber(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) < 6 || len(s) > 40 {
		return false
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		if !('0' <= b && b <= '9' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z') {
			return false
		}
	}
	return true
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case tagTrackingNumber:
		return field + " must be 6 to 40 letters or digits"
	case tagNotifyEvent:
		return fmt.Sprintf("%s: %q is not a status category or %s", field, fe.Value(), domain.EventStatusChanged)
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	}
	return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
}
