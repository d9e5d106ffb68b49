// Package validator wraps go-playground/validator with the storefront's
// custom tags and JSON field naming.
package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/VedantYeola/Wear-Story/pkg/errors"
)

var (
	validate = newValidate()

	expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// maxBodyBytes caps request bodies read by DecodeAndValidate.
const maxBodyBytes = 1 << 20

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// cardnumber: 12-19 digits once spaces and dashes are removed.
	_ = v.RegisterValidation("cardnumber", func(fl validator.FieldLevel) bool {
		s := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
		return len(s) >= 12 && len(s) <= 19 && digitsPattern.MatchString(s)
	})
	// expiry: MM/YY.
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks s against its `validate` tags.
func Validate(s any) error {
	if err := validate.Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return &ValidationError{Errors: ve}
		}
		return err
	}
	return nil
}

// ValidationError carries per-field failures keyed by JSON name.
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("field '%s' %s", fe.Field(), msgForTag(fe)))
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Fields() map[string]string {
	fields := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		fields[fe.Field()] = msgForTag(fe)
	}
	return fields
}

func msgForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "cardnumber":
		return "must be a card number of 12 to 19 digits"
	case "expiry":
		return "must be an expiry date in MM/YY form"
	case "digits":
		return "must contain only digits"
	default:
		return fmt.Sprintf("failed on '%s' validation", fe.Tag())
	}
}

// DecodeAndValidate decodes a JSON body into dst and validates it.
func DecodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return apperrors.InvalidInput("invalid request body: " + err.Error())
	}
	return Validate(dst)
}
