package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared struct validator. Field names in its errors
// come from json tags so they match what clients send.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct validates s with the shared validator and converts any
// failures into a *ValidationError listing every failing field.
func ValidateStruct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating input: %w", err)
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), FieldMessage(fe.Field(), fe.Tag(), fe.Param()))
	}
	return verr
}

// FieldMessage renders the client-facing message for a failed rule.
func FieldMessage(field, rule, param string) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch rule {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", label, param)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", label, param)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "unique":
		return fmt.Sprintf("The %s has already been taken.", label)
	case "oneof", "in":
		return fmt.Sprintf("The selected %s is invalid.", label)
	case "string":
		return fmt.Sprintf("The %s field must be a string.", label)
	case "date":
		return fmt.Sprintf("The %s field must be a valid date.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
