package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	ErrRequired       = "is required"
	ErrNotBlank       = "must not be blank"
	ErrMinLength      = "must be at least %s characters long"
	ErrMaxLength      = "must be at most %s characters long"
	ErrMinValue       = "must be greater than or equal to %s"
	ErrMaxValue       = "must be less than or equal to %s"
	ErrGreaterThan    = "must be greater than %s"
	ErrDefaultInvalid = "is invalid"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(jsonFieldName)
	validator.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	validator.RegisterValidation("notblank", validateNotBlank)

	return validator
}

// jsonFieldName reports fields by their JSON name so messages match the
// request body the client sent.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}

	return nil
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "notblank":
		return ErrNotBlank
	case "min", "gte":
		if isSized(err.Kind()) {
			return fmt.Sprintf(ErrMinLength, err.Param())
		}
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max", "lte":
		if isSized(err.Kind()) {
			return fmt.Sprintf(ErrMaxLength, err.Param())
		}
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "gt":
		return fmt.Sprintf(ErrGreaterThan, err.Param())
	default:
		return ErrDefaultInvalid
	}
}

func isSized(kind reflect.Kind) bool {
	return kind == reflect.String || kind == reflect.Slice || kind == reflect.Map
}
