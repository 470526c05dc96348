package handler

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &CustomValidator{validator: v}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// missingFields marks every field that failed a "required" rule. It reports
// false when err holds other kinds of failures.
func missingFields(err error, fields ...string) (map[string]bool, bool) {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil, false
	}
	missing := make(map[string]bool, len(fields))
	for _, f := range fields {
		missing[f] = false
	}
	for _, fe := range verrs {
		if fe.Tag() != "required" {
			return nil, false
		}
		missing[fe.Field()] = true
	}
	return missing, true
}
