package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks request DTO tags and returns a message naming the first
// offending field by its json name.
func Validate(payload interface{}) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return err
	}

	first := fieldErrors[0]
	field := first.Field()
	switch first.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "max":
		return fmt.Errorf("%s must have at most %s items", field, first.Param())
	case "min":
		return fmt.Errorf("%s must have at least %s items", field, first.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", field, first.Param())
	case "uuid":
		return fmt.Errorf("%s must be a uuid", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}
