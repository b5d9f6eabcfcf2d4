// Package validate holds the format checks shared by the services.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"deliveryflow/pkg/fault"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IDLength is the length of the canonical textual form of a UUID.
const IDLength = 36

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return val
}

// ID checks that id is a 36 character UUID string.
func ID(id string) error {
	if len(id) != IDLength {
		return fmt.Errorf("%w: %q", fault.ErrInvalidID, id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", fault.ErrInvalidID, id)
	}
	return nil
}

// Struct runs the `validate` tags of s and reports failing fields as a
// fault.FieldError of kind ErrInvalidField.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fault.Invalid(fields...)
}
