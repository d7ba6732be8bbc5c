// Package validation runs validator/v10 struct tags and reports failures
// under their JSON field names.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	apperrors "github.com/spec-kit/service-orders/pkg/util/errorutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// MissingFields validates v and returns the names of the fields that
// failed, in declaration order.
func MissingFields(v any) ([]string, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return missing, nil
}

// Struct validates a payload and converts failures into a
// VALIDATION_FAILED domain error listing missing_fields.
func Struct(v any) error {
	missing, err := MissingFields(v)
	if err != nil {
		return apperrors.NewValidationError("invalid payload", map[string]any{"reason": err.Error()})
	}
	if len(missing) > 0 {
		return apperrors.NewMissingFieldsError(missing, nil)
	}
	return nil
}
