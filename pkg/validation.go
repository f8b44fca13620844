package pkg

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
)

var ErrValidation = errors.New("validation failed")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names instead of go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks the validate tags of s. All field errors are combined
// into one error wrapping ErrValidation.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	var combined error
	for _, fe := range fieldErrs {
		combined = multierr.Append(combined, fieldError(fe))
	}
	return fmt.Errorf("%w: %w", ErrValidation, combined)
}

func fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	if fe.Param() != "" {
		return fmt.Errorf("%s: failed on '%s=%s'", field, fe.Tag(), fe.Param())
	}
	return fmt.Errorf("%s: failed on '%s'", field, fe.Tag())
}

// ValidationMessages flattens a ValidateStruct error into one message per field.
// The ValidateStruct error may be wrapped further.
func ValidationMessages(err error) []string {
	if err == nil {
		return []string{}
	}

	errs := multierr.Errors(fieldErrors(err))
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

// fieldErrors finds the combined field errors next to ErrValidation.
func fieldErrors(err error) error {
	wrapped, ok := err.(interface{ Unwrap() []error })
	if !ok {
		if inner := errors.Unwrap(err); inner != nil {
			return fieldErrors(inner)
		}
		return err
	}

	errs := wrapped.Unwrap()
	for i, e := range errs {
		if e == ErrValidation && len(errs) == 2 {
			return errs[1-i]
		}
	}
	for _, e := range errs {
		if errors.Is(e, ErrValidation) {
			return fieldErrors(e)
		}
	}
	return err
}
