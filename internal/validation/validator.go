// Package validation checks request payloads against their struct tags and
// reports the first violation as an INVALID_ARGUMENT domain error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"ledgerpay/internal/domain"
	apperrors "ledgerpay/internal/errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidators() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	// Errors name the json field the client sent.
	vld.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	// No custom type func for decimal.Decimal: returning the same type makes
	// the validator loop. The decimal rules read the field directly.
	rules := map[string]validator.Func{
		"positive_decimal": func(fl validator.FieldLevel) bool {
			d, ok := fl.Field().Interface().(decimal.Decimal)
			return ok && d.IsPositive()
		},
		"nonnegative_decimal": func(fl validator.FieldLevel) bool {
			d, ok := decimalField(fl)
			return !ok || !d.IsNegative()
		},
		"max_decimal": func(fl validator.FieldLevel) bool {
			limit, err := decimal.NewFromString(fl.Param())
			if err != nil {
				return false
			}
			d, ok := decimalField(fl)
			return !ok || d.LessThanOrEqual(limit)
		},
		"currency": func(fl validator.FieldLevel) bool {
			return domain.Currency(fl.Field().String()).Valid()
		},
		"transaction_type": func(fl validator.FieldLevel) bool {
			return domain.TransactionType(fl.Field().String()).Valid()
		},
		"transaction_status": func(fl validator.FieldLevel) bool {
			return domain.TransactionStatus(fl.Field().String()).Valid()
		},
		"strong_password": func(fl validator.FieldLevel) bool {
			return StrongPassword(fl.Field().String())
		},
	}
	for tag, fn := range rules {
		if err := vld.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("register %q: %w", tag, err)
		}
	}
	return vld, nil
}

// decimalField unwraps a decimal.Decimal or *decimal.Decimal field. ok is
// false for a nil pointer so optional fields pass.
func decimalField(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return v, true
	case *decimal.Decimal:
		if v == nil {
			return decimal.Decimal{}, false
		}
		return *v, true
	}
	return decimal.Decimal{}, false
}

// Validator returns the shared validator instance.
func Validator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = initValidators()
	})
	return validate, errValidate
}

// Struct validates payload and returns the first violation as a field bound
// INVALID_ARGUMENT error.
func Struct(payload any) error {
	vld, err := Validator()
	if err != nil {
		return fmt.Errorf("validator init: %w", err)
	}
	err = vld.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.NewField(apperrors.CodeInvalidArgument, fe.Field(), message(fe))
	}
	return apperrors.Wrap(apperrors.CodeInvalidArgument, "invalid request", err)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "positive_decimal":
		return "must be greater than zero"
	case "nonnegative_decimal":
		return "cannot be negative"
	case "max_decimal":
		return "must not exceed " + fe.Param()
	case "currency":
		return "unsupported currency"
	case "transaction_type":
		return "unknown transaction type"
	case "transaction_status":
		return "unknown transaction status"
	case "strong_password":
		return fmt.Sprintf("must be %d to %d characters and contain a special character", MinPasswordLength, MaxPasswordLength)
	case "nefield":
		return "must differ from " + fe.Param()
	}
	return "failed " + fe.Tag() + " validation"
}
