// Package validation validates request DTOs with go-playground/validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kailas-cloud/caskbook/internal/domain"
	"github.com/kailas-cloud/caskbook/internal/domain/bottle"
	"github.com/kailas-cloud/caskbook/internal/domain/flavor"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Get returns the shared validator. Field names in errors are JSON names.
func Get() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("flavor_dimension", func(fl validator.FieldLevel) bool {
			_, ok := flavor.ParseDimension(fl.Field().String())
			return ok
		})
		_ = validate.RegisterValidation("bottle_status", func(fl validator.FieldLevel) bool {
			_, err := bottle.ParseStatus(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// Struct validates v and converts the first failure into a *domain.FieldError.
func Struct(v any) error {
	err := Get().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	fe := verrs[0]
	return domain.NewFieldError(fieldPath(fe), message(fe))
}

// fieldPath drops the root struct name: "req.flavor_profile[x]" -> "flavor_profile[x]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "is not a valid address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	case "flavor_dimension":
		return "unknown flavor dimension"
	case "bottle_status":
		return "must be one of sealed, opened, finished"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
