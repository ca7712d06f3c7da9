package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rpupo63/jhipster-sample-services/errs"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct checks the validate tags of s and reports the first
// failing field as an *errs.ApiErr.
func validateStruct(s any) error {
	err := validate.Struct(s)
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	fe := fieldErrors[0]
	switch fe.Tag() {
	case "required", "notblank":
		return errs.NewMissingRequiredFieldError(fe.Field())
	case "min":
		return errs.NewInvalidFieldError(fe.Field(), "size must be at least "+fe.Param())
	case "max":
		return errs.NewInvalidFieldError(fe.Field(), "size must be at most "+fe.Param())
	case "gte":
		return errs.NewInvalidFieldError(fe.Field(), "must be greater than or equal to "+fe.Param())
	default:
		return errs.NewInvalidFieldError(fe.Field(), "failed the "+fe.Tag()+" check")
	}
}
