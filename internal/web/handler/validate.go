package handler

import (
	"errors"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their label tag, falling back to the struct field name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}

		return fld.Name
	})

	return v
}

// Validate checks the validate tags of a form struct and returns one message per failed field.
func Validate(form any) []string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		messages[i] = ve.Field() + " " + tagMessage(ve)
	}

	return messages
}

func tagMessage(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "max":
		return "must be at most " + ve.Param() + " characters"
	default:
		return "failed validation '" + ve.Tag() + "'"
	}
}
