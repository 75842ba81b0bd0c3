package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names so errors match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}

	return v
}

// ValidateJob checks a complete job before it is stored
func ValidateJob(job *Job) error {
	return toValidationError(validate.Struct(job))
}

// ValidateJobPatch checks only the fields present in a partial update
func ValidateJobPatch(patch *JobPatch) error {
	return toValidationError(validate.Struct(patch))
}

// ValidateSignup checks the signup payload
func ValidateSignup(signup *Signup) error {
	return toValidationError(validate.Struct(signup))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fieldPath(fe.Namespace())] = message(fe)
	}
	return &ValidationError{Fields: fields}
}

// fieldPath drops the top-level struct name: "Job.company.name" -> "company.name"
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	default:
		return "is invalid"
	}
}
