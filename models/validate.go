package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mkifle/portfolio-backend/errs"
)

// emailPattern is the address format accepted for contacts and users.
var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their human label so messages read "Title is required".
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})

	if err := v.RegisterValidation("mailbox", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	// imageref accepts an absolute URL or a path served by the front end ("/images/a.webp").
	if err := v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if strings.HasPrefix(s, "/") && !strings.HasPrefix(s, "//") {
			return !strings.ContainsAny(s, " \t\n")
		}
		return v.Var(s, "url") == nil
	}); err != nil {
		panic(err)
	}

	v.RegisterStructValidation(qualificationDates, Qualification{})

	return v
}

// IsEmail reports whether s is an acceptable email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Validate runs the struct's validate tags and returns an errs.ApiErr carrying
// one message per failing field.
func Validate(model any) error {
	err := validate.Struct(model)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return errs.NewValidationError(messages)
}

func fieldMessage(fe validator.FieldError) string {
	label := fe.Field()
	numeric := isNumeric(fe.Kind())

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "max":
		if numeric {
			return fmt.Sprintf("%s cannot be greater than %s", label, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
	case "min":
		if numeric {
			return fmt.Sprintf("%s cannot be less than %s", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "url", "imageref":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "mailbox":
		return "Please provide a valid email"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	case "enddate":
		return "End date cannot be before start date"
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
