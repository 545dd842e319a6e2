package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	appErrors "artmarket/pkg/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate        *validator.Validate
	usernamePattern = regexp.MustCompile(`^[a-z0-9_.]+$`)
)

// MaxPasswordBytes is the most input bcrypt will hash.
const MaxPasswordBytes = 72

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})

	if err := validate.RegisterValidation("username", validateUsername); err != nil {
		panic(err)
	}
	if err := validate.RegisterValidation("bcryptlen", validateBcryptLength); err != nil {
		panic(err)
	}
}

// Validate runs struct validation and reports the first failing field as a VALIDATION_ERROR.
func Validate(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", ValidationMessage(err), err)
	}
	return nil
}

// ValidationMessage turns a validator error into a message naming the offending field.
func ValidationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return "Invalid input"
	}

	fe := validationErrors[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, lowerFirst(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain digits only", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "username":
		return fmt.Sprintf("%s may only contain lowercase letters, digits, dots and underscores", field)
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordBytes)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// max counts runes; bcrypt counts bytes.
func validateBcryptLength(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPasswordBytes
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
