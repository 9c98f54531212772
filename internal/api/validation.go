package api

import (
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PhonePattern accepts Kazakhstan numbers in +7XXXXXXXXXX form.
var PhonePattern = regexp.MustCompile(`^\+7\d{10}$`)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags used by request
// structs. It is safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return PhonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	})
}

// ValidationMessage turns a binding error into a readable message, one
// clause per failed field.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request body"
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fieldMessage(fe))
	}
	return strings.Join(messages, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "phone":
		return field + " must match +7XXXXXXXXXX"
	case "username":
		return field + " may contain only letters, digits, _ and -"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "gte":
		return field + " must be greater than or equal to " + fe.Param()
	case "gt":
		return field + " must be greater than " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	default:
		return field + " is invalid"
	}
}
