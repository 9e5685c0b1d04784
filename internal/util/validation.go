package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// RegisterValidators adds the custom rules used by request structs to gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}
	return v.RegisterValidation("habiticon", func(fl validator.FieldLevel) bool {
		icon := fl.Field().String()
		for _, known := range HabitIcons {
			if icon == known {
				return true
			}
		}
		return false
	})
}

// ValidationMessage turns a binding error into a message for API clients.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request body"
	}
	fe := verrs[0]
	field := lowerFirst(fe.Field())
	if strings.HasPrefix(field, "targetDays[") {
		return ErrInvalidTargetDays.Error()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "notblank":
		return fmt.Sprintf("%s cannot be empty", field)
	case "max":
		return fmt.Sprintf("%s must be %s characters or less", field, fe.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color like #6366f1", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "habiticon":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(HabitIcons, " "))
	case "min", "gte", "lte":
		return fmt.Sprintf("%s is out of range", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
