package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"vidtree/models"
)

var validate *validator.Validate

// Node ids are generated client-side; accept uuid-style and short random ids
// but nothing that could smuggle mongo operators or path separators.
var nodeIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

func init() {
	validate = validator.New()

	// Register custom validations
	validate.RegisterValidation("node_id", validateNodeID)
	validate.RegisterValidation("tree_status", validateTreeStatus)

	// Register custom tag name function
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidateStruct validates a struct using validator tags
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}

func validateNodeID(fl validator.FieldLevel) bool {
	return nodeIDPattern.MatchString(fl.Field().String())
}

func validateTreeStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.TreeStatusPublic, models.TreeStatusPrivate:
		return true
	}
	return false
}

func formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, fieldError := range validationErrors {
		messages = append(messages, formatFieldError(fieldError))
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "node_id":
		return fmt.Sprintf("%s must be a valid node id", field)
	case "tree_status":
		return fmt.Sprintf("%s must be either %q or %q", field, models.TreeStatusPublic, models.TreeStatusPrivate)
	default:
		return fmt.Sprintf("%s failed validation on %s", field, fe.Tag())
	}
}
