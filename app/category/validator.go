package category

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var categoryRules = map[string]any{
	"name": "required,max=255",
}

// ValidationError lists the rejected input fields with a message per field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type CategoryValidator struct {
	validate *validator.Validate
}

func NewCategoryValidator() *CategoryValidator {
	return &CategoryValidator{
		validate: validator.New(),
	}
}

func (v *CategoryValidator) Validations(input map[string]any) error {
	fields := make(map[string]string)

	if name, ok := input["name"]; ok && name != nil {
		if _, isString := name.(string); !isString {
			fields["name"] = "must be a string"
			return &ValidationError{Fields: fields}
		}
	}

	for field, err := range v.validate.ValidateMap(input, categoryRules) {
		fields[field] = describe(err)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func describe(err any) string {
	fieldErr, ok := err.(error)
	if !ok {
		return "is invalid"
	}

	var ve validator.ValidationErrors
	if errors.As(fieldErr, &ve) && len(ve) > 0 {
		switch ve[0].Tag() {
		case "required":
			return "is required"
		case "max":
			return fmt.Sprintf("must not exceed %s characters", ve[0].Param())
		default:
			return fmt.Sprintf("failed on the '%s' rule", ve[0].Tag())
		}
	}
	return fieldErr.Error()
}
