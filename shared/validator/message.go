package validator

import (
	"errors"
	"strings"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":      "{field} is required",
	"required_with": "{field} is required when {param} is set",
	"gte":           "{field} must be greater than or equal to {param}",
	"lte":           "{field} must be less than or equal to {param}",
	"oneof":         "{field} must be one of {param}",
	"max":           "{field} must be at most {param}",
	"min":           "{field} must be at least {param}",
	"email":         "{field} must be a valid email address",
	"len":           "{field} must be exactly {param} characters long",
	"number":        "{field} must contain digits only",
	"uuid":          "{field} must be a valid id",
	"nefield":       "{field} must differ from {param}",
	"mimetypes":     "{field} must be one of {param}",
	"maxfilesize":   "{field} must not exceed {param} MB",
}

// message renders the first failed rule that has a template.
func message(err error) string {
	var errs val.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	for _, fe := range errs {
		tmpl, ok := messages[fe.Tag()]
		if !ok {
			continue
		}

		field := fe.Field()
		if field == "" {
			field = "value"
		}

		return strings.NewReplacer("{field}", field, "{param}", fe.Param()).Replace(tmpl)
	}

	return errs.Error()
}
