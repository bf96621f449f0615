package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationDetails converts validator errors into field-level issues keyed by
// JSON path, e.g. "items[0].quantity".
func validationDetails(err error) []fieldIssue {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldIssue{{Field: "body", Message: err.Error()}}
	}
	details := make([]fieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		details = append(details, fieldIssue{Field: field, Message: describe(fe)})
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		return fmt.Sprintf("must contain at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}
