package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels.
var FieldLabels = map[string]string{
	"RestaurantName": "Restaurant name",
	"Description":    "Description",
	"Phone":          "Phone",
	"Website":        "Website",
	"Cuisine":        "Cuisine",
	"DietaryOptions": "Dietary options",
	"Street":         "Street",
	"City":           "City",
	"State":          "State",
	"PostalCode":     "Postal code",
	"Country":        "Country",
	"Open":           "Opening time",
	"Close":          "Closing time",
	"MenuItems":      "Menu items",
	"Category":       "Category",
	"Name":           "Name",
	"Price":          "Price",
	"SpicyLevel":     "Spicy level",
	"Rating":         "Rating",
	"Comment":        "Comment",
	"Images":         "Images",
	"Email":          "Email",
	"Password":       "Password",
	"DisplayName":    "Display name",
	"Role":           "Role",
}

// FieldError is one client-facing validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormatValidationErrors converts validator errors into field messages.
func FormatValidationErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{
			Field:   namespace(e),
			Message: formatSingleError(e),
		})
	}
	return out
}

// Summary joins the messages of err into one line.
func Summary(err error) string {
	fields := FormatValidationErrors(err)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

// namespace drops the root struct name: "BasicInfoStep.Cuisine" -> "Cuisine".
func namespace(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s needs at least %s entries", label, param)
		}
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at most %s characters", label, param)
		}
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s allows at most %s entries", label, param)
		}
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s is not a valid email address", label)
	case "url":
		return fmt.Sprintf("%s is not a valid URL", label)
	case "valid_name":
		return fmt.Sprintf("%s may only contain letters, numbers, spaces and common punctuation", label)
	case "valid_phone":
		return fmt.Sprintf("%s is not a valid phone number (7-15 digits, optional +)", label)
	case "no_emoji":
		return fmt.Sprintf("%s must not contain emoji or symbols", label)
	case "hhmm":
		return fmt.Sprintf("%s must use the HH:MM format", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}

func getFieldLabel(field string) string {
	if label, ok := FieldLabels[field]; ok {
		return label
	}
	return field
}
