// Package validate holds the pure input validation for inquiry submission.
// All checks are deterministic and side-effect free; the first failing field
// is reported, in a stable order, so callers get predictable error messages.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"fairhold/marketplace/internal/models"
)

// FieldError describes a validation failure on a single field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// phonePattern permits digits, spaces and the + - ( ) characters only.
// Letters are never allowed.
var phonePattern = regexp.MustCompile(`^[0-9+\-() ]+$`)

// minPhoneDigits is the minimum number of actual digits a phone number must
// contain after formatting characters are ignored.
const minPhoneDigits = 7

var v = newValidator()

// Each custom tag delegates to the named check of the same field, so the
// tag set and the named checks cannot drift apart.
func newValidator() *validator.Validate {
	val := validator.New()
	_ = val.RegisterValidation("propertyid", func(fl validator.FieldLevel) bool {
		return PropertyID(fl.Field().String()) == nil
	})
	_ = val.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return Message(fl.Field().String()) == nil
	})
	_ = val.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return PhoneNumber(fl.Field().String()) == nil
	})
	_ = val.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		_, ferr := ContactMethod(fl.Field().String())
		return ferr == nil
	})
	return val
}

// InquiryFields is the raw submitted shape of an inquiry.
type InquiryFields struct {
	PropertyID       string `json:"property_id" validate:"propertyid"`
	Message          string `json:"message" validate:"notblank"`
	PhoneNumber      string `json:"phone_number" validate:"phone"`
	PreferredContact string `json:"preferred_contact" validate:"contact"`
}

// PropertyID checks that s is a syntactically valid UUID.
func PropertyID(s string) *FieldError {
	if _, err := uuid.Parse(s); err != nil {
		return &FieldError{Field: "property_id", Message: "must be a valid property identifier"}
	}
	return nil
}

// Message checks that s is non-empty and not whitespace-only.
func Message(s string) *FieldError {
	if strings.TrimSpace(s) == "" {
		return &FieldError{Field: "message", Message: "message is required"}
	}
	return nil
}

// PhoneNumber checks that s matches the loose international phone pattern:
// digits, spaces, +, -, ( and ) only, with at least minPhoneDigits digits.
func PhoneNumber(s string) *FieldError {
	if s == "" || !phonePattern.MatchString(s) {
		return &FieldError{Field: "phone_number", Message: "phone number may only contain digits, spaces and + - ( )"}
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < minPhoneDigits {
		return &FieldError{Field: "phone_number", Message: "phone number is too short"}
	}
	return nil
}

// ContactMethod checks that s is one of the supported contact methods and
// returns the typed value.
func ContactMethod(s string) (models.ContactMethod, *FieldError) {
	m := models.ContactMethod(s)
	if !m.Valid() {
		return "", &FieldError{Field: "preferred_contact", Message: "preferred contact must be one of email, phone or whatsapp"}
	}
	return m, nil
}

// Inquiry validates all submitted inquiry fields and returns the first
// failure. The struct tags drive the pass; the failing field is re-run
// through its named check for the message. Struct field order is fixed, so
// repeated submissions of the same bad input produce the same error.
func Inquiry(in InquiryFields) *FieldError {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	ferrs, ok := err.(validator.ValidationErrors)
	if !ok || len(ferrs) == 0 {
		return &FieldError{Field: "inquiry", Message: err.Error()}
	}
	switch ferrs[0].StructField() {
	case "PropertyID":
		return PropertyID(in.PropertyID)
	case "Message":
		return Message(in.Message)
	case "PhoneNumber":
		return PhoneNumber(in.PhoneNumber)
	default:
		_, ferr := ContactMethod(in.PreferredContact)
		return ferr
	}
}
