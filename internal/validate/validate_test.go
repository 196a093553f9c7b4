package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fairhold/marketplace/internal/models"
)

func validFields() InquiryFields {
	return InquiryFields{
		PropertyID:       "550e8400-e29b-41d4-a716-446655440000",
		Message:          "Interested in a viewing this weekend.",
		PhoneNumber:      "+27 12 345 6789",
		PreferredContact: "email",
	}
}

func TestInquiry_ValidInput(t *testing.T) {
	assert.Nil(t, Inquiry(validFields()))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{"plain message", "Is the property still available?", false},
		{"empty", "", true},
		{"whitespace only", "   \t\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Message(tt.message)
			if tt.wantErr {
				assert.NotNil(t, err)
				assert.Equal(t, "message", err.Field)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestPhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr bool
	}{
		{"international", "+27123456789", false},
		{"spaced", "+27 12 345 6789", false},
		{"parenthesized", "(012) 345-6789", false},
		{"letters mixed in", "abc123", true},
		{"empty", "", true},
		{"too few digits", "+27 12", true},
		{"alphabetic", "call me", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PhoneNumber(tt.phone)
			if tt.wantErr {
				assert.NotNil(t, err)
				assert.Equal(t, "phone_number", err.Field)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

func TestContactMethod(t *testing.T) {
	for _, valid := range []string{"email", "phone", "whatsapp"} {
		m, err := ContactMethod(valid)
		assert.Nil(t, err)
		assert.Equal(t, models.ContactMethod(valid), m)
	}

	_, err := ContactMethod("invalid")
	assert.NotNil(t, err)
	assert.Equal(t, "preferred_contact", err.Field)

	_, err = ContactMethod("")
	assert.NotNil(t, err)
}

func TestPropertyID(t *testing.T) {
	assert.Nil(t, PropertyID("550e8400-e29b-41d4-a716-446655440000"))
	assert.NotNil(t, PropertyID("not-a-uuid"))
	assert.NotNil(t, PropertyID(""))
}

func TestInquiry_FirstFailureWins(t *testing.T) {
	in := validFields()
	in.PropertyID = "bogus"
	in.Message = ""
	err := Inquiry(in)
	assert.NotNil(t, err)
	// property_id is checked before message
	assert.Equal(t, "property_id", err.Field)
}

func TestInquiry_MessagesMatchFieldChecks(t *testing.T) {
	in := validFields()
	in.PhoneNumber = "abc123"
	err := Inquiry(in)
	assert.NotNil(t, err)
	assert.Equal(t, PhoneNumber("abc123").Message, err.Message)

	in = validFields()
	in.PreferredContact = "carrier pigeon"
	err = Inquiry(in)
	assert.NotNil(t, err)
	_, want := ContactMethod("carrier pigeon")
	assert.Equal(t, want.Message, err.Message)
}

func TestInquiry_RejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*InquiryFields)
		field  string
	}{
		{"empty message", func(f *InquiryFields) { f.Message = "" }, "message"},
		{"letters in phone", func(f *InquiryFields) { f.PhoneNumber = "abc123" }, "phone_number"},
		{"unknown contact method", func(f *InquiryFields) { f.PreferredContact = "invalid" }, "preferred_contact"},
		{"malformed property id", func(f *InquiryFields) { f.PropertyID = "1234" }, "property_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validFields()
			tt.mutate(&in)
			err := Inquiry(in)
			assert.NotNil(t, err)
			assert.Equal(t, tt.field, err.Field)
		})
	}
}
