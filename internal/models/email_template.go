package models

// EmailTemplate is a localizable email template stored in the database.
// Placeholders in Subject and Body use the {{.key}} form and are filled in
// by the email delivery task.
type EmailTemplate struct {
	TemplateID string `bson:"template_id" json:"template_id"`
	Locale     string `bson:"locale" json:"locale"`
	Subject    string `bson:"subject" json:"subject"`
	Body       string `bson:"body" json:"body"`
}
