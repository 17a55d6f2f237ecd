package service

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"unicode"

	"github.com/noah-isme/portfolio-contact-api/internal/models"
)

const (
	defaultSubjectLine = "New Message"
	subjectPlaceholder = "No subject"
)

const contactHTMLTemplate = `<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: linear-gradient(135deg, #0a0f1f 0%, #1a1f3f 100%); padding: 30px; border-radius: 12px; border: 1px solid #00eaff33;">
    <h1 style="color: #00eaff; margin: 0 0 20px 0; font-size: 24px;">New Portfolio Message</h1>
    <div style="background: rgba(0, 234, 255, 0.1); padding: 20px; border-radius: 8px; margin-bottom: 20px;">
      <p style="color: #fff; margin: 0 0 10px 0;"><strong style="color: #00eaff;">From:</strong> {{.Name}}</p>
      <p style="color: #fff; margin: 0 0 10px 0;"><strong style="color: #00eaff;">Email:</strong> {{.Email}}</p>
      <p style="color: #fff; margin: 0;"><strong style="color: #00eaff;">Subject:</strong> {{.Subject}}</p>
    </div>
    <div style="background: rgba(255, 255, 255, 0.05); padding: 20px; border-radius: 8px;">
      <p style="color: #00eaff; margin: 0 0 10px 0; font-weight: bold;">Message:</p>
      <p style="color: #e0e0e0; margin: 0; white-space: pre-wrap; line-height: 1.6;">{{.Message}}</p>
    </div>
    <div style="margin-top: 20px; padding-top: 20px; border-top: 1px solid #00eaff33;">
      <p style="color: #666; font-size: 12px; margin: 0;">Sent from your portfolio website</p>
    </div>
  </div>
</div>
`

const contactTextTemplate = `New message from your portfolio:

From: {{.Name}}
Email: {{.Email}}
Subject: {{.Subject}}

Message:
{{.Message}}`

type contactTemplateData struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// EmailComposer renders contact messages into emails for a single recipient.
type EmailComposer struct {
	from    string
	to      string
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewEmailComposer builds a composer sending from `from` to the owner address `to`.
func NewEmailComposer(from, to string) *EmailComposer {
	return &EmailComposer{
		from: from,
		to:   to,
		html: htmltemplate.Must(htmltemplate.New("contact_html").Parse(contactHTMLTemplate)),
		text: texttemplate.Must(texttemplate.New("contact_text").Parse(contactTextTemplate)),
	}
}

// Compose renders the notification email for message.
func (c *EmailComposer) Compose(message models.ContactMessage) (Email, error) {
	data := contactTemplateData{
		Name:    message.Name,
		Email:   message.Email,
		Subject: message.SubjectOrDefault(subjectPlaceholder),
		Message: message.Message,
	}

	var htmlBody bytes.Buffer
	if err := c.html.Execute(&htmlBody, data); err != nil {
		return Email{}, fmt.Errorf("render html body: %w", err)
	}

	var textBody bytes.Buffer
	if err := c.text.Execute(&textBody, data); err != nil {
		return Email{}, fmt.Errorf("render text body: %w", err)
	}

	subject := fmt.Sprintf("[Portfolio] %s - from %s", message.SubjectOrDefault(defaultSubjectLine), message.Name)

	return Email{
		From:    c.from,
		To:      []string{c.to},
		ReplyTo: message.Email,
		Subject: headerValue(subject),
		HTML:    htmlBody.String(),
		Text:    textBody.String(),
	}, nil
}

// headerValue keeps the text verbatim but folds each run of control
// characters (CR, LF, tabs) into one space so it stays a single header line.
func headerValue(value string) string {
	return strings.Join(strings.FieldsFunc(value, unicode.IsControl), " ")
}
