// Package contactform holds the contact form payload and the validation rules
// shared by the API and its clients.
package contactform

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MinMessageLength is the minimum number of characters a message must contain.
const MinMessageLength = 10

// Rejection is a validation failure whose text is safe to show to the submitter.
type Rejection string

func (r Rejection) Error() string { return string(r) }

const (
	// ErrMissingFields indicates name, email or message is blank.
	ErrMissingFields Rejection = "Missing required fields"
	// ErrInvalidEmail indicates the email does not look like local@domain.tld.
	ErrInvalidEmail Rejection = "Invalid email format"
	// ErrMessageTooShort indicates the message is under MinMessageLength characters.
	ErrMessageTooShort Rejection = "Message must be at least 10 characters"
)

// emailChar excludes every rune a browser treats as whitespace, including
// vertical tab, the Unicode space separators and the byte order mark.
const emailChar = `[^\s\v\p{Z}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

// Submission is a single contact form payload.
type Submission struct {
	Name    string `json:"name" validate:"max=100"`
	Email   string `json:"email" validate:"max=255"`
	Subject string `json:"subject,omitempty" validate:"max=200"`
	Message string `json:"message" validate:"min=10,max=1000"`
}

// Normalize returns a copy of the submission with every field trimmed.
func Normalize(s Submission) Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Subject: strings.TrimSpace(s.Subject),
		Message: strings.TrimSpace(s.Message),
	}
}

// Validate applies the acceptance rules in order and returns the first failure.
func Validate(s Submission) error {
	s = Normalize(s)

	if s.Name == "" || s.Email == "" || s.Message == "" {
		return ErrMissingFields
	}

	if !emailPattern.MatchString(s.Email) {
		return ErrInvalidEmail
	}

	if utf8.RuneCountInString(s.Message) < MinMessageLength {
		return ErrMessageTooShort
	}

	return nil
}

var formValidator = validator.New()

// BoundsError lists the form fields exceeding their length bounds.
type BoundsError struct {
	Fields []string
}

func (e *BoundsError) Error() string {
	return "fields out of bounds: " + strings.Join(e.Fields, ", ")
}

// CheckBounds enforces the form length limits. Browsers and clients run it for
// fast feedback; the server does not rely on it.
func CheckBounds(s Submission) error {
	err := formValidator.Struct(Normalize(s))
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields = append(fields, strings.ToLower(fieldErr.Field()))
	}
	return &BoundsError{Fields: fields}
}
