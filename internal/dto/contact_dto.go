package dto

import (
	"time"

	"github.com/noah-isme/portfolio-contact-api/internal/models"
	"github.com/noah-isme/portfolio-contact-api/pkg/contactform"
)

// ContactRequest is the body accepted by the public contact endpoint.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Submission converts the request into the shared form payload.
func (r ContactRequest) Submission() contactform.Submission {
	return contactform.Submission{
		Name:    r.Name,
		Email:   r.Email,
		Subject: r.Subject,
		Message: r.Message,
	}
}

// ContactResponse is returned once the email provider accepted the message.
type ContactResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// ContactEvent is broadcast after a submission has been delivered.
type ContactEvent struct {
	Type      string    `json:"type"`
	MessageID string    `json:"message_id"`
	RecordID  uint      `json:"record_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Persisted bool      `json:"persisted"`
	SentAt    time.Time `json:"sent_at"`
}

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AdminContactListRequest holds admin listing filters.
type AdminContactListRequest struct {
	Page     int
	PageSize int
	Search   string
}

// AdminContactResponse represents a stored submission for the admin inbox.
type AdminContactResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   *string   `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAdminContactResponse converts a stored message into its admin representation.
func NewAdminContactResponse(model models.ContactMessage) AdminContactResponse {
	return AdminContactResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Subject:   model.Subject,
		Message:   model.Message,
		CreatedAt: model.CreatedAt,
	}
}

// AdminContactListResponse wraps paginated contact results.
type AdminContactListResponse struct {
	Items      []AdminContactResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}
