package models

import "time"

// ContactMessage stores one accepted contact form submission. Rows are append-only.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Email     string    `gorm:"type:text;not null;index" json:"email"`
	Subject   *string   `gorm:"type:text" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName keeps the table name used by the hosted portfolio database.
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// SubjectOrDefault returns the subject, or fallback when none was given.
func (m ContactMessage) SubjectOrDefault(fallback string) string {
	if m.Subject == nil || *m.Subject == "" {
		return fallback
	}
	return *m.Subject
}
