package models

import (
	"time"
)

// Subscriber is a local mirror of the CRM's subscriber list, kept fresh by
// workers.SubscriberSyncWorker. Email is the upsert key.
type Subscriber struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string    `gorm:"index" json:"external_user_id"` // empty for non-account subscribers
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Name           string    `json:"name"`
	Subscribed     bool      `gorm:"default:true;index" json:"subscribed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewsletterStatus indicates whether an issue has gone out yet
type NewsletterStatus string

const (
	NewsletterStatusDraft NewsletterStatus = "draft"
	NewsletterStatusSent  NewsletterStatus = "sent"
)

// Newsletter is one issue of the marketing newsletter.
type Newsletter struct {
	ID        string           `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Subject   string           `gorm:"not null" json:"subject"`
	Preheader string           `json:"preheader"`
	BodyHTML  string           `gorm:"type:text" json:"body_html"`
	Status    NewsletterStatus `gorm:"not null;default:'draft'" json:"status"`
	SentAt    *time.Time       `json:"sent_at,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}
