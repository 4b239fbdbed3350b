package models

import (
	"strings"
	"time"

	gorm "gorm.io/gorm"
)

// ProductStatus indicates the publishing status of a catalog product
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "draft"
	ProductStatusScheduled ProductStatus = "scheduled"
	ProductStatusPublished ProductStatus = "published"
	ProductStatusArchived  ProductStatus = "archived"
)

// Product is a shop catalog entry. GoalTags drive the quiz recommender:
// a comma-separated list of goal keys (e.g., "muscle,energy,recovery").
type Product struct {
	ID               string        `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Slug             string        `gorm:"uniqueIndex;not null" json:"slug"`
	Name             string        `gorm:"not null" json:"name"`
	ShortDescription string        `gorm:"type:text" json:"short_description"`
	LongDescription  string        `gorm:"type:text" json:"long_description"`
	PriceCents       int64         `gorm:"not null" json:"price_cents"`
	ImageURL         string        `gorm:"type:text" json:"image_url"`
	GoalTags         string        `gorm:"type:text" json:"goal_tags"`
	Featured         bool          `gorm:"default:false" json:"featured"`
	Status           ProductStatus `gorm:"not null;default:'draft'" json:"status"`
	PublishAt        *time.Time    `json:"publish_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TagList splits GoalTags into trimmed, lowercase keys.
func (p *Product) TagList() []string {
	if p.GoalTags == "" {
		return nil
	}
	parts := strings.Split(p.GoalTags, ",")
	tags := make([]string, 0, len(parts))
	for _, t := range parts {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
