package models

import (
	"fmt"
	"time"
)

// Post is an offer published by a profile under a category.
type Post struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	AuthorID   uint     `gorm:"not null;index" json:"author_id"`
	Author     Profile  `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID uint     `gorm:"not null;index" json:"category_id"`
	Category   Category `gorm:"foreignKey:CategoryID" json:"category"`
	Title      string   `gorm:"size:100;not null" json:"title"`
	Text       string   `gorm:"type:text;not null" json:"text"`
	// ResponsesCount is not persisted; computed at query time
	ResponsesCount int `gorm:"->" json:"responses_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// URL returns the post's detail path.
func (p *Post) URL() string {
	return fmt.Sprintf("/api/posts/%d", p.ID)
}

// AbsoluteURL returns the post's detail URL under the given site domain.
func (p *Post) AbsoluteURL(domain string) string {
	return fmt.Sprintf("http://%s%s", domain, p.URL())
}
