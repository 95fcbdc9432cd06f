package models

import "time"

// ResponseStatus is the moderation state of a response.
type ResponseStatus string

const (
	// ResponseStatusPending is the initial state of every response.
	ResponseStatusPending ResponseStatus = "pending"
	// ResponseStatusAccepted is set by the post's author; terminal.
	ResponseStatusAccepted ResponseStatus = "accepted"
	// ResponseStatusRejected is set by the post's author; terminal.
	ResponseStatusRejected ResponseStatus = "rejected"
)

// Response is a reply submitted to a post, awaiting the post author's verdict.
type Response struct {
	ID     uint           `gorm:"primaryKey" json:"id"`
	PostID uint           `gorm:"not null;index" json:"post_id"`
	Post   Post           `gorm:"foreignKey:PostID" json:"post"`
	UserID uint           `gorm:"not null;index" json:"user_id"`
	User   User           `gorm:"foreignKey:UserID" json:"user"`
	Text   string         `gorm:"size:50;not null" json:"text"`
	Status ResponseStatus `gorm:"type:varchar(10);not null;default:'pending'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
