// Package models contains data structures for the application's domain models.
package models

import "time"

// Group names used by the access gate. Every signup joins GroupAuthors;
// GroupAdmin is granted manually.
const (
	GroupAuthors = "authors"
	GroupAdmin   = "admin"
)

// User represents a registered account on the board.
type User struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Username      string  `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email         string  `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password      string  `gorm:"not null" json:"-"`
	FirstName     string  `gorm:"size:30" json:"first_name"`
	LastName      string  `gorm:"size:30" json:"last_name"`
	EmailVerified bool    `gorm:"not null;default:false" json:"email_verified"`
	VerifyToken   string  `gorm:"size:36;index" json:"-"`
	Groups        []Group `gorm:"many2many:user_groups" json:"groups,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InGroup reports whether the user's preloaded groups contain name.
func (u *User) InGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// Group is a named capability group (authors, admin).
type Group struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:150;not null;uniqueIndex" json:"name"`
}

// TableName specifies the table name for GORM.
func (Group) TableName() string {
	return "groups"
}
