package models

import "time"

// Gender values accepted on a profile.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Profile carries the board-specific attributes of a user. It is created at
// signup and lazily re-created whenever a post or response action finds it
// missing; the unique index on UserID keeps concurrent get-or-create calls
// from producing duplicates.
type Profile struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"not null;uniqueIndex" json:"user_id"`
	User       User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user"`
	Gender     string `gorm:"size:6;not null;default:'male'" json:"gender"`
	AvatarPath string `gorm:"size:255" json:"avatar_path"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
