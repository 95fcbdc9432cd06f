package models

// Category is a board section posts are filed under. The set of names is
// fixed and loaded from an embedded fixture at migration time.
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:13;not null;uniqueIndex" json:"name"`
	Subscribers []User `gorm:"many2many:category_users" json:"subscribers,omitempty"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}

// CategoryUser is the subscription join row linking a user to a category.
// The composite unique index enforces at-most-once subscription at the
// storage layer; no application lock is taken.
type CategoryUser struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CategoryID uint `gorm:"not null;uniqueIndex:idx_category_user" json:"category_id"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_category_user" json:"user_id"`
}

// TableName specifies the table name for GORM.
func (CategoryUser) TableName() string {
	return "category_users"
}
