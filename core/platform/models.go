package platform

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned when no local user matches an ID or email.
var ErrUserNotFound = errors.New("user not found")

// User is a local account record. It is read-only to this system.
type User struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// MappedUser is a local user with its stored Stripe customer ID, if any.
type MappedUser struct {
	ID         uint64 `json:"id"`
	Email      string `json:"email"`
	CustomerID string `json:"customer_id,omitempty"`
}

// Page is one page of a user listing.
type Page struct {
	Users      []MappedUser `json:"users"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	PerPage    int          `json:"per_page"`
	TotalPages int          `json:"total_pages"`
}

// WordPressUser represents the '<prefix>users' table of a WordPress installation.
type WordPressUser struct {
	ID             uint64    `gorm:"column:ID;primaryKey"`
	UserEmail      string    `gorm:"column:user_email;size:100"`
	UserRegistered time.Time `gorm:"column:user_registered"`
}

// WordPressUserMeta represents the '<prefix>usermeta' table.
type WordPressUserMeta struct {
	UmetaID   uint64 `gorm:"column:umeta_id;primaryKey"`
	UserID    uint64 `gorm:"column:user_id;index"`
	MetaKey   string `gorm:"column:meta_key;size:255;index"`
	MetaValue string `gorm:"column:meta_value;type:longtext"`
}

// NativeUser represents the 'users' table of the native profile.
type NativeUser struct {
	ID        uint64    `gorm:"column:id;primaryKey"`
	Email     string    `gorm:"column:email;size:255;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

// TableName overrides the table name for the native profile.
func (NativeUser) TableName() string {
	return "users"
}

// NativeUserAttribute represents the 'user_attributes' key/value table.
type NativeUserAttribute struct {
	ID        uint64 `gorm:"column:id;primaryKey"`
	UserID    uint64 `gorm:"column:user_id;index"`
	AttrKey   string `gorm:"column:attr_key;size:191;index"`
	AttrValue string `gorm:"column:attr_value;type:text"`
}

// TableName overrides the table name for the native profile.
func (NativeUserAttribute) TableName() string {
	return "user_attributes"
}
