package models

import "time"

// APIKey holds only the hash and display prefix of a key; the plaintext is never stored.
type APIKey struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	UserID      uint64     `gorm:"not null;index" json:"user_id"`
	Name        string     `gorm:"type:varchar(100);not null" json:"name"`
	Description string     `gorm:"type:varchar(500)" json:"description"`
	KeyHash     string     `gorm:"type:char(64);uniqueIndex;not null" json:"-"`
	Prefix      string     `gorm:"type:varchar(20);not null" json:"prefix"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	LastUsedAt  *time.Time `json:"last_used_at"`
	CreatedAt   time.Time  `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (APIKey) TableName() string { return "api_keys" }
