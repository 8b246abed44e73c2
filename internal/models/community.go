package models

import "time"

// Community represents a topical community users can join and post in.
type Community struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"size:50;not null" json:"name"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Category        string    `gorm:"size:50;not null;default:'general'" json:"category"`
	IsPrivate       bool      `gorm:"not null;default:false" json:"is_private"`
	CreatedByUserID uint      `gorm:"not null;index" json:"created_by_user_id"`
	CreatedByUser   *User     `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// MemberCount is not persisted; computed at query time.
	MemberCount int `gorm:"->" json:"member_count"`
	// Members is resolved from the membership join table, never written
	// through this struct.
	Members []PublicProfile `gorm:"-" json:"members,omitempty"`
}

// TableName specifies the table name for GORM.
func (Community) TableName() string {
	return "communities"
}
