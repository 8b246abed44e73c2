package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post published inside a community.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"author"`
	CommunityID uint       `gorm:"not null;index" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	// LikesCount and CommentsCount are not persisted; computed at query time
	LikesCount    int `gorm:"->" json:"likes_count"`
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
