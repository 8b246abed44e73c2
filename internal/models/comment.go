package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. A nil ParentCommentID marks a
// top-level comment; replies reference their parent by identifier only.
// The reply tree is derived in the repository layer, not stored as live
// object references.
type Comment struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Content         string `gorm:"type:text;not null" json:"content"`
	UserID          uint   `gorm:"not null;index" json:"user_id"`
	User            User   `gorm:"foreignKey:UserID" json:"author"`
	PostID          uint   `gorm:"not null;index" json:"post_id"`
	ParentCommentID *uint  `gorm:"index" json:"parent_comment_id"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this comment (computed)
	Liked bool `gorm:"->" json:"liked"`
	// Replies holds the direct children, attached by the repository.
	Replies   []*Comment     `gorm:"-" json:"replies"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
