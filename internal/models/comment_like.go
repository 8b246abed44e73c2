package models

import "time"

// CommentLike represents a user's like on a comment.
// The combination of UserID and CommentID must be unique.
type CommentLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_comment_like_user_comment" json:"user_id"`
	CommentID uint      `gorm:"not null;uniqueIndex:idx_comment_like_user_comment" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`

	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Comment Comment `gorm:"foreignKey:CommentID" json:"comment"`
}
