package models

import "time"

// PostLike represents a user's like on a post.
// The combination of UserID and PostID must be unique.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_post_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_post_like_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
	Post Post `gorm:"foreignKey:PostID" json:"post"`
}
