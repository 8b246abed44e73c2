// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered CommunityHub account.
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Username      string         `gorm:"unique;not null" json:"username"`
	Password      string         `gorm:"not null" json:"-"`
	FirstName     string         `gorm:"not null" json:"first_name"`
	LastName      string         `gorm:"not null" json:"last_name"`
	Bio           string         `json:"bio"`
	Avatar        string         `json:"avatar"`
	ProfilePicURL string         `json:"profile_pic_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// PublicProfile is the user representation safe to expose to other users.
type PublicProfile struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Bio           string    `json:"bio"`
	Avatar        string    `json:"avatar"`
	ProfilePicURL string    `json:"profile_pic_url"`
	CreatedAt     time.Time `json:"created_at"`
}

// Public returns the public view of the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Bio:           u.Bio,
		Avatar:        u.Avatar,
		ProfilePicURL: u.ProfilePicURL,
		CreatedAt:     u.CreatedAt,
	}
}
