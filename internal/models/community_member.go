package models

import "time"

// CommunityMember maps users to the communities they joined.
// The composite primary key doubles as the uniqueness constraint that
// resolves concurrent duplicate joins.
type CommunityMember struct {
	CommunityID uint       `gorm:"primaryKey;autoIncrement:false" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	UserID      uint       `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (CommunityMember) TableName() string {
	return "community_members"
}
