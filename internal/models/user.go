package models

import (
	"time"
)

type User struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Username  string    `gorm:"type:varchar(20);not null" json:"username"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	RoleID    uint64    `gorm:"not null" json:"role_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"role"`
}

// HasAuthority reports whether the user's role grants authority.
func (u User) HasAuthority(authority string) bool {
	return u.Role.Authority() == authority
}
