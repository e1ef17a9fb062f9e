package models

// Role is an authority label granted to every session of a user holding it.
type Role struct {
	ID       uint64 `gorm:"primarykey" json:"id"`
	RoleName string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
}

func (Role) TableName() string {
	return "user_roles"
}

// Authority returns the name checked by path authorization rules.
func (r Role) Authority() string {
	return r.RoleName
}
