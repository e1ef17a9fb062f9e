package dto

import "github.com/gazer/client-registry/internal/models"

// UserDTO represents a user in view models
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ToUserDTO converts models.User to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role.Authority(),
	}
}

// ToUserDTOPtr returns nil for anonymous callers
func ToUserDTOPtr(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	dto := ToUserDTO(*user)
	return &dto
}

// RoleDTO represents a role offered on the registration form
type RoleDTO struct {
	ID       uint64 `json:"id"`
	RoleName string `json:"role_name"`
}

// ToRoleDTO converts models.Role to RoleDTO
func ToRoleDTO(role models.Role) RoleDTO {
	return RoleDTO{
		ID:       role.ID,
		RoleName: role.RoleName,
	}
}
