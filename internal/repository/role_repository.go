package repository

import (
	"github.com/gazer/client-registry/internal/models"
	"gorm.io/gorm"
)

// GormRoleRepository is a GORM implementation of RoleRepository
type GormRoleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

// FindByID finds a role by ID
func (r *GormRoleRepository) FindByID(id uint64) (*models.Role, error) {
	var role models.Role
	if err := r.db.First(&role, id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// ListUsers derives the role's member set from users.role_id
func (r *GormRoleRepository) ListUsers(roleID uint64) ([]models.User, error) {
	var users []models.User
	if err := r.db.Where("role_id = ?", roleID).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
