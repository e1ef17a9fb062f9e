package repository

import (
	"github.com/gazer/client-registry/internal/database"
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/utils"
	"gorm.io/gorm"
)

// GormClientRepository is a GORM implementation of ClientRepository
type GormClientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &GormClientRepository{db: db}
}

// CreateWithHook inserts a client and runs onCreated before commit
func (r *GormClientRepository) CreateWithHook(client *models.Client, onCreated func(*models.Client) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		return onCreated(client)
	})
}

// FindByID finds a client visible to the caller
func (r *GormClientRepository) FindByID(id uint64, vis Visibility) (*models.Client, error) {
	var client models.Client
	if err := r.db.Scopes(database.VisibleTo(vis.OwnerIDs())).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// List retrieves one slice of clients with exact-match filtering
func (r *GormClientRepository) List(filter ClientFilter) (utils.Slice[models.Client], error) {
	query := r.db.Model(&models.Client{}).Scopes(database.VisibleTo(filter.Visibility.OwnerIDs()))

	if filter.FirstName != "" {
		query = query.Where("first_name = ?", filter.FirstName)
	}
	if filter.LastName != "" {
		query = query.Where("last_name = ?", filter.LastName)
	}
	if filter.PassportSeries != "" {
		query = query.Where("passport_series = ?", filter.PassportSeries)
	}
	if filter.PassportNumber != "" {
		query = query.Where("passport_number = ?", filter.PassportNumber)
	}

	var clients []models.Client
	if err := query.Order("client_id").Scopes(database.Paginate(filter.Page)).Find(&clients).Error; err != nil {
		return utils.Slice[models.Client]{}, err
	}

	return utils.NewSlice(clients, filter.Page), nil
}

// ExistsByPassport reports whether a visible client holds the passport
func (r *GormClientRepository) ExistsByPassport(series, number string, vis Visibility) (bool, error) {
	var count int64
	err := r.db.Model(&models.Client{}).
		Scopes(database.VisibleTo(vis.OwnerIDs())).
		Where("passport_series = ? AND passport_number = ?", series, number).
		Count(&count).Error
	return count > 0, err
}

// Delete removes a visible client
func (r *GormClientRepository) Delete(id uint64, vis Visibility) (int64, error) {
	result := r.db.Scopes(database.VisibleTo(vis.OwnerIDs())).Delete(&models.Client{}, id)
	return result.RowsAffected, result.Error
}

// DeleteAllByOwner removes every client owned by ownerID
func (r *GormClientRepository) DeleteAllByOwner(ownerID uint64) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", ownerID).Delete(&models.Client{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	return removed, err
}
