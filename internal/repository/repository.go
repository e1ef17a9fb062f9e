package repository

import (
	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/utils"
)

// Visibility is the owner set a caller may see: the shared owner and the caller.
type Visibility struct {
	Owner uint64
}

// VisibleTo returns the visibility set {0, ownerID}.
func VisibleTo(ownerID uint64) Visibility {
	return Visibility{Owner: ownerID}
}

// OwnerIDs returns both members of the set.
func (v Visibility) OwnerIDs() []uint64 {
	return []uint64{constants.SharedOwnerID, v.Owner}
}

// ClientFilter holds exact-match options for listing clients.
// Empty strings are ignored.
type ClientFilter struct {
	Visibility     Visibility
	FirstName      string
	LastName       string
	PassportSeries string
	PassportNumber string
	Page           utils.PageRequest
}

// ClientRepository defines the interface for client data access
type ClientRepository interface {
	// CreateWithHook inserts a client and runs onCreated in the same transaction.
	// An error from onCreated rolls the insert back.
	CreateWithHook(client *models.Client, onCreated func(*models.Client) error) error

	// FindByID finds a client visible to the caller
	FindByID(id uint64, vis Visibility) (*models.Client, error)

	// List returns one slice of clients matching the filter, ordered by id
	List(filter ClientFilter) (utils.Slice[models.Client], error)

	// ExistsByPassport reports whether a visible client holds the passport
	ExistsByPassport(series, number string, vis Visibility) (bool, error)

	// Delete removes a visible client and returns the number of rows removed
	Delete(id uint64, vis Visibility) (int64, error)

	// DeleteAllByOwner removes every client owned by ownerID in one transaction
	DeleteAllByOwner(ownerID uint64) (int64, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Save persists the user's columns without touching its role
	Save(user *models.User) error

	// FindByID finds a user by ID with its role
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email with its role
	FindByEmail(email string) (*models.User, error)

	// Delete removes a user row
	Delete(id uint64) error
}

// RoleRepository defines the interface for role data access
type RoleRepository interface {
	// FindByID finds a role by ID
	FindByID(id uint64) (*models.Role, error)

	// ListUsers lists the users holding a role
	ListUsers(roleID uint64) ([]models.User, error)
}
