package database

import (
	"gorm.io/gorm"

	"github.com/gazer/client-registry/internal/utils"
)

// Paginate applies a zero-based slice window to a GORM query.
// One extra row is fetched so the caller can tell whether a next page exists.
func Paginate(params utils.PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset()).Limit(params.Size + 1)
	}
}

// VisibleTo restricts a clients query to the owners in the visibility set.
func VisibleTo(owners []uint64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id IN ?", owners)
	}
}
