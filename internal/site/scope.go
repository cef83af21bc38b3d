package site

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope narrows a query to one work site. A nil site id means "all sites"
// and leaves the query untouched.
func Scope(siteID *uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if siteID == nil {
			return db
		}
		return db.Where("site_id = ?", *siteID)
	}
}
