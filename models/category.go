package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	TenantID    uint           `gorm:"not null;index" json:"tenant_id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	DisplayName string         `gorm:"type:varchar(255)" json:"display_name"`
	SortOrder   int            `gorm:"not null;default:0" json:"sort_order"`
	ColorHex    string         `gorm:"type:varchar(7)" json:"color_hex"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	ParentID    *uint          `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// CategoryRelationship adalah junction table many-to-many parent/subcategory.
// Nesting pada tree view tetap dikendalikan oleh Category.ParentID; relasi di
// sini hanya dipakai untuk listing manajemen subkategori.
type CategoryRelationship struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TenantID         uint      `gorm:"not null;index" json:"tenant_id"`
	ParentCategoryID uint      `gorm:"not null;uniqueIndex:idx_cat_rel_pair" json:"parent_category_id"`
	SubcategoryID    uint      `gorm:"not null;uniqueIndex:idx_cat_rel_pair" json:"subcategory_id"`
	SortOrder        int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}
