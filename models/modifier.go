package models

import (
	"encoding/json"
	"time"
)

const (
	SelectionTypeSingle   = "single"
	SelectionTypeMultiple = "multiple"
)

const (
	PriceTypeAdd      = "add"
	PriceTypeReplace  = "replace"
	PriceTypeMultiply = "multiply"
)

type ModifierGroup struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	TenantID      uint       `gorm:"not null;index" json:"tenant_id"`
	Name          string     `gorm:"type:varchar(255);not null" json:"name"`
	SelectionType string     `gorm:"type:varchar(20);not null;default:'single'" json:"selection_type"`
	IsRequired    bool       `gorm:"not null;default:false" json:"is_required"`
	MinSelections int        `gorm:"not null;default:0" json:"min_selections"`
	MaxSelections int        `gorm:"not null;default:1" json:"max_selections"`
	Modifiers     []Modifier `gorm:"foreignKey:GroupID" json:"modifiers"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

type Modifier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TenantID    uint      `gorm:"not null;index" json:"tenant_id"`
	GroupID     uint      `gorm:"not null;index" json:"group_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	PriceType   string    `gorm:"type:varchar(20);not null;default:'add'" json:"price_type"`
	PriceChange float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price_change"`
	IsDefault   bool      `gorm:"not null;default:false" json:"is_default"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// ProductModifierGroup menghubungkan produk dengan modifier group, dengan
// override per-produk. Satu link per pasangan (product, group).
type ProductModifierGroup struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	TenantID        uint          `gorm:"not null;index" json:"tenant_id"`
	ProductID       uint          `gorm:"not null;uniqueIndex:idx_product_modgroup" json:"product_id"`
	ModifierGroupID uint          `gorm:"not null;uniqueIndex:idx_product_modgroup" json:"modifier_group_id"`
	ModifierGroup   ModifierGroup `gorm:"foreignKey:ModifierGroupID" json:"-"`
	IsRequired      *bool         `json:"is_required,omitempty"`
	MinSelections   *int          `json:"min_selections,omitempty"`
	MaxSelections   *int          `json:"max_selections,omitempty"`
	SortOrder       int           `gorm:"not null;default:0" json:"sort_order"`
	Metadata        string        `gorm:"type:text" json:"metadata"` // JSON, lihat LinkMetadata
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null" json:"updated_at"`
}

// LinkMetadata menyimpan modifier yang tidak ditawarkan untuk produk tertentu.
type LinkMetadata struct {
	ExcludedModifierIDs []uint `json:"excluded_modifier_ids,omitempty"`
}

func (l *ProductModifierGroup) ParseMetadata() LinkMetadata {
	var meta LinkMetadata
	if l.Metadata != "" {
		_ = json.Unmarshal([]byte(l.Metadata), &meta)
	}
	return meta
}

func (l *ProductModifierGroup) SetMetadata(meta LinkMetadata) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	l.Metadata = string(raw)
	return nil
}
