package services

import (
	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/models"
)

// ExpandedItem adalah satu item penyusun combo yang sudah siap ditagihkan.
type ExpandedItem struct {
	ProductID         uint    `json:"product_id"`
	ProductName       string  `json:"product_name"`
	EffectiveQuantity int     `json:"effective_quantity"`
	UnitPrice         float64 `json:"unit_price"`
	SelectionGroup    string  `json:"selection_group"`
	IsComboItem       bool    `json:"is_combo_item"`
	ComboProductID    uint    `json:"combo_product_id"`
	SortOrder         int     `json:"sort_order"`
}

type ComboExpansion struct {
	ComboProductID   uint           `json:"combo_product_id"`
	ComboProductName string         `json:"combo_product_name"`
	ComboPrice       float64        `json:"combo_price"`
	Items            []ExpandedItem `json:"items"`
	RegularPrice     float64        `json:"regular_price"`
	Savings          float64        `json:"savings"`         // signed, boleh negatif
	DisplaySavings   float64        `json:"display_savings"` // floor nol untuk tampilan
}

type ComboService struct {
	db      *gorm.DB
	pricing *PricingService
}

func NewComboService(db *gorm.DB) *ComboService {
	return &ComboService{db: db, pricing: NewPricingService(db)}
}

// ExpandForOrder membongkar produk combo menjadi item penyusunnya. Harga tiap
// item memakai price override kalau ada, selain itu harga efektifnya sendiri
// (location-aware). Kuantitas item dikali kuantitas combo yang dipesan.
func (s *ComboService) ExpandForOrder(scope Scope, comboProductID uint, quantity int, locationID *uint) (*ComboExpansion, error) {
	return s.ExpandForOrderTx(s.db, scope, comboProductID, quantity, locationID)
}

func (s *ComboService) ExpandForOrderTx(tx *gorm.DB, scope Scope, comboProductID uint, quantity int, locationID *uint) (*ComboExpansion, error) {
	if quantity <= 0 {
		return nil, InvalidInputf("combo quantity must be positive")
	}

	var combo models.Product
	if err := tx.Where("tenant_id = ?", scope.TenantID).First(&combo, comboProductID).Error; err != nil {
		return nil, NotFoundf("combo product %d not found", comboProductID)
	}
	if combo.ProductType != models.ProductTypeCombo {
		return nil, InvalidInputf("product %d is not a combo", comboProductID)
	}

	comboPrice, err := s.pricing.resolvePrice(tx, scope, &combo, locationID)
	if err != nil {
		return nil, err
	}

	var comboItems []models.ComboItem
	if err := tx.Preload("ItemProduct").
		Where("tenant_id = ? AND combo_product_id = ?", scope.TenantID, comboProductID).
		Order("sort_order asc").
		Find(&comboItems).Error; err != nil {
		return nil, err
	}

	expansion := &ComboExpansion{
		ComboProductID:   combo.ID,
		ComboProductName: combo.Name,
		ComboPrice:       comboPrice,
	}

	var regularPerCombo float64
	for _, item := range comboItems {
		if item.ItemProduct.ID == 0 {
			return nil, NotFoundf("combo item product %d not found", item.ItemProductID)
		}

		itemPrice, err := s.pricing.resolvePrice(tx, scope, &item.ItemProduct, locationID)
		if err != nil {
			return nil, err
		}
		regularPerCombo += itemPrice * float64(item.Quantity)

		unitPrice := itemPrice
		if item.PriceOverride != nil {
			unitPrice = *item.PriceOverride
		}

		expansion.Items = append(expansion.Items, ExpandedItem{
			ProductID:         item.ItemProductID,
			ProductName:       item.ItemProduct.Name,
			EffectiveQuantity: item.Quantity * quantity,
			UnitPrice:         unitPrice,
			SelectionGroup:    item.SelectionGroup,
			IsComboItem:       true,
			ComboProductID:    combo.ID,
			SortOrder:         item.SortOrder,
		})
	}

	expansion.RegularPrice = regularPerCombo
	expansion.Savings = regularPerCombo - comboPrice
	if expansion.Savings > 0 {
		expansion.DisplaySavings = expansion.Savings
	}

	return expansion, nil
}

// GroupBySelectionGroup mengelompokkan item berdasar label selection group,
// item tanpa label masuk ke "default". Kardinalitas per group adalah kebijakan
// caller, bukan engine.
func GroupBySelectionGroup(items []ExpandedItem) map[string][]ExpandedItem {
	grouped := make(map[string][]ExpandedItem)
	for _, item := range items {
		label := item.SelectionGroup
		if label == "" {
			label = "default"
		}
		grouped[label] = append(grouped[label], item)
	}
	return grouped
}

// SetComboItems mengganti seluruh item penyusun combo secara transaksional dan
// menyimpan regular price + savings (signed, tanpa floor) ke metadata produk.
func (s *ComboService) SetComboItems(scope Scope, comboProductID uint, items []models.ComboItem) ([]models.ComboItem, error) {
	var combo models.Product
	if err := s.db.Where("tenant_id = ?", scope.TenantID).First(&combo, comboProductID).Error; err != nil {
		return nil, NotFoundf("combo product %d not found", comboProductID)
	}
	if combo.ProductType != models.ProductTypeCombo {
		return nil, InvalidInputf("product %d is not a combo", comboProductID)
	}

	var regularPrice float64
	for i := range items {
		if items[i].Quantity <= 0 {
			return nil, InvalidInputf("combo item quantity must be positive")
		}
		var itemProduct models.Product
		if err := s.db.Where("tenant_id = ?", scope.TenantID).First(&itemProduct, items[i].ItemProductID).Error; err != nil {
			return nil, NotFoundf("item product %d not found", items[i].ItemProductID)
		}
		items[i].TenantID = scope.TenantID
		items[i].ComboProductID = comboProductID
		regularPrice += itemProduct.BasePrice * float64(items[i].Quantity)
	}

	savings := regularPrice - combo.BasePrice

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND combo_product_id = ?", scope.TenantID, comboProductID).
			Delete(&models.ComboItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}

		meta := combo.ParseMetadata()
		meta.RegularPrice = &regularPrice
		meta.Savings = &savings
		if err := combo.SetMetadata(meta); err != nil {
			return err
		}
		return tx.Save(&combo).Error
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}
