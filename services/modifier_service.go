package services

import (
	"sort"

	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/models"
)

// ResolvedGroup adalah modifier group dengan override per-produk sudah
// diterapkan dan modifier yang dikecualikan sudah difilter.
type ResolvedGroup struct {
	GroupID       uint              `json:"group_id"`
	Name          string            `json:"name"`
	SelectionType string            `json:"selection_type"`
	IsRequired    bool              `json:"is_required"`
	MinSelections int               `json:"min_selections"`
	MaxSelections int               `json:"max_selections"`
	SortOrder     int               `json:"sort_order"`
	Modifiers     []models.Modifier `json:"modifiers"`
}

type ModifierService struct {
	db *gorm.DB
}

func NewModifierService(db *gorm.DB) *ModifierService {
	return &ModifierService{db: db}
}

// ResolveGroups mengembalikan modifier group yang berlaku untuk satu produk.
func (s *ModifierService) ResolveGroups(scope Scope, productID uint) ([]ResolvedGroup, error) {
	return s.ResolveGroupsTx(s.db, scope, productID)
}

func (s *ModifierService) ResolveGroupsTx(tx *gorm.DB, scope Scope, productID uint) ([]ResolvedGroup, error) {
	var product models.Product
	if err := tx.Where("tenant_id = ?", scope.TenantID).First(&product, productID).Error; err != nil {
		return nil, NotFoundf("product %d not found", productID)
	}

	var links []models.ProductModifierGroup
	if err := tx.Preload("ModifierGroup.Modifiers", func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).Order("sort_order asc")
	}).Preload("ModifierGroup").
		Where("tenant_id = ? AND product_id = ?", scope.TenantID, productID).
		Order("sort_order asc").
		Find(&links).Error; err != nil {
		return nil, err
	}

	resolved := make([]ResolvedGroup, 0, len(links))
	for _, link := range links {
		group := link.ModifierGroup

		rg := ResolvedGroup{
			GroupID:       group.ID,
			Name:          group.Name,
			SelectionType: group.SelectionType,
			IsRequired:    group.IsRequired,
			MinSelections: group.MinSelections,
			MaxSelections: group.MaxSelections,
			SortOrder:     link.SortOrder,
		}
		if link.IsRequired != nil {
			rg.IsRequired = *link.IsRequired
		}
		if link.MinSelections != nil {
			rg.MinSelections = *link.MinSelections
		}
		if link.MaxSelections != nil {
			rg.MaxSelections = *link.MaxSelections
		}

		excluded := make(map[uint]bool)
		for _, id := range link.ParseMetadata().ExcludedModifierIDs {
			excluded[id] = true
		}
		for _, mod := range group.Modifiers {
			if !excluded[mod.ID] {
				rg.Modifiers = append(rg.Modifiers, mod)
			}
		}

		resolved = append(resolved, rg)
	}

	return resolved, nil
}

// PriceSelection menerapkan modifier terpilih ke harga dasar. Modifier
// diterapkan berurutan menurut sort_order naik: add menambah, replace menimpa
// harga berjalan (replace terakhir menang), multiply mengalikan. Urutan ini
// kontrak; replace setelah add memang meniadakan add tersebut.
func PriceSelection(basePrice float64, selected []models.Modifier) float64 {
	mods := make([]models.Modifier, len(selected))
	copy(mods, selected)
	sort.SliceStable(mods, func(i, j int) bool {
		return mods[i].SortOrder < mods[j].SortOrder
	})

	price := basePrice
	for _, mod := range mods {
		switch mod.PriceType {
		case models.PriceTypeAdd:
			price += mod.PriceChange
		case models.PriceTypeReplace:
			price = mod.PriceChange
		case models.PriceTypeMultiply:
			price *= mod.PriceChange
		}
	}
	return price
}

// ResolveSelection memvalidasi pilihan modifier sebuah line item terhadap
// group yang berlaku dan mengembalikan modifier terpilih. Untuk group
// single-select, pilihan terakhir menggantikan yang sebelumnya tanpa error.
func (s *ModifierService) ResolveSelection(tx *gorm.DB, scope Scope, productID uint, chosenIDs []uint) ([]models.Modifier, error) {
	groups, err := s.ResolveGroupsTx(tx, scope, productID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Modifier)
	groupOf := make(map[uint]*ResolvedGroup)
	for i := range groups {
		for _, mod := range groups[i].Modifiers {
			byID[mod.ID] = mod
			groupOf[mod.ID] = &groups[i]
		}
	}

	// Pertahankan urutan request; untuk single-select simpan pilihan terakhir.
	chosenByGroup := make(map[uint][]uint)
	for _, id := range chosenIDs {
		group, ok := groupOf[id]
		if !ok {
			return nil, NotFoundf("modifier %d is not available for product %d", id, productID)
		}
		if group.SelectionType == models.SelectionTypeSingle {
			chosenByGroup[group.GroupID] = []uint{id}
		} else {
			chosenByGroup[group.GroupID] = append(chosenByGroup[group.GroupID], id)
		}
	}

	var selected []models.Modifier
	for _, group := range groups {
		picked := chosenByGroup[group.GroupID]
		if group.IsRequired && len(picked) < group.MinSelections {
			return nil, BusinessRulef("group %q requires at least %d selection(s)", group.Name, group.MinSelections)
		}
		if group.MaxSelections > 0 && len(picked) > group.MaxSelections {
			return nil, BusinessRulef("group %q allows at most %d selection(s)", group.Name, group.MaxSelections)
		}
		for _, id := range picked {
			selected = append(selected, byID[id])
		}
	}

	return selected, nil
}
