package services

import (
	"sort"

	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/models"
)

// CategoryNode adalah satu node pada tree kategori. Nesting mengikuti ParentID
// (primary parent); relasi many-to-many hanya muncul sebagai anotasi ParentIDs.
type CategoryNode struct {
	models.Category
	ParentIDs []uint           `json:"parent_ids"`
	Products  []models.Product `json:"products,omitempty"`
	Children  []*CategoryNode  `json:"children"`
}

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// GetTree membangun tree kategori tenant. Kategori yang soft-deleted tidak
// pernah ikut; kategori non-aktif ikut hanya jika includeInactive.
func (s *CategoryService) GetTree(scope Scope, includeInactive, includeProducts bool) ([]*CategoryNode, error) {
	q := s.db.Where("tenant_id = ?", scope.TenantID)
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := q.Find(&categories).Error; err != nil {
		return nil, err
	}

	var rels []models.CategoryRelationship
	if err := s.db.Where("tenant_id = ?", scope.TenantID).Order("sort_order asc").Find(&rels).Error; err != nil {
		return nil, err
	}
	parentIDs := make(map[uint][]uint)
	for _, rel := range rels {
		parentIDs[rel.SubcategoryID] = append(parentIDs[rel.SubcategoryID], rel.ParentCategoryID)
	}

	tree := BuildTree(categories, parentIDs)

	if includeProducts {
		var products []models.Product
		if err := s.db.Where("tenant_id = ? AND is_active = ?", scope.TenantID, true).Find(&products).Error; err != nil {
			return nil, err
		}
		byCategory := make(map[uint][]models.Product)
		for _, p := range products {
			byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
		}
		attachProducts(tree, byCategory)
	}

	return tree, nil
}

// BuildTree menyusun node dari set kategori flat. Kategori dengan ParentID yang
// menunjuk dirinya sendiri atau kategori di luar set menjadi root; itu perilaku
// recovery yang disengaja, bukan error.
func BuildTree(categories []models.Category, parentIDs map[uint][]uint) []*CategoryNode {
	nodes := make(map[uint]*CategoryNode, len(categories))
	for _, cat := range categories {
		nodes[cat.ID] = &CategoryNode{
			Category:  cat,
			ParentIDs: parentIDs[cat.ID],
			Children:  []*CategoryNode{},
		}
	}

	var roots []*CategoryNode
	for _, cat := range categories {
		node := nodes[cat.ID]
		if cat.ParentID != nil && *cat.ParentID != cat.ID {
			if parent, ok := nodes[*cat.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}

	return roots
}

func sortNodes(nodes []*CategoryNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].SortOrder != nodes[j].SortOrder {
			return nodes[i].SortOrder < nodes[j].SortOrder
		}
		return nodes[i].Name < nodes[j].Name
	})
}

func attachProducts(nodes []*CategoryNode, byCategory map[uint][]models.Product) {
	for _, node := range nodes {
		node.Products = byCategory[node.ID]
		attachProducts(node.Children, byCategory)
	}
}

// AddParentRelationship menambahkan asosiasi parent tambahan lewat junction
// table. Chain ancestor dari parent yang diusulkan (lewat primary parent)
// di-walk dulu: kalau subcategory sudah jadi ancestor parent, relasi ditolak.
func (s *CategoryService) AddParentRelationship(scope Scope, parentID, subcategoryID uint, sortOrder int) (*models.CategoryRelationship, error) {
	if parentID == subcategoryID {
		return nil, InvalidInputf("category cannot be its own parent")
	}

	var parent, sub models.Category
	if err := s.db.Where("tenant_id = ?", scope.TenantID).First(&parent, parentID).Error; err != nil {
		return nil, NotFoundf("parent category %d not found", parentID)
	}
	if err := s.db.Where("tenant_id = ?", scope.TenantID).First(&sub, subcategoryID).Error; err != nil {
		return nil, NotFoundf("subcategory %d not found", subcategoryID)
	}

	if err := s.checkAncestorChain(scope, parent, subcategoryID); err != nil {
		return nil, err
	}

	var existing models.CategoryRelationship
	err := s.db.Where("tenant_id = ? AND parent_category_id = ? AND subcategory_id = ?",
		scope.TenantID, parentID, subcategoryID).First(&existing).Error
	if err == nil {
		return nil, Conflictf("category %d is already linked to parent %d", subcategoryID, parentID)
	}

	rel := models.CategoryRelationship{
		TenantID:         scope.TenantID,
		ParentCategoryID: parentID,
		SubcategoryID:    subcategoryID,
		SortOrder:        sortOrder,
	}
	if err := s.db.Create(&rel).Error; err != nil {
		return nil, err
	}
	return &rel, nil
}

func (s *CategoryService) checkAncestorChain(scope Scope, parent models.Category, subcategoryID uint) error {
	current := parent
	seen := map[uint]bool{current.ID: true}
	for current.ParentID != nil {
		if *current.ParentID == subcategoryID {
			return Conflictf("linking category %d under %d would create a cycle", subcategoryID, parent.ID)
		}
		if seen[*current.ParentID] {
			break
		}
		seen[*current.ParentID] = true

		var next models.Category
		if err := s.db.Where("tenant_id = ?", scope.TenantID).First(&next, *current.ParentID).Error; err != nil {
			break
		}
		current = next
	}
	return nil
}

func (s *CategoryService) RemoveParentRelationship(scope Scope, parentID, subcategoryID uint) error {
	res := s.db.Where("tenant_id = ? AND parent_category_id = ? AND subcategory_id = ?",
		scope.TenantID, parentID, subcategoryID).Delete(&models.CategoryRelationship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return NotFoundf("relationship not found")
	}
	return nil
}

// DeleteCategory melakukan soft delete. Kategori yang masih dipakai produk
// tidak boleh dihapus.
func (s *CategoryService) DeleteCategory(scope Scope, categoryID uint) error {
	var category models.Category
	if err := s.db.Where("tenant_id = ?", scope.TenantID).First(&category, categoryID).Error; err != nil {
		return NotFoundf("category %d not found", categoryID)
	}

	var productCount int64
	if err := s.db.Model(&models.Product{}).
		Where("tenant_id = ? AND category_id = ?", scope.TenantID, categoryID).
		Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return Conflictf("category %d still has %d products", categoryID, productCount)
	}

	return s.db.Delete(&category).Error
}
