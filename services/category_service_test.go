package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasirhub/pos-app/models"
)

func TestBuildTreeNestingAndOrder(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	drinks := seedCategory(t, db, tenant.ID, "Drinks", 1, nil)
	food := seedCategory(t, db, tenant.ID, "Food", 0, nil)
	coffee := seedCategory(t, db, tenant.ID, "Coffee", 1, &drinks.ID)
	tea := seedCategory(t, db, tenant.ID, "Tea", 1, &drinks.ID) // sortOrder sama, urut nama
	juice := seedCategory(t, db, tenant.ID, "Juice", 0, &drinks.ID)

	svc := NewCategoryService(db)
	tree, err := svc.GetTree(scope, false, false)
	require.NoError(t, err)

	require.Len(t, tree, 2)
	assert.Equal(t, food.ID, tree[0].ID) // sortOrder 0 dulu
	assert.Equal(t, drinks.ID, tree[1].ID)

	children := tree[1].Children
	require.Len(t, children, 3)
	assert.Equal(t, juice.ID, children[0].ID)
	assert.Equal(t, coffee.ID, children[1].ID) // Coffee sebelum Tea
	assert.Equal(t, tea.ID, children[2].ID)
}

func TestBuildTreeDanglingParentBecomesRoot(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	orphan := seedCategory(t, db, tenant.ID, "Orphan", 0, ptrUint(9999))

	svc := NewCategoryService(db)
	tree, err := svc.GetTree(scope, false, false)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, orphan.ID, tree[0].ID)
	assert.Empty(t, tree[0].Children)
}

func TestBuildTreeSelfParentBecomesRoot(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Loop", 0, nil)
	require.NoError(t, db.Model(&models.Category{}).Where("id = ?", category.ID).
		Update("parent_id", category.ID).Error)

	svc := NewCategoryService(db)
	tree, err := svc.GetTree(scope, false, false)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, category.ID, tree[0].ID)
}

func TestBuildTreeFilteredParentDegradesChildToRoot(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	parent := seedCategory(t, db, tenant.ID, "Hidden", 0, nil)
	require.NoError(t, db.Model(&models.Category{}).Where("id = ?", parent.ID).
		Update("is_active", false).Error)
	child := seedCategory(t, db, tenant.ID, "Visible", 0, &parent.ID)

	svc := NewCategoryService(db)
	tree, err := svc.GetTree(scope, false, false)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, child.ID, tree[0].ID)

	// Dengan includeInactive parent kembali dan child ter-nesting lagi
	tree, err = svc.GetTree(scope, true, false)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, parent.ID, tree[0].ID)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, child.ID, tree[0].Children[0].ID)
}

func TestJunctionParentsAnnotatedNotNested(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	breakfast := seedCategory(t, db, tenant.ID, "Breakfast", 0, nil)
	lunch := seedCategory(t, db, tenant.ID, "Lunch", 1, nil)
	pancakes := seedCategory(t, db, tenant.ID, "Pancakes", 0, &breakfast.ID)

	svc := NewCategoryService(db)
	_, err := svc.AddParentRelationship(scope, lunch.ID, pancakes.ID, 0)
	require.NoError(t, err)

	tree, err := svc.GetTree(scope, false, false)
	require.NoError(t, err)

	// Pancakes tetap hanya di bawah Breakfast
	require.Len(t, tree, 2)
	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, pancakes.ID, tree[0].Children[0].ID)
	assert.Empty(t, tree[1].Children)
	assert.Equal(t, []uint{lunch.ID}, tree[0].Children[0].ParentIDs)
}

func TestAddParentRelationshipRejectsCycle(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	grandparent := seedCategory(t, db, tenant.ID, "A", 0, nil)
	parent := seedCategory(t, db, tenant.ID, "B", 0, &grandparent.ID)
	child := seedCategory(t, db, tenant.ID, "C", 0, &parent.ID)

	svc := NewCategoryService(db)

	// C descendant dari A, jadi A tidak boleh jadi subcategory dari C
	_, err := svc.AddParentRelationship(scope, child.ID, grandparent.ID, 0)
	require.Error(t, err)
	assert.Equal(t, KindConflictingState, KindOf(err))

	// Relasi yang sehat tetap boleh
	_, err = svc.AddParentRelationship(scope, grandparent.ID, child.ID, 0)
	require.NoError(t, err)
}

func TestAddParentRelationshipDuplicateAndSelf(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	a := seedCategory(t, db, tenant.ID, "A", 0, nil)
	b := seedCategory(t, db, tenant.ID, "B", 0, nil)

	svc := NewCategoryService(db)

	_, err := svc.AddParentRelationship(scope, a.ID, a.ID, 0)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = svc.AddParentRelationship(scope, a.ID, b.ID, 0)
	require.NoError(t, err)

	_, err = svc.AddParentRelationship(scope, a.ID, b.ID, 0)
	assert.Equal(t, KindConflictingState, KindOf(err))
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	seedProduct(t, db, tenant.ID, category.ID, "Nasi Goreng", 15000)

	svc := NewCategoryService(db)
	err := svc.DeleteCategory(scope, category.ID)
	require.Error(t, err)
	assert.Equal(t, KindConflictingState, KindOf(err))
}

func TestGetTreeAttachesProducts(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	food := seedCategory(t, db, tenant.ID, "Food", 0, nil)
	drinks := seedCategory(t, db, tenant.ID, "Drinks", 1, nil)
	nasi := seedProduct(t, db, tenant.ID, food.ID, "Nasi Goreng", 15)
	teh := seedProduct(t, db, tenant.ID, drinks.ID, "Es Teh", 5)
	retired := seedProduct(t, db, tenant.ID, food.ID, "Menu Lama", 12)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", retired.ID).
		Update("is_active", false).Error)

	svc := NewCategoryService(db)

	// Default tanpa produk
	tree, err := svc.GetTree(scope, false, false)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	assert.Empty(t, tree[0].Products)

	tree, err = svc.GetTree(scope, false, true)
	require.NoError(t, err)
	require.Len(t, tree, 2)

	// Produk menempel di kategorinya masing-masing; yang non-aktif tidak ikut
	require.Len(t, tree[0].Products, 1)
	assert.Equal(t, nasi.ID, tree[0].Products[0].ID)
	require.Len(t, tree[1].Products, 1)
	assert.Equal(t, teh.ID, tree[1].Products[0].ID)
}

func TestTreeIsTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	tenantA := seedTenant(t, db, 0)
	tenantB := seedTenant(t, db, 0)

	seedCategory(t, db, tenantA.ID, "Milik A", 0, nil)
	seedCategory(t, db, tenantB.ID, "Milik B", 0, nil)

	svc := NewCategoryService(db)
	tree, err := svc.GetTree(Scope{TenantID: tenantA.ID}, false, false)
	require.NoError(t, err)

	require.Len(t, tree, 1)
	assert.Equal(t, "Milik A", tree[0].Name)
}
