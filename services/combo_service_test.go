package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasirhub/pos-app/models"
)

func TestExpandForOrderQuantitiesAndOverrides(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Combos", 0, nil)
	burger := seedProduct(t, db, tenant.ID, category.ID, "Burger", 8)
	fries := seedProduct(t, db, tenant.ID, category.ID, "Fries", 3)
	combo := seedCombo(t, db, tenant.ID, category.ID, "Burger Meal", 9)

	svc := NewComboService(db)
	_, err := svc.SetComboItems(scope, combo.ID, []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 1, SortOrder: 0},
		{ItemProductID: fries.ID, Quantity: 2, SortOrder: 1, PriceOverride: ptrFloat(1)},
	})
	require.NoError(t, err)

	expansion, err := svc.ExpandForOrder(scope, combo.ID, 3, nil)
	require.NoError(t, err)

	assert.Equal(t, 9.0, expansion.ComboPrice)
	require.Len(t, expansion.Items, 2)

	assert.Equal(t, burger.ID, expansion.Items[0].ProductID)
	assert.Equal(t, 3, expansion.Items[0].EffectiveQuantity)
	assert.Equal(t, 8.0, expansion.Items[0].UnitPrice)
	assert.True(t, expansion.Items[0].IsComboItem)
	assert.Equal(t, combo.ID, expansion.Items[0].ComboProductID)

	assert.Equal(t, fries.ID, expansion.Items[1].ProductID)
	assert.Equal(t, 6, expansion.Items[1].EffectiveQuantity)
	assert.Equal(t, 1.0, expansion.Items[1].UnitPrice) // override menang
}

func TestExpandForOrderLocationAwarePricing(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Combos", 0, nil)
	burger := seedProduct(t, db, tenant.ID, category.ID, "Burger", 8)
	combo := seedCombo(t, db, tenant.ID, category.ID, "Solo Meal", 7)
	location := seedLocation(t, db, tenant.ID, "JKT")

	require.NoError(t, db.Create(&models.ProductLocationPrice{
		TenantID: tenant.ID, ProductID: burger.ID, LocationID: location.ID, Price: 6,
	}).Error)

	svc := NewComboService(db)
	_, err := svc.SetComboItems(scope, combo.ID, []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 1},
	})
	require.NoError(t, err)

	expansion, err := svc.ExpandForOrder(scope, combo.ID, 1, &location.ID)
	require.NoError(t, err)
	assert.Equal(t, 6.0, expansion.Items[0].UnitPrice)
	assert.Equal(t, 6.0, expansion.RegularPrice)
}

func TestComboSavingsSigned(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Combos", 0, nil)
	burger := seedProduct(t, db, tenant.ID, category.ID, "Burger", 8)
	fries := seedProduct(t, db, tenant.ID, category.ID, "Fries", 4)
	deal := seedCombo(t, db, tenant.ID, category.ID, "Deal", 9)      // hemat 3
	antiDeal := seedCombo(t, db, tenant.ID, category.ID, "Anti", 13) // lebih mahal 1

	svc := NewComboService(db)
	items := []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 1},
		{ItemProductID: fries.ID, Quantity: 1},
	}
	_, err := svc.SetComboItems(scope, deal.ID, items)
	require.NoError(t, err)
	_, err = svc.SetComboItems(scope, antiDeal.ID, []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 1},
		{ItemProductID: fries.ID, Quantity: 1},
	})
	require.NoError(t, err)

	expansion, err := svc.ExpandForOrder(scope, deal.ID, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 12.0, expansion.RegularPrice)
	assert.Equal(t, 3.0, expansion.Savings)
	assert.Equal(t, 3.0, expansion.DisplaySavings)

	expansion, err = svc.ExpandForOrder(scope, antiDeal.ID, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, -1.0, expansion.Savings) // negatif dipertahankan
	assert.Equal(t, 0.0, expansion.DisplaySavings)

	// Metadata persist juga signed
	var stored models.Product
	require.NoError(t, db.First(&stored, antiDeal.ID).Error)
	meta := stored.ParseMetadata()
	require.NotNil(t, meta.Savings)
	assert.Equal(t, -1.0, *meta.Savings)
}

func TestExpandForOrderErrors(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Combos", 0, nil)
	simple := seedProduct(t, db, tenant.ID, category.ID, "Burger", 8)
	combo := seedCombo(t, db, tenant.ID, category.ID, "Meal", 9)

	svc := NewComboService(db)

	_, err := svc.ExpandForOrder(scope, simple.ID, 1, nil)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = svc.ExpandForOrder(scope, combo.ID, 0, nil)
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = svc.ExpandForOrder(scope, 9999, 1, nil)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestExpandForOrderSoftDeletedItemProduct(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Combos", 0, nil)
	burger := seedProduct(t, db, tenant.ID, category.ID, "Burger", 8)
	combo := seedCombo(t, db, tenant.ID, category.ID, "Meal", 9)

	svc := NewComboService(db)
	_, err := svc.SetComboItems(scope, combo.ID, []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.NoError(t, db.Delete(&models.Product{}, burger.ID).Error)

	_, err = svc.ExpandForOrder(scope, combo.ID, 1, nil)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestGroupBySelectionGroupDefaultLabel(t *testing.T) {
	items := []ExpandedItem{
		{ProductID: 1, SelectionGroup: "drink"},
		{ProductID: 2},
		{ProductID: 3, SelectionGroup: "drink"},
	}

	grouped := GroupBySelectionGroup(items)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped["drink"], 2)
	require.Len(t, grouped["default"], 1)
	assert.Equal(t, uint(2), grouped["default"][0].ProductID)
}

func TestSetComboItemsReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Combos", 0, nil)
	burger := seedProduct(t, db, tenant.ID, category.ID, "Burger", 8)
	fries := seedProduct(t, db, tenant.ID, category.ID, "Fries", 3)
	combo := seedCombo(t, db, tenant.ID, category.ID, "Meal", 9)

	svc := NewComboService(db)
	_, err := svc.SetComboItems(scope, combo.ID, []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 1},
		{ItemProductID: fries.ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = svc.SetComboItems(scope, combo.ID, []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 2},
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.ComboItem{}).
		Where("combo_product_id = ?", combo.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
