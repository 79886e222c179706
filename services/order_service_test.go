package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kasirhub/pos-app/models"
)

func TestCreateOrderTotalsMath(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0.08)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	product := seedProduct(t, db, tenant.ID, category.ID, "Nasi Goreng", 10)
	location := seedLocation(t, db, tenant.ID, "JKT")

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID:     location.ID,
		DiscountAmount: 2,
		Items:          []OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, 20.0, order.Subtotal)
	assert.InDelta(t, 1.6, order.TaxAmount, 1e-9)
	assert.InDelta(t, 19.6, order.TotalAmount, 1e-9)
	assert.Equal(t, 0.0, order.AmountPaid)
	assert.InDelta(t, 19.6, order.AmountDue, 1e-9)
	assert.Equal(t, models.OrderStatusOpen, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
}

func TestCreateOrderTaxPrecedence(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0.10)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	product := seedProduct(t, db, tenant.ID, category.ID, "Mie Ayam", 10)
	location := seedLocation(t, db, tenant.ID, "JKT")
	require.NoError(t, db.Model(&models.Location{}).Where("id = ?", location.ID).
		Update("tax_rate", 0.05).Error)

	svc := NewOrderService(db)

	// Rate lokasi menimpa default tenant
	order, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, order.TaxAmount, 1e-9)

	// Rate di request menimpa keduanya
	order, err = svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		TaxRate:    ptrFloat(0),
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.TaxAmount)
}

func TestCreateOrderSnapshotsModifiers(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	product := seedProduct(t, db, tenant.ID, category.ID, "Kopi", 10)
	location := seedLocation(t, db, tenant.ID, "JKT")

	group := seedModifierGroup(t, db, tenant.ID, "Size", models.SelectionTypeSingle, false, 0, 1)
	large := seedModifier(t, db, tenant.ID, group.ID, "Large", models.PriceTypeAdd, 2, 0)
	linkGroup(t, db, tenant.ID, product.ID, group.ID, 0)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1, ModifierIDs: []uint{large.ID}}},
	})
	require.NoError(t, err)

	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, 12.0, order.OrderItems[0].UnitPrice)
	require.Len(t, order.OrderItems[0].Modifiers, 1)
	assert.Equal(t, "Large", order.OrderItems[0].Modifiers[0].Name)
	assert.Equal(t, 2.0, order.OrderItems[0].Modifiers[0].PriceChange)

	// Snapshot tidak ikut berubah saat modifier diedit
	require.NoError(t, db.Model(&models.Modifier{}).Where("id = ?", large.ID).
		Update("price_change", 5).Error)
	stored, err := svc.GetOrder(scope, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.0, stored.OrderItems[0].Modifiers[0].PriceChange)
}

func TestCreateOrderExpandsCombo(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Combos", 0, nil)
	burger := seedProduct(t, db, tenant.ID, category.ID, "Burger", 8)
	fries := seedProduct(t, db, tenant.ID, category.ID, "Fries", 3)
	combo := seedCombo(t, db, tenant.ID, category.ID, "Meal", 9)
	location := seedLocation(t, db, tenant.ID, "JKT")

	comboSvc := NewComboService(db)
	_, err := comboSvc.SetComboItems(scope, combo.ID, []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 1, SortOrder: 0},
		{ItemProductID: fries.ID, Quantity: 1, SortOrder: 1},
	})
	require.NoError(t, err)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items:      []OrderItemRequest{{ProductID: combo.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.Len(t, order.OrderItems, 2)
	for _, item := range order.OrderItems {
		assert.True(t, item.IsComboItem)
		require.NotNil(t, item.ComboProductID)
		assert.Equal(t, combo.ID, *item.ComboProductID)
		assert.Equal(t, 2, item.Quantity)
	}
}

func TestCreateOrderAtomicRollback(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	product := seedProduct(t, db, tenant.ID, category.ID, "Nasi Goreng", 10)
	location := seedLocation(t, db, tenant.ID, "JKT")

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items: []OrderItemRequest{
			{ProductID: product.ID, Quantity: 1},
			{ProductID: 9999, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))

	// Tidak ada baris yang tersisa
	var orders, items, mods int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&items).Error)
	require.NoError(t, db.Model(&models.OrderItemModifier{}).Count(&mods).Error)
	assert.Zero(t, orders)
	assert.Zero(t, items)
	assert.Zero(t, mods)
}

func TestOrderNumbersSequentialPerLocation(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	product := seedProduct(t, db, tenant.ID, category.ID, "Nasi Goreng", 10)
	jakarta := seedLocation(t, db, tenant.ID, "JKT")
	bandung := seedLocation(t, db, tenant.ID, "BDG")

	svc := NewOrderService(db)
	req := func(locID uint) CreateOrderRequest {
		return CreateOrderRequest{
			LocationID: locID,
			Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		}
	}

	for i := 1; i <= 3; i++ {
		order, err := svc.CreateOrder(scope, req(jakarta.ID))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ORD-JKT-%04d", i), order.OrderNumber)
	}

	// Counter per lokasi independen
	order, err := svc.CreateOrder(scope, req(bandung.ID))
	require.NoError(t, err)
	assert.Equal(t, "ORD-BDG-0001", order.OrderNumber)
}

func TestCreateOrderInactiveLocation(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	product := seedProduct(t, db, tenant.ID, category.ID, "Nasi Goreng", 10)
	location := seedLocation(t, db, tenant.ID, "JKT")
	require.NoError(t, db.Model(&models.Location{}).Where("id = ?", location.ID).
		Update("is_active", false).Error)

	svc := NewOrderService(db)
	_, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	assert.Equal(t, KindConflictingState, KindOf(err))
}

func seedOpenOrder(t *testing.T, db *gorm.DB, scope Scope) (*OrderService, *models.Order) {
	tenantCategory := seedCategory(t, db, scope.TenantID, "Mains", 0, nil)
	product := seedProduct(t, db, scope.TenantID, tenantCategory.ID, "Nasi Goreng", 10)
	location := seedLocation(t, db, scope.TenantID, "JKT")

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	return svc, order
}

func TestUpdateStatusTimestampsAndTerminal(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 7}
	svc, order := seedOpenOrder(t, db, scope)

	order, err := svc.UpdateStatus(scope, order.ID, models.OrderStatusPreparing, "")
	require.NoError(t, err)
	assert.NotNil(t, order.SentToKitchenAt)

	order, err = svc.UpdateStatus(scope, order.ID, models.OrderStatusReady, "")
	require.NoError(t, err)
	assert.NotNil(t, order.KitchenCompletedAt)

	order, err = svc.UpdateStatus(scope, order.ID, models.OrderStatusCompleted, "")
	require.NoError(t, err)
	assert.NotNil(t, order.CompletedAt)

	// Status terminal final
	_, err = svc.UpdateStatus(scope, order.ID, models.OrderStatusOpen, "")
	assert.Equal(t, KindConflictingState, KindOf(err))
}

func TestUpdateStatusPermissiveSkipsAllowed(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}
	svc, order := seedOpenOrder(t, db, scope)

	// open -> ready tanpa lewat preparing
	order, err := svc.UpdateStatus(scope, order.ID, models.OrderStatusReady, "")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusReady, order.OrderStatus)
}

func TestUpdateStatusTransitionPolicy(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}
	svc, order := seedOpenOrder(t, db, scope)

	svc.SetTransitionPolicy(func(from, to string) error {
		if from == models.OrderStatusOpen && to == models.OrderStatusReady {
			return fmt.Errorf("must go through preparing")
		}
		return nil
	})

	_, err := svc.UpdateStatus(scope, order.ID, models.OrderStatusReady, "")
	assert.Equal(t, KindConflictingState, KindOf(err))

	_, err = svc.UpdateStatus(scope, order.ID, models.OrderStatusPreparing, "")
	require.NoError(t, err)
}

func TestUpdateStatusVoid(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 42}
	svc, order := seedOpenOrder(t, db, scope)

	order, err := svc.UpdateStatus(scope, order.ID, models.OrderStatusVoided, "input error")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusVoid, order.PaymentStatus)
	assert.Equal(t, "input error", order.VoidReason)
	assert.NotNil(t, order.VoidedAt)
	require.NotNil(t, order.VoidedByUserID)
	assert.Equal(t, uint(42), *order.VoidedByUserID)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}
	svc, order := seedOpenOrder(t, db, scope)

	_, err := svc.UpdateStatus(scope, order.ID, "delivered", "")
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestApplyPaymentProgression(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}
	svc, order := seedOpenOrder(t, db, scope) // total 20

	_, err := svc.ApplyPayment(scope, order.ID, ApplyPaymentRequest{
		Amount: 5, PaymentMethod: models.PaymentMethodCard,
	})
	require.NoError(t, err)

	stored, err := svc.GetOrder(scope, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartial, stored.PaymentStatus)
	assert.Equal(t, 5.0, stored.AmountPaid)
	assert.Equal(t, 15.0, stored.AmountDue)

	payment, err := svc.ApplyPayment(scope, order.ID, ApplyPaymentRequest{
		Amount: 15, PaymentMethod: models.PaymentMethodQRIS,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.ReferenceID)
	assert.NotNil(t, payment.CapturedAt)

	stored, err = svc.GetOrder(scope, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, stored.PaymentStatus)
	assert.Equal(t, 0.0, stored.AmountDue)
	require.Len(t, stored.Payments, 2)
}

func TestApplyPaymentCashChangeSigned(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}
	svc, order := seedOpenOrder(t, db, scope)

	payment, err := svc.ApplyPayment(scope, order.ID, ApplyPaymentRequest{
		Amount:        20,
		PaymentMethod: models.PaymentMethodCash,
		CashTendered:  ptrFloat(50),
	})
	require.NoError(t, err)
	require.NotNil(t, payment.CashChange)
	assert.Equal(t, 30.0, *payment.CashChange)

	// Tendered kurang dari amount tetap diterima, change negatif
	scopeB := Scope{TenantID: seedTenant(t, db, 0).ID, UserID: 1}
	svc2, order2 := seedOpenOrder(t, db, scopeB)
	payment, err = svc2.ApplyPayment(scopeB, order2.ID, ApplyPaymentRequest{
		Amount:        20,
		PaymentMethod: models.PaymentMethodCash,
		CashTendered:  ptrFloat(15),
	})
	require.NoError(t, err)
	require.NotNil(t, payment.CashChange)
	assert.Equal(t, -5.0, *payment.CashChange)
}

func TestApplyPaymentValidation(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}
	svc, order := seedOpenOrder(t, db, scope)

	_, err := svc.ApplyPayment(scope, order.ID, ApplyPaymentRequest{
		Amount: -1, PaymentMethod: models.PaymentMethodCash,
	})
	assert.Equal(t, KindInvalidInput, KindOf(err))

	_, err = svc.ApplyPayment(scope, order.ID, ApplyPaymentRequest{
		Amount: 5, PaymentMethod: "barter",
	})
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestRefundGatingAndMetadataTrail(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 9}
	svc, order := seedOpenOrder(t, db, scope) // total 20

	// Belum paid, ditolak
	_, err := svc.Refund(scope, order.ID, nil)
	assert.Equal(t, KindConflictingState, KindOf(err))

	_, err = svc.ApplyPayment(scope, order.ID, ApplyPaymentRequest{
		Amount: 20, PaymentMethod: models.PaymentMethodCard,
	})
	require.NoError(t, err)

	refunded, err := svc.Refund(scope, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, refunded.PaymentStatus)
	assert.Equal(t, 0.0, refunded.AmountPaid)
	assert.Equal(t, 20.0, refunded.AmountDue)

	meta := refunded.ParseMetadata()
	require.Len(t, meta.Refunds, 1)
	assert.Equal(t, 20.0, meta.Refunds[0].Amount)
	assert.Equal(t, uint(9), meta.Refunds[0].RefundedBy)

	// Refund kedua ditolak, statusnya sudah refunded
	_, err = svc.Refund(scope, order.ID, nil)
	assert.Equal(t, KindConflictingState, KindOf(err))
}

func TestCreateOrderAvailabilityWindow(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	location := seedLocation(t, db, tenant.ID, "JKT")
	now := time.Now()

	setMeta := func(p models.Product, meta models.ProductMetadata) {
		require.NoError(t, p.SetMetadata(meta))
		require.NoError(t, db.Save(&p).Error)
	}

	blackout := seedProduct(t, db, tenant.ID, category.ID, "Menu Libur", 10)
	setMeta(blackout, models.ProductMetadata{
		BlackoutDates: []string{now.Format("2006-01-02")},
	})

	wrongDay := seedProduct(t, db, tenant.ID, category.ID, "Menu Besok", 10)
	setMeta(wrongDay, models.ProductMetadata{
		AvailableDays: []string{now.AddDate(0, 0, 1).Weekday().String()},
	})

	notYet := seedProduct(t, db, tenant.ID, category.ID, "Menu Nanti", 10)
	setMeta(notYet, models.ProductMetadata{
		StartTime: now.Add(1 * time.Hour).Format("15:04"),
		EndTime:   now.Add(2 * time.Hour).Format("15:04"),
	})

	svc := NewOrderService(db)
	for _, product := range []models.Product{blackout, wrongDay, notYet} {
		_, err := svc.CreateOrder(scope, CreateOrderRequest{
			LocationID: location.ID,
			Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
		})
		assert.Equal(t, KindInvalidInput, KindOf(err), "product %q should be unavailable", product.Name)
	}

	// Tanpa window produk selalu tersedia
	always := seedProduct(t, db, tenant.ID, category.ID, "Menu Biasa", 10)
	_, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items:      []OrderItemRequest{{ProductID: always.ID, Quantity: 1}},
	})
	require.NoError(t, err)
}

func TestCreateOrderRejectsModifiersOnComboItems(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Combos", 0, nil)
	burger := seedProduct(t, db, tenant.ID, category.ID, "Burger", 8)
	combo := seedCombo(t, db, tenant.ID, category.ID, "Meal", 9)
	location := seedLocation(t, db, tenant.ID, "JKT")

	comboSvc := NewComboService(db)
	_, err := comboSvc.SetComboItems(scope, combo.ID, []models.ComboItem{
		{ItemProductID: burger.ID, Quantity: 1},
	})
	require.NoError(t, err)

	group := seedModifierGroup(t, db, tenant.ID, "Size", models.SelectionTypeSingle, false, 0, 1)
	large := seedModifier(t, db, tenant.ID, group.ID, "Large", models.PriceTypeAdd, 2, 0)

	svc := NewOrderService(db)
	_, err = svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items:      []OrderItemRequest{{ProductID: combo.ID, Quantity: 1, ModifierIDs: []uint{large.ID}}},
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidInput, KindOf(err))
}

func TestOrderNumberContinuesFromExistingCounter(t *testing.T) {
	db := setupTestDB(t)
	tenant := seedTenant(t, db, 0)
	scope := Scope{TenantID: tenant.ID, UserID: 1}

	category := seedCategory(t, db, tenant.ID, "Mains", 0, nil)
	product := seedProduct(t, db, tenant.ID, category.ID, "Nasi Goreng", 10)
	location := seedLocation(t, db, tenant.ID, "JKT")

	// Baris counter yang sudah ada (mis. dibuat transaksi lain) dilanjutkan,
	// bukan ditimpa insert kedua
	require.NoError(t, db.Create(&models.OrderCounter{
		TenantID:   tenant.ID,
		LocationID: location.ID,
		LastNumber: 41,
	}).Error)

	svc := NewOrderService(db)
	order, err := svc.CreateOrder(scope, CreateOrderRequest{
		LocationID: location.ID,
		Items:      []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ORD-JKT-0042", order.OrderNumber)

	var count int64
	require.NoError(t, db.Model(&models.OrderCounter{}).
		Where("tenant_id = ? AND location_id = ?", tenant.ID, location.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestOrdersAreTenantScoped(t *testing.T) {
	db := setupTestDB(t)
	tenantA := seedTenant(t, db, 0)
	tenantB := seedTenant(t, db, 0)
	scopeA := Scope{TenantID: tenantA.ID, UserID: 1}

	svc, order := seedOpenOrder(t, db, scopeA)

	_, err := svc.GetOrder(Scope{TenantID: tenantB.ID, UserID: 1}, order.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.UpdateStatus(Scope{TenantID: tenantB.ID, UserID: 1}, order.ID, models.OrderStatusReady, "")
	assert.Equal(t, KindNotFound, KindOf(err))
}
