package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kasirhub/pos-app/models"
	"github.com/kasirhub/pos-app/utils"
)

// TransitionPolicy memvalidasi perpindahan status order. Default permisif;
// deployment bisa memasang policy yang lebih ketat lewat SetTransitionPolicy.
type TransitionPolicy func(from, to string) error

type OrderService struct {
	db               *gorm.DB
	pricing          *PricingService
	modifiers        *ModifierService
	combos           *ComboService
	transitionPolicy TransitionPolicy
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:        db,
		pricing:   NewPricingService(db),
		modifiers: NewModifierService(db),
		combos:    NewComboService(db),
	}
}

func (s *OrderService) SetTransitionPolicy(policy TransitionPolicy) {
	s.transitionPolicy = policy
}

type OrderItemRequest struct {
	ProductID           uint   `json:"product_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required"`
	ModifierIDs         []uint `json:"modifier_ids"`
	SpecialInstructions string `json:"special_instructions"`
}

type CreateOrderRequest struct {
	LocationID     uint               `json:"location_id" binding:"required"`
	OrderType      string             `json:"order_type"`
	CustomerName   string             `json:"customer_name"`
	CustomerPhone  string             `json:"customer_phone"`
	DiscountAmount float64            `json:"discount_amount"`
	TaxRate        *float64           `json:"tax_rate"`
	Items          []OrderItemRequest `json:"items" binding:"required"`
}

// CreateOrder membuat order beserta seluruh line item dan modifier-nya dalam
// satu transaksi. Produk combo dibongkar dulu menjadi line item penyusunnya.
// Satu saja produk hilang membatalkan seluruh order; tidak ada baris yang
// tersisa.
func (s *OrderService) CreateOrder(scope Scope, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, InvalidInputf("order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, InvalidInputf("item quantity must be positive")
		}
	}
	if req.DiscountAmount < 0 {
		return nil, InvalidInputf("discount cannot be negative")
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var location models.Location
		if err := tx.Where("tenant_id = ?", scope.TenantID).First(&location, req.LocationID).Error; err != nil {
			return NotFoundf("location %d not found", req.LocationID)
		}
		if !location.IsActive {
			return Conflictf("location %d is not active", req.LocationID)
		}

		var tenant models.Tenant
		if err := tx.First(&tenant, scope.TenantID).Error; err != nil {
			return NotFoundf("tenant %d not found", scope.TenantID)
		}

		lines, err := s.buildLines(tx, scope, req, location.ID)
		if err != nil {
			return err
		}

		var subtotal float64
		for _, line := range lines {
			subtotal += line.item.LineTotal
		}

		taxRate := tenant.DefaultTaxRate
		if location.TaxRate != nil {
			taxRate = *location.TaxRate
		}
		if req.TaxRate != nil {
			taxRate = *req.TaxRate
		}

		taxAmount := subtotal * taxRate
		totalAmount := subtotal + taxAmount - req.DiscountAmount

		orderNumber, err := s.nextOrderNumber(tx, scope.TenantID, location)
		if err != nil {
			return err
		}

		orderType := req.OrderType
		if orderType == "" {
			orderType = "dine_in"
		}

		newOrder := models.Order{
			TenantID:       scope.TenantID,
			LocationID:     location.ID,
			OrderNumber:    orderNumber,
			OrderType:      orderType,
			OrderStatus:    models.OrderStatusOpen,
			PaymentStatus:  models.PaymentStatusUnpaid,
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			Subtotal:       subtotal,
			TaxAmount:      taxAmount,
			DiscountAmount: req.DiscountAmount,
			TotalAmount:    totalAmount,
			AmountPaid:     0,
			AmountDue:      totalAmount,
		}
		if err := tx.Create(&newOrder).Error; err != nil {
			return err
		}

		for i := range lines {
			lines[i].item.OrderID = newOrder.ID
			if err := tx.Create(&lines[i].item).Error; err != nil {
				return err
			}
			for j := range lines[i].modifiers {
				lines[i].modifiers[j].OrderItemID = lines[i].item.ID
				if err := tx.Create(&lines[i].modifiers[j]).Error; err != nil {
					return err
				}
			}
			lines[i].item.Modifiers = lines[i].modifiers
			newOrder.OrderItems = append(newOrder.OrderItems, lines[i].item)
		}

		order = &newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("order %s created for tenant %d (%d items, total %s)",
		order.OrderNumber, scope.TenantID, len(order.OrderItems), utils.FormatCurrency(order.TotalAmount))
	return order, nil
}

type orderLine struct {
	item      models.OrderItem
	modifiers []models.OrderItemModifier
}

func (s *OrderService) buildLines(tx *gorm.DB, scope Scope, req CreateOrderRequest, locationID uint) ([]orderLine, error) {
	var lines []orderLine
	sortOrder := 0
	now := time.Now()

	for _, itemReq := range req.Items {
		var product models.Product
		if err := tx.Where("tenant_id = ?", scope.TenantID).First(&product, itemReq.ProductID).Error; err != nil {
			return nil, NotFoundf("product %d not found", itemReq.ProductID)
		}
		if !product.IsActive {
			return nil, InvalidInputf("product %q is not active", product.Name)
		}
		if !product.ParseMetadata().AvailableAt(now) {
			return nil, InvalidInputf("product %q is not available right now", product.Name)
		}

		if product.ProductType == models.ProductTypeCombo {
			if len(itemReq.ModifierIDs) > 0 {
				return nil, InvalidInputf("modifiers are not supported on combo items")
			}
			expansion, err := s.combos.ExpandForOrderTx(tx, scope, product.ID, itemReq.Quantity, &locationID)
			if err != nil {
				return nil, err
			}
			for _, expanded := range expansion.Items {
				comboID := expanded.ComboProductID
				lines = append(lines, orderLine{item: models.OrderItem{
					TenantID:            scope.TenantID,
					ProductID:           expanded.ProductID,
					ItemName:            expanded.ProductName,
					UnitPrice:           expanded.UnitPrice,
					Quantity:            expanded.EffectiveQuantity,
					LineTotal:           expanded.UnitPrice * float64(expanded.EffectiveQuantity),
					SpecialInstructions: itemReq.SpecialInstructions,
					SortOrder:           sortOrder,
					IsComboItem:         true,
					ComboProductID:      &comboID,
					SelectionGroup:      expanded.SelectionGroup,
				}})
				sortOrder++
			}
			continue
		}

		basePrice, err := s.pricing.resolvePrice(tx, scope, &product, &locationID)
		if err != nil {
			return nil, err
		}

		selected, err := s.modifiers.ResolveSelection(tx, scope, product.ID, itemReq.ModifierIDs)
		if err != nil {
			return nil, err
		}
		unitPrice := PriceSelection(basePrice, selected)

		var snapshots []models.OrderItemModifier
		for _, mod := range selected {
			snapshots = append(snapshots, models.OrderItemModifier{
				TenantID:    scope.TenantID,
				ModifierID:  mod.ID,
				Name:        mod.Name,
				PriceType:   mod.PriceType,
				PriceChange: mod.PriceChange,
			})
		}

		lines = append(lines, orderLine{
			item: models.OrderItem{
				TenantID:            scope.TenantID,
				ProductID:           product.ID,
				ItemName:            product.Name,
				UnitPrice:           unitPrice,
				Quantity:            itemReq.Quantity,
				LineTotal:           unitPrice * float64(itemReq.Quantity),
				SpecialInstructions: itemReq.SpecialInstructions,
				SortOrder:           sortOrder,
			},
			modifiers: snapshots,
		})
		sortOrder++
	}

	return lines, nil
}

// nextOrderNumber mengambil nomor berikutnya dari counter per (tenant,
// location) yang di-lock FOR UPDATE, lalu memformatnya zero-padded.
func (s *OrderService) nextOrderNumber(tx *gorm.DB, tenantID uint, location models.Location) (string, error) {
	q := tx
	// sqlite tidak mengenal FOR UPDATE; di sana transaksi tunggal sudah serial.
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var counter models.OrderCounter
	err := q.Where("tenant_id = ? AND location_id = ?", tenantID, location.ID).
		First(&counter).Error
	if err == gorm.ErrRecordNotFound {
		// Dua order pertama di satu lokasi bisa balapan membuat baris counter;
		// unique index menjatuhkan insert yang kalah, lalu baris pemenang
		// dibaca ulang dengan lock.
		seed := models.OrderCounter{TenantID: tenantID, LocationID: location.ID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return "", err
		}
		if err := q.Where("tenant_id = ? AND location_id = ?", tenantID, location.ID).
			First(&counter).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	counter.LastNumber++
	if err := tx.Save(&counter).Error; err != nil {
		return "", err
	}

	code := location.Code
	if code == "" {
		code = fmt.Sprintf("L%d", location.ID)
	}
	return fmt.Sprintf("ORD-%s-%04d", code, counter.LastNumber), nil
}

func (s *OrderService) GetOrder(scope Scope, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order asc")
	}).Preload("OrderItems.Modifiers").Preload("Payments").
		Where("tenant_id = ?", scope.TenantID).First(&order, orderID).Error
	if err != nil {
		return nil, NotFoundf("order %d not found", orderID)
	}
	return &order, nil
}

func (s *OrderService) ListOrders(scope Scope, locationID *uint, status string) ([]models.Order, error) {
	q := s.db.Preload("OrderItems").Where("tenant_id = ?", scope.TenantID)
	if locationID != nil {
		q = q.Where("location_id = ?", *locationID)
	}
	if status != "" {
		q = q.Where("order_status = ?", status)
	}

	var orders []models.Order
	if err := q.Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

var validOrderStatuses = map[string]bool{
	models.OrderStatusOpen:      true,
	models.OrderStatusPreparing: true,
	models.OrderStatusReady:     true,
	models.OrderStatusCompleted: true,
	models.OrderStatusCancelled: true,
	models.OrderStatusVoided:    true,
}

// UpdateStatus memindahkan status order dan menempelkan timestamp sesuai
// status tujuan. Transisi permisif kecuali dari status terminal; policy
// tambahan bisa menolak lewat SetTransitionPolicy.
func (s *OrderService) UpdateStatus(scope Scope, orderID uint, newStatus, voidReason string) (*models.Order, error) {
	if !validOrderStatuses[newStatus] {
		return nil, InvalidInputf("unknown order status %q", newStatus)
	}

	order, err := s.GetOrder(scope, orderID)
	if err != nil {
		return nil, err
	}

	if models.IsTerminalOrderStatus(order.OrderStatus) {
		return nil, Conflictf("order %s is already %s", order.OrderNumber, order.OrderStatus)
	}
	if s.transitionPolicy != nil {
		if err := s.transitionPolicy(order.OrderStatus, newStatus); err != nil {
			return nil, Conflictf("transition %s -> %s rejected: %v", order.OrderStatus, newStatus, err)
		}
	}

	now := time.Now()
	order.OrderStatus = newStatus
	switch newStatus {
	case models.OrderStatusPreparing:
		order.SentToKitchenAt = &now
	case models.OrderStatusReady:
		order.KitchenCompletedAt = &now
	case models.OrderStatusCompleted:
		order.CompletedAt = &now
	case models.OrderStatusVoided, models.OrderStatusCancelled:
		order.VoidedAt = &now
		order.VoidReason = voidReason
		userID := scope.UserID
		order.VoidedByUserID = &userID
		if newStatus == models.OrderStatusVoided {
			order.PaymentStatus = models.PaymentStatusVoid
		}
	}

	if err := s.db.Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

type ApplyPaymentRequest struct {
	Amount        float64  `json:"amount" binding:"required"`
	PaymentMethod string   `json:"payment_method" binding:"required"`
	CashTendered  *float64 `json:"cash_tendered"`
}

var validPaymentMethods = map[string]bool{
	models.PaymentMethodCash:         true,
	models.PaymentMethodCard:         true,
	models.PaymentMethodQRIS:         true,
	models.PaymentMethodBankTransfer: true,
}

// ApplyPayment mencatat pembayaran dan memutakhirkan saldo order. Pembayaran
// parsial dan kelebihan bayar diterima; cash change disimpan signed tanpa
// validasi tendered >= amount.
func (s *OrderService) ApplyPayment(scope Scope, orderID uint, req ApplyPaymentRequest) (*models.Payment, error) {
	if req.Amount <= 0 {
		return nil, InvalidInputf("payment amount must be positive")
	}
	if !validPaymentMethods[req.PaymentMethod] {
		return nil, InvalidInputf("unknown payment method %q", req.PaymentMethod)
	}

	var payment *models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Where("tenant_id = ?", scope.TenantID).First(&order, orderID).Error; err != nil {
			return NotFoundf("order %d not found", orderID)
		}

		now := time.Now()
		p := models.Payment{
			TenantID:          scope.TenantID,
			OrderID:           order.ID,
			PaymentMethod:     req.PaymentMethod,
			Amount:            req.Amount,
			PaymentStatus:     "captured",
			ReferenceID:       uuid.NewString(),
			ProcessedByUserID: scope.UserID,
			CapturedAt:        &now,
		}
		if req.PaymentMethod == models.PaymentMethodCash && req.CashTendered != nil {
			change := *req.CashTendered - req.Amount
			p.CashTendered = req.CashTendered
			p.CashChange = &change
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		order.AmountPaid += req.Amount
		order.AmountDue = order.TotalAmount - order.AmountPaid
		if order.AmountPaid >= order.TotalAmount {
			order.PaymentStatus = models.PaymentStatusPaid
		} else if order.AmountPaid > 0 {
			order.PaymentStatus = models.PaymentStatusPartial
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		payment = &p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}

// Refund mengembalikan pembayaran order yang sudah paid. Amount default ke
// total order; refund dicatat di metadata tanpa menghapus catatan sebelumnya.
func (s *OrderService) Refund(scope Scope, orderID uint, amount *float64) (*models.Order, error) {
	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var o models.Order
		if err := tx.Where("tenant_id = ?", scope.TenantID).First(&o, orderID).Error; err != nil {
			return NotFoundf("order %d not found", orderID)
		}

		if o.PaymentStatus != models.PaymentStatusPaid {
			return Conflictf("order %s is %s, only paid orders can be refunded", o.OrderNumber, o.PaymentStatus)
		}

		refundAmount := o.TotalAmount
		if amount != nil {
			refundAmount = *amount
		}
		if refundAmount <= 0 {
			return InvalidInputf("refund amount must be positive")
		}

		o.PaymentStatus = models.PaymentStatusRefunded
		o.AmountPaid -= refundAmount
		o.AmountDue = refundAmount
		if err := o.AppendRefund(models.RefundRecord{
			Amount:     refundAmount,
			RefundedBy: scope.UserID,
			RefundedAt: time.Now(),
		}); err != nil {
			return err
		}

		if err := tx.Save(&o).Error; err != nil {
			return err
		}
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("order %s refunded (%s)", order.OrderNumber, utils.FormatCurrency(order.AmountDue))
	return order, nil
}
