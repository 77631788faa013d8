package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/halkabite/internal/config"
	"github.com/Skotchmaster/halkabite/internal/domain"
	"github.com/Skotchmaster/halkabite/internal/events"
	"github.com/Skotchmaster/halkabite/internal/models"
	"github.com/Skotchmaster/halkabite/internal/notify"
	"github.com/Skotchmaster/halkabite/internal/pricing"
	"github.com/Skotchmaster/halkabite/internal/repo"
	"github.com/Skotchmaster/halkabite/internal/transport"
	"github.com/Skotchmaster/halkabite/internal/util"
	"github.com/Skotchmaster/halkabite/pkg/logging"
	authmw "github.com/Skotchmaster/halkabite/pkg/middleware/auth"
)

const adminPageSize = 20

type OrderService struct {
	Repo     *repo.GormRepo
	Settings config.OrderSettings
	Effects  *Effects

	// Now and NewNumber default to the wall clock and domain.NewOrderNumber.
	Now       func() time.Time
	NewNumber func(time.Time) string
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *OrderService) newNumber(t time.Time) string {
	if s.NewNumber != nil {
		return s.NewNumber(t)
	}
	return domain.NewOrderNumber(t)
}

func (s *OrderService) attempts() int {
	if s.Settings.OrderNumberAttempts < 1 {
		return 1
	}
	return s.Settings.OrderNumberAttempts
}

func validatePlacement(req transport.CreateOrderRequest) error {
	if req.RestaurantID == uuid.Nil {
		return fmt.Errorf("restaurant is required: %w", ErrValidation)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("order must contain at least one item: %w", ErrValidation)
	}
	for i, it := range req.Items {
		if it.FoodItemID == uuid.Nil {
			return fmt.Errorf("item %d: foodItem is required: %w", i, ErrValidation)
		}
		if it.Quantity < 1 {
			return fmt.Errorf("item %d: quantity must be at least 1: %w", i, ErrValidation)
		}
	}
	if !domain.IsPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("unknown payment method %q: %w", req.PaymentMethod, ErrValidation)
	}
	if strings.TrimSpace(req.DeliveryAddress.Street) == "" || strings.TrimSpace(req.DeliveryAddress.City) == "" {
		return fmt.Errorf("delivery address needs street and city: %w", ErrValidation)
	}
	return nil
}

// Place turns the request into a persisted order and empties the caller's cart.
// Either everything is written or nothing is.
func (s *OrderService) Place(ctx context.Context, p authmw.Principal, req transport.CreateOrderRequest) (*transport.PlacedOrder, error) {
	l := logging.FromContext(ctx).With("svc", "order.place")

	if err := validatePlacement(req); err != nil {
		return nil, err
	}
	rest, err := s.Repo.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return nil, notFound(err, "restaurant")
	}
	if !rest.IsActive || !rest.IsOpen {
		return nil, fmt.Errorf("%s is not accepting orders: %w", rest.Name, ErrValidation)
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, it := range req.Items {
		ids = append(ids, it.FoodItemID)
	}
	foods, err := s.Repo.FoodItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load food items: %w", err)
	}

	lines := make([]pricing.Line, 0, len(req.Items))
	for _, it := range req.Items {
		food, ok := foods[it.FoodItemID]
		if !ok {
			return nil, fmt.Errorf("food item %s not found: %w", it.FoodItemID, ErrNotFound)
		}
		if !food.IsAvailable {
			return nil, fmt.Errorf("%s is not available: %w", food.Name, ErrValidation)
		}
		if food.RestaurantID != req.RestaurantID {
			return nil, fmt.Errorf("%s belongs to another restaurant: %w", food.Name, ErrValidation)
		}
		lines = append(lines, pricing.Line{UnitPrice: food.Price, Discount: food.Discount, Quantity: it.Quantity})
	}

	subtotal, lineTotals, err := pricing.Subtotal(lines)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	now := s.now()
	policy := pricing.Policy(s.Settings.NegativeTotalPolicy)

	var coupon *models.Coupon
	discount := decimal.Zero
	notice := pricing.NoticeNone
	code := pricing.NormalizeCode(req.CouponCode)
	if code != "" {
		c, err := s.Repo.CouponByCode(ctx, code)
		switch {
		case err == nil:
			coupon = c
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("load coupon: %w", err)
		}
		discount, notice = pricing.ApplyCoupon(coupon, subtotal, req.RestaurantID, now)
	}

	totals, err := pricing.Compute(subtotal, discount, s.Settings.DeliveryFee, policy)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for i, it := range req.Items {
		items = append(items, models.OrderItem{
			FoodItemID:          it.FoodItemID,
			Name:                foods[it.FoodItemID].Name,
			Quantity:            it.Quantity,
			Price:               lineTotals[i],
			SpecialInstructions: strings.TrimSpace(it.SpecialInstructions),
			Position:            i,
		})
	}

	eta := now.Add(s.Settings.EstimatedDelivery)
	order := &models.Order{
		UserID:                p.UserID,
		RestaurantID:          req.RestaurantID,
		Items:                 items,
		DeliveryAddress:       req.DeliveryAddress,
		PaymentMethod:         req.PaymentMethod,
		PaymentStatus:         models.PaymentStatusPending,
		OrderStatus:           models.OrderStatusPending,
		SpecialInstructions:   strings.TrimSpace(req.SpecialInstructions),
		IsCatering:            req.IsCatering,
		EstimatedDeliveryTime: &eta,
	}
	if req.IsCatering {
		order.CateringDetails = req.CateringDetails
	}

	applied := false
	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		applied = false
		final := totals
		if coupon != nil && notice == pricing.NoticeNone {
			ok, err := tx.RedeemCoupon(ctx, coupon.ID)
			if err != nil {
				return fmt.Errorf("redeem coupon: %w", err)
			}
			if ok {
				applied = true
			} else {
				notice = pricing.NoticeUsageLimitReached
				final, _ = pricing.Compute(subtotal, decimal.Zero, s.Settings.DeliveryFee, policy)
			}
		}

		order.Subtotal = final.Subtotal
		order.Discount = final.Discount
		order.DeliveryFee = final.DeliveryFee
		order.TotalAmount = final.Total
		order.CouponCode = ""
		if applied {
			order.CouponCode = coupon.Code
		}

		if err := s.createWithNumber(ctx, tx, order, now); err != nil {
			return err
		}

		if err := tx.AppendStatusLog(ctx, &models.OrderStatusLog{
			OrderID:   order.ID,
			Field:     models.StatusFieldOrder,
			ToStatus:  models.OrderStatusPending,
			ChangedBy: p.UserID,
			ChangedAt: now,
		}); err != nil {
			return fmt.Errorf("append status log: %w", err)
		}

		if err := tx.ClearCartByUser(ctx, p.UserID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("order_placed",
		"order_id", order.ID.String(),
		"order_number", order.OrderNumber,
		"total", order.TotalAmount.StringFixed(2),
		"coupon_applied", applied,
	)

	if p.Email != "" {
		if msg, err := notify.OrderConfirmation(p.Email, order); err == nil {
			s.Effects.Mail(ctx, msg)
		} else {
			l.Warn("order_email_render_failed", "error", err)
		}
	}
	s.Effects.Publish(ctx, events.TopicOrders, order.ID.String(), events.New(events.TypeOrderCreated, map[string]any{
		"orderId":      order.ID.String(),
		"orderNumber":  order.OrderNumber,
		"userId":       order.UserID.String(),
		"restaurantId": order.RestaurantID.String(),
		"totalAmount":  order.TotalAmount.StringFixed(2),
	}))

	return &transport.PlacedOrder{Order: order, CouponApplied: applied, CouponNotice: string(notice)}, nil
}

// createWithNumber retries on order number collisions.
func (s *OrderService) createWithNumber(ctx context.Context, tx *repo.GormRepo, order *models.Order, now time.Time) error {
	for attempt := 1; attempt <= s.attempts(); attempt++ {
		order.OrderNumber = s.newNumber(now)
		err := tx.CreateOrder(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return fmt.Errorf("create order: %w", err)
		}
		logging.FromContext(ctx).Warn("order_number_collision", "order_number", order.OrderNumber, "attempt", attempt)
	}
	return fmt.Errorf("could not allocate an order number: %w", ErrConflict)
}

// ownsRestaurant reports whether p is the restaurant-role owner of restaurantID.
// Inside a transaction pass the transactional repo.
func ownsRestaurant(ctx context.Context, r *repo.GormRepo, p authmw.Principal, restaurantID uuid.UUID) (bool, error) {
	if p.Role != authmw.RoleRestaurant {
		return false, nil
	}
	rest, err := r.GetRestaurant(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return rest.OwnerID == p.UserID, nil
}

func (s *OrderService) Get(ctx context.Context, p authmw.Principal, id uuid.UUID) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if order.UserID == p.UserID || p.IsAdmin() {
		return order, nil
	}
	ok, err := ownsRestaurant(ctx, s.Repo, p, order.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not authorized to view this order: %w", ErrForbidden)
	}
	return order, nil
}

func (s *OrderService) History(ctx context.Context, p authmw.Principal, id uuid.UUID) ([]models.OrderStatusLog, error) {
	if _, err := s.Get(ctx, p, id); err != nil {
		return nil, err
	}
	return s.Repo.StatusLogs(ctx, id)
}

func (s *OrderService) list(ctx context.Context, f repo.OrderFilter, page, limit int) (*transport.OrderList, error) {
	if f.Status != "" && !domain.IsOrderStatus(f.Status) {
		return nil, fmt.Errorf("unknown order status %q: %w", f.Status, ErrValidation)
	}
	if page < 1 {
		page = 1
	}
	offset, limit := util.Calculate(page, limit)

	total, orders, err := s.Repo.ListOrders(ctx, f, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &transport.OrderList{
		Orders: orders,
		Pagination: transport.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: util.TotalPages(total, limit),
		},
	}, nil
}

func (s *OrderService) ListMine(ctx context.Context, p authmw.Principal, status string, page, limit int) (*transport.OrderList, error) {
	if limit < 1 {
		limit = util.DefaultPageSize
	}
	uid := p.UserID
	return s.list(ctx, repo.OrderFilter{UserID: &uid, Status: status}, page, limit)
}

func (s *OrderService) ListAll(ctx context.Context, status string, restaurantID *uuid.UUID, page, limit int) (*transport.OrderList, error) {
	if limit < 1 {
		limit = adminPageSize
	}
	return s.list(ctx, repo.OrderFilter{RestaurantID: restaurantID, Status: status}, page, limit)
}

// ListForRestaurant is open to admins and the restaurant's owner.
func (s *OrderService) ListForRestaurant(ctx context.Context, p authmw.Principal, restaurantID uuid.UUID, status string, page, limit int) (*transport.OrderList, error) {
	if err := s.requireRestaurantAccess(ctx, p, restaurantID); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = adminPageSize
	}
	return s.list(ctx, repo.OrderFilter{RestaurantID: &restaurantID, Status: status}, page, limit)
}

func (s *OrderService) RestaurantStats(ctx context.Context, p authmw.Principal, restaurantID uuid.UUID) (*repo.RestaurantStats, error) {
	if err := s.requireRestaurantAccess(ctx, p, restaurantID); err != nil {
		return nil, err
	}
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.Repo.RestaurantStats(ctx, restaurantID, dayStart)
}

func (s *OrderService) requireRestaurantAccess(ctx context.Context, p authmw.Principal, restaurantID uuid.UUID) error {
	if _, err := s.Repo.GetRestaurant(ctx, restaurantID); err != nil {
		return notFound(err, "restaurant")
	}
	if p.IsAdmin() {
		return nil
	}
	ok, err := ownsRestaurant(ctx, s.Repo, p, restaurantID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("not the owner of this restaurant: %w", ErrForbidden)
	}
	return nil
}

func (s *OrderService) UpdateStatus(ctx context.Context, p authmw.Principal, id uuid.UUID, req transport.UpdateOrderStatusRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status")

	if req.OrderStatus == "" && req.PaymentStatus == "" {
		return nil, fmt.Errorf("orderStatus or paymentStatus is required: %w", ErrValidation)
	}
	if req.OrderStatus != "" && !domain.IsOrderStatus(req.OrderStatus) {
		return nil, fmt.Errorf("unknown order status %q: %w", req.OrderStatus, ErrValidation)
	}
	if req.PaymentStatus != "" && !domain.IsPaymentStatus(req.PaymentStatus) {
		return nil, fmt.Errorf("unknown payment status %q: %w", req.PaymentStatus, ErrValidation)
	}

	now := s.now()
	var changes []models.OrderStatusLog

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		changes = changes[:0]

		order, err := tx.LockOrder(ctx, id)
		if err != nil {
			return notFound(err, "order")
		}
		if !p.IsAdmin() {
			ok, err := ownsRestaurant(ctx, tx, p, order.RestaurantID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("not authorized to update this order: %w", ErrForbidden)
			}
		}

		fields := map[string]any{}
		if req.OrderStatus != "" {
			if !domain.CanTransitionOrder(order.OrderStatus, req.OrderStatus) {
				return fmt.Errorf("order status %s -> %s: %w", order.OrderStatus, req.OrderStatus, ErrInvalidTransition)
			}
			fields["order_status"] = req.OrderStatus
			if req.OrderStatus == models.OrderStatusDelivered {
				fields["actual_delivery_time"] = now
			}
			changes = append(changes, models.OrderStatusLog{
				Field: models.StatusFieldOrder, FromStatus: order.OrderStatus, ToStatus: req.OrderStatus,
			})
		}
		if req.PaymentStatus != "" {
			if !domain.CanTransitionPayment(order.PaymentStatus, req.PaymentStatus) {
				return fmt.Errorf("payment status %s -> %s: %w", order.PaymentStatus, req.PaymentStatus, ErrInvalidTransition)
			}
			fields["payment_status"] = req.PaymentStatus
			changes = append(changes, models.OrderStatusLog{
				Field: models.StatusFieldPayment, FromStatus: order.PaymentStatus, ToStatus: req.PaymentStatus,
			})
		}

		if err := tx.UpdateOrder(ctx, id, fields); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		for i := range changes {
			changes[i].OrderID = id
			changes[i].ChangedBy = p.UserID
			changes[i].ChangedAt = now
			if err := tx.AppendStatusLog(ctx, &changes[i]); err != nil {
				return fmt.Errorf("append status log: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ch := range changes {
		l.Info("order_status_changed", "order_id", id.String(), "field", ch.Field, "from", ch.FromStatus, "to", ch.ToStatus)
		s.publishStatus(ctx, events.TypeOrderStatusChanged, ch)
	}

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

func (s *OrderService) publishStatus(ctx context.Context, typ string, ch models.OrderStatusLog) {
	s.Effects.Publish(ctx, events.TopicOrders, ch.OrderID.String(), events.New(typ, map[string]any{
		"orderId":   ch.OrderID.String(),
		"field":     ch.Field,
		"from":      ch.FromStatus,
		"to":        ch.ToStatus,
		"changedBy": ch.ChangedBy.String(),
	}))
}

// Cancel is allowed for the customer and the restaurant owner while the order is pending or confirmed.
func (s *OrderService) Cancel(ctx context.Context, p authmw.Principal, id uuid.UUID) (*models.Order, error) {
	now := s.now()
	var change models.OrderStatusLog

	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		order, err := tx.LockOrder(ctx, id)
		if err != nil {
			return notFound(err, "order")
		}
		if order.UserID != p.UserID {
			ok, err := ownsRestaurant(ctx, tx, p, order.RestaurantID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("not authorized to cancel this order: %w", ErrForbidden)
			}
		}
		if !domain.Cancellable(order.OrderStatus) {
			return fmt.Errorf("cannot cancel order at this stage: %w", ErrValidation)
		}

		if err := tx.UpdateOrder(ctx, id, map[string]any{"order_status": models.OrderStatusCancelled}); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		change = models.OrderStatusLog{
			OrderID:    id,
			Field:      models.StatusFieldOrder,
			FromStatus: order.OrderStatus,
			ToStatus:   models.OrderStatusCancelled,
			ChangedBy:  p.UserID,
			ChangedAt:  now,
		}
		return tx.AppendStatusLog(ctx, &change)
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("order_cancelled", "order_id", id.String(), "from", change.FromStatus)
	s.publishStatus(ctx, events.TypeOrderCancelled, change)

	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	return order, nil
}

// Reorder replaces the caller's cart with the lines of a past order.
// Items that were deleted from the menu since are skipped.
func (s *OrderService) Reorder(ctx context.Context, p authmw.Principal, id uuid.UUID) (*transport.CartView, error) {
	order, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if order.UserID != p.UserID {
		return nil, fmt.Errorf("not authorized to reorder: %w", ErrForbidden)
	}

	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, it := range order.Items {
		ids = append(ids, it.FoodItemID)
	}
	foods, err := s.Repo.FoodItemsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load food items: %w", err)
	}

	var lines []models.CartItem
	seen := map[uuid.UUID]int{}
	for _, it := range order.Items {
		if _, ok := foods[it.FoodItemID]; !ok {
			continue
		}
		if idx, dup := seen[it.FoodItemID]; dup {
			lines[idx].Quantity += it.Quantity
			continue
		}
		seen[it.FoodItemID] = len(lines)
		lines = append(lines, models.CartItem{
			FoodItemID:          it.FoodItemID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("none of the ordered items are on the menu anymore: %w", ErrValidation)
	}

	err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		return replaceCart(ctx, tx, p.UserID, order.RestaurantID, lines)
	})
	if err != nil {
		return nil, err
	}

	s.Effects.Publish(ctx, events.TopicCart, p.UserID.String(), events.New(events.TypeCartReordered, map[string]any{
		"userId":  p.UserID.String(),
		"orderId": order.ID.String(),
	}))

	cart, err := s.Repo.GetCart(ctx, p.UserID)
	if err != nil {
		return nil, notFound(err, "cart")
	}
	return cartView(cart), nil
}
