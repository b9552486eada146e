package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// OrderService owns the order lifecycle: creation (priced through the loyalty
// engine), status transitions and cancellation.
type OrderService struct {
	orders      OrderStore
	customers   CustomerStore
	products    ProductStore
	loyalty     *LoyaltyService
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(orders OrderStore, customers CustomerStore, products ProductStore, loyalty *LoyaltyService, kafkaWriter *kafka.Writer, rdb *redis.Client) *OrderService {
	return &OrderService{
		orders:      orders,
		customers:   customers,
		products:    products,
		loyalty:     loyalty,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

type CreateOrderInput struct {
	CustomerID    int
	ProductIDs    []int
	TotalAmount   decimal.Decimal
	Notes         string
	IdempotentKey string
}

type UpdateOrderInput struct {
	Notes      *string
	ProductIDs []int
}

// CreateOrder validates the referenced customer and products, asks the
// loyalty engine for the discounted total and persists the order as PENDING.
// The caller-supplied total is the pre-discount amount; it is not verified
// against the product prices.
func (s *OrderService) CreateOrder(ctx context.Context, in *CreateOrderInput) (*entity.Order, error) {
	if len(in.ProductIDs) == 0 {
		return nil, apperr.Invalid("order must contain at least one product")
	}
	if in.TotalAmount.IsNegative() {
		return nil, apperr.Invalid("total amount cannot be negative")
	}

	validate, err := s.validateIdempotentKey(ctx, in.IdempotentKey)
	if err != nil {
		return nil, err
	}
	if !validate {
		return nil, apperr.Conflict("idempotent key already exists")
	}

	customer, err := s.customers.GetCustomerByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, apperr.NotFound("customer %d not found", in.CustomerID)
	}

	products := make([]entity.Product, 0, len(in.ProductIDs))
	for _, productID := range in.ProductIDs {
		product, err := s.products.GetProductByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	for _, product := range products {
		if !product.IsAvailable {
			return nil, apperr.Invalid("product %q is not available", product.Name)
		}
	}

	totalAmount, err := s.loyalty.CalculateNextOrderAmount(ctx, in.CustomerID, in.TotalAmount)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		CustomerID:  in.CustomerID,
		Products:    products,
		Status:      entity.StatusPending,
		TotalAmount: totalAmount,
		Notes:       in.Notes,
	}

	createdOrder, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating order")
		return nil, err
	}

	if os.Getenv("ENV") == "test" {
		return createdOrder, nil
	}
	err = s.publishOrderEvent(ctx, createdOrder, "created")
	if err != nil {
		return nil, err
	}

	return createdOrder, nil
}

// FindAll lists orders by status. Without a filter, cancelled orders are
// excluded.
func (s *OrderService) FindAll(ctx context.Context, status *entity.OrderStatus) ([]*entity.Order, error) {
	if status != nil && !status.Valid() {
		return nil, apperr.Invalid("invalid order status %q", string(*status))
	}
	return s.orders.ListOrders(ctx, status)
}

func (s *OrderService) FindOne(ctx context.Context, id int) (*entity.Order, error) {
	return s.orders.GetOrderByID(ctx, id)
}

func (s *OrderService) FindByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error) {
	return s.orders.ListOrdersByCustomer(ctx, customerID)
}

// UpdateOrder patches mutable fields. Closed orders (delivered or cancelled)
// reject any update. The stored total is historical fact and never changes.
func (s *OrderService) UpdateOrder(ctx context.Context, id int, in *UpdateOrderInput) (*entity.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == entity.StatusDelivered || order.Status == entity.StatusCancelled {
		return nil, apperr.Invalid("cannot update order %d in status %s", id, order.Status)
	}

	if in.Notes != nil {
		order.Notes = *in.Notes
	}

	if len(in.ProductIDs) > 0 {
		products := make([]entity.Product, 0, len(in.ProductIDs))
		for _, productID := range in.ProductIDs {
			product, err := s.products.GetProductByID(ctx, productID)
			if err != nil {
				return nil, err
			}
			products = append(products, *product)
		}
		for _, product := range products {
			if !product.IsAvailable {
				return nil, apperr.Invalid("product %q is not available", product.Name)
			}
		}
		order.Products = products
	}

	updatedOrder, err := s.orders.UpdateOrder(ctx, order)
	if err != nil {
		logger.Error().Err(err).Msg("Error updating order")
		return nil, err
	}

	if os.Getenv("ENV") == "test" {
		return updatedOrder, nil
	}
	err = s.publishOrderEvent(ctx, updatedOrder, "updated")
	if err != nil {
		return nil, err
	}

	return updatedOrder, nil
}

// UpdateOrderStatus applies the transition guard: cancelled orders accept
// nothing, delivered orders only accept the DELIVERED pass-through. Any other
// transition between valid statuses is allowed.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int, status entity.OrderStatus) (*entity.Order, error) {
	if !status.Valid() {
		return nil, apperr.Invalid("invalid order status %q", string(status))
	}

	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status == entity.StatusCancelled {
		return nil, apperr.Invalid("cannot update a cancelled order")
	}
	if order.Status == entity.StatusDelivered && status != entity.StatusDelivered {
		return nil, apperr.Invalid("cannot change status of delivered order")
	}

	err = s.orders.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating status of order %d", id)
		return nil, err
	}
	order.Status = status

	if os.Getenv("ENV") == "test" {
		return order, nil
	}
	err = s.publishOrderEvent(ctx, order, "status_changed")
	if err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder cancels an existing order. Delivered orders cannot be
// cancelled; cancelling an already cancelled order is a no-op.
func (s *OrderService) CancelOrder(ctx context.Context, id int) (*entity.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, id)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting order by ID %d", id)
		return nil, err
	}

	if order.Status == entity.StatusDelivered {
		return nil, apperr.Invalid("cannot cancel a delivered order")
	}
	if order.Status == entity.StatusCancelled {
		return order, nil
	}

	err = s.orders.UpdateOrderStatus(ctx, id, entity.StatusCancelled)
	if err != nil {
		logger.Error().Err(err).Msg("Error cancelling order")
		return nil, err
	}
	order.Status = entity.StatusCancelled

	if os.Getenv("ENV") == "test" {
		return order, nil
	}
	err = s.publishOrderEvent(ctx, order, "cancelled")
	if err != nil {
		return nil, err
	}

	return order, nil
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, key string) error {
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	// order-created-1 or order-cancelled-1
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%d", key, order.ID)),
		Value: orderJSON,
	}

	err = s.kafkaWriter.WriteMessages(ctx, msg)
	if err != nil {
		return err
	}

	return nil
}

func (s *OrderService) validateIdempotentKey(ctx context.Context, key string) (bool, error) {
	if key == "" || os.Getenv("ENV") == "test" {
		return true, nil
	}

	redisKey := fmt.Sprintf("idempotent-key:%s", key)
	val, err := s.rdb.Get(ctx, redisKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, err
	}

	if val != "" {
		return false, nil
	}

	err = s.rdb.Set(ctx, redisKey, "exists", 24*time.Hour).Err()
	if err != nil {
		return false, err
	}

	return true, nil
}
