package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

type orderFixture struct {
	svc       *OrderService
	orders    *fakeOrderStore
	customers *fakeCustomerStore
	products  *fakeProductStore
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Setenv("ENV", "test")

	orders := newFakeOrderStore()
	customers := newFakeCustomerStore()
	products := newFakeProductStore()
	loyalty := NewLoyaltyService(orders, customers)

	return &orderFixture{
		svc:       NewOrderService(orders, customers, products, loyalty, nil, nil),
		orders:    orders,
		customers: customers,
		products:  products,
	}
}

func (f *orderFixture) addCustomer() *entity.Customer {
	return f.customers.add(entity.Customer{Name: "Ada", Email: "ada@example.com", IsActive: true, LoyaltyActive: true})
}

func (f *orderFixture) addProduct(name string, available bool) *entity.Product {
	return f.products.add(entity.Product{Name: name, Price: dec("12.50"), Category: "mains", IsAvailable: available})
}

func TestCreateOrderAppliesDiscount(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.addCustomer()
	pizza := f.addProduct("Margherita", true)
	pasta := f.addProduct("Carbonara", true)
	seedOrders(f.orders, customer.ID, 4, "20", time.Now().Add(-24*time.Hour), entity.StatusDelivered)

	order, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID:  customer.ID,
		ProductIDs:  []int{pizza.ID, pasta.ID},
		TotalAmount: dec("100"),
		Notes:       "no basil",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(dec("95")), "4 recent orders earn 5%%, got %s", order.TotalAmount)
	assert.Len(t, order.Products, 2)
	assert.Equal(t, "no basil", order.Notes)

	stored, err := f.orders.GetOrderByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)
}

func TestCreateOrderDiscountBoundary(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.addCustomer()
	pizza := f.addProduct("Margherita", true)
	seedOrders(f.orders, customer.ID, 3, "20", time.Now().Add(-24*time.Hour), entity.StatusDelivered)

	order, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID:  customer.ID,
		ProductIDs:  []int{pizza.ID},
		TotalAmount: dec("100"),
	})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(dec("100")), "3 recent orders earn no discount, got %s", order.TotalAmount)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.addCustomer()
	pizza := f.addProduct("Margherita", true)

	t.Run("no products", func(t *testing.T) {
		_, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
			CustomerID:  customer.ID,
			TotalAmount: dec("10"),
		})
		assert.True(t, apperr.IsInvalid(err))
	})

	t.Run("negative total", func(t *testing.T) {
		_, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
			CustomerID:  customer.ID,
			ProductIDs:  []int{pizza.ID},
			TotalAmount: dec("-1"),
		})
		assert.True(t, apperr.IsInvalid(err))
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
			CustomerID:  99,
			ProductIDs:  []int{pizza.ID},
			TotalAmount: dec("10"),
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("soft-deleted customer", func(t *testing.T) {
		deleted := f.customers.add(entity.Customer{Name: "Bob", Email: "bob@example.com", IsActive: false})
		_, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
			CustomerID:  deleted.ID,
			ProductIDs:  []int{pizza.ID},
			TotalAmount: dec("10"),
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
			CustomerID:  customer.ID,
			ProductIDs:  []int{99},
			TotalAmount: dec("10"),
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestCreateOrderUnavailableProduct(t *testing.T) {
	f := newOrderFixture(t)
	customer := f.addCustomer()
	pizza := f.addProduct("Margherita", true)
	special := f.addProduct("Seasonal Special", false)

	_, err := f.svc.CreateOrder(context.Background(), &CreateOrderInput{
		CustomerID:  customer.ID,
		ProductIDs:  []int{pizza.ID, special.ID},
		TotalAmount: dec("30"),
	})
	require.Error(t, err)
	assert.True(t, apperr.IsInvalid(err))
	assert.Contains(t, err.Error(), "Seasonal Special")
	assert.Empty(t, f.orders.orders, "no order row may be persisted")
}

func TestUpdateOrderStatusGuards(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	t.Run("cancelled rejects everything", func(t *testing.T) {
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusCancelled, TotalAmount: dec("10")})
		_, err := f.svc.UpdateOrderStatus(ctx, order.ID, entity.StatusPending)
		require.Error(t, err)
		assert.True(t, apperr.IsInvalid(err))
		assert.Contains(t, err.Error(), "cancelled")
	})

	t.Run("delivered rejects other statuses", func(t *testing.T) {
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusDelivered, TotalAmount: dec("10")})
		for _, status := range []entity.OrderStatus{entity.StatusPending, entity.StatusPreparing, entity.StatusReady, entity.StatusCancelled} {
			_, err := f.svc.UpdateOrderStatus(ctx, order.ID, status)
			assert.True(t, apperr.IsInvalid(err), "DELIVERED -> %s must be rejected", status)
		}
	})

	t.Run("delivered to delivered passes through", func(t *testing.T) {
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusDelivered, TotalAmount: dec("10")})
		updated, err := f.svc.UpdateOrderStatus(ctx, order.ID, entity.StatusDelivered)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusDelivered, updated.Status)
	})

	t.Run("backward transition is allowed", func(t *testing.T) {
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusReady, TotalAmount: dec("10")})
		updated, err := f.svc.UpdateOrderStatus(ctx, order.ID, entity.StatusPending)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusPending, updated.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusPending, TotalAmount: dec("10")})
		_, err := f.svc.UpdateOrderStatus(ctx, order.ID, entity.OrderStatus("SHIPPED"))
		assert.True(t, apperr.IsInvalid(err))
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := f.svc.UpdateOrderStatus(ctx, 999, entity.StatusReady)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestCancelOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	t.Run("idempotent", func(t *testing.T) {
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusPending, TotalAmount: dec("10")})

		first, err := f.svc.CancelOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCancelled, first.Status)

		second, err := f.svc.CancelOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.StatusCancelled, second.Status)
	})

	t.Run("delivered cannot be cancelled", func(t *testing.T) {
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusDelivered, TotalAmount: dec("10")})
		_, err := f.svc.CancelOrder(ctx, order.ID)
		require.Error(t, err)
		assert.True(t, apperr.IsInvalid(err))
		assert.Contains(t, err.Error(), "delivered")
	})
}

func TestFindAll(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusPending, TotalAmount: dec("10")})
	f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusDelivered, TotalAmount: dec("10")})
	f.orders.add(entity.Order{CustomerID: 2, Status: entity.StatusCancelled, TotalAmount: dec("10")})

	t.Run("default excludes cancelled", func(t *testing.T) {
		orders, err := f.svc.FindAll(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, orders, 2)
		for _, order := range orders {
			assert.NotEqual(t, entity.StatusCancelled, order.Status)
		}
	})

	t.Run("explicit cancelled filter", func(t *testing.T) {
		status := entity.StatusCancelled
		orders, err := f.svc.FindAll(ctx, &status)
		require.NoError(t, err)
		assert.Len(t, orders, 1)
		assert.Equal(t, entity.StatusCancelled, orders[0].Status)
	})

	t.Run("invalid filter", func(t *testing.T) {
		status := entity.OrderStatus("SHIPPED")
		_, err := f.svc.FindAll(ctx, &status)
		assert.True(t, apperr.IsInvalid(err))
	})
}

func TestUpdateOrder(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	t.Run("patches open order", func(t *testing.T) {
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusPreparing, TotalAmount: dec("10"), Notes: "old"})
		notes := "ring the bell"
		updated, err := f.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{Notes: &notes})
		require.NoError(t, err)
		assert.Equal(t, "ring the bell", updated.Notes)
		assert.True(t, updated.TotalAmount.Equal(dec("10")), "stored total never changes")
	})

	t.Run("rejects closed orders", func(t *testing.T) {
		notes := "too late"
		for _, status := range []entity.OrderStatus{entity.StatusDelivered, entity.StatusCancelled} {
			order := f.orders.add(entity.Order{CustomerID: 1, Status: status, TotalAmount: dec("10")})
			_, err := f.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{Notes: &notes})
			assert.True(t, apperr.IsInvalid(err), "update of %s order must be rejected", status)
		}
	})

	t.Run("rejects unavailable replacement product", func(t *testing.T) {
		special := f.addProduct("Seasonal Special", false)
		order := f.orders.add(entity.Order{CustomerID: 1, Status: entity.StatusPending, TotalAmount: dec("10")})
		_, err := f.svc.UpdateOrder(ctx, order.ID, &UpdateOrderInput{ProductIDs: []int{special.ID}})
		assert.True(t, apperr.IsInvalid(err))
	})
}

func TestFindByCustomerIncludesCancelled(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	f.orders.add(entity.Order{CustomerID: 7, Status: entity.StatusCancelled, TotalAmount: dec("10")})
	f.orders.add(entity.Order{CustomerID: 7, Status: entity.StatusDelivered, TotalAmount: dec("10")})
	f.orders.add(entity.Order{CustomerID: 8, Status: entity.StatusPending, TotalAmount: dec("10")})

	orders, err := f.svc.FindByCustomer(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
