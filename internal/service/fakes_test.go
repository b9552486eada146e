package service

import (
	"context"
	"sort"
	"time"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

// In-memory stores backing the service tests.

type fakeCustomerStore struct {
	customers map[int]*entity.Customer
	nextID    int
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: map[int]*entity.Customer{}, nextID: 1}
}

func (f *fakeCustomerStore) add(customer entity.Customer) *entity.Customer {
	customer.ID = f.nextID
	f.nextID++
	f.customers[customer.ID] = &customer
	return &customer
}

func (f *fakeCustomerStore) GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error) {
	customer, ok := f.customers[id]
	if !ok {
		return nil, apperr.NotFound("customer %d not found", id)
	}
	copied := *customer
	return &copied, nil
}

func (f *fakeCustomerStore) CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	for _, existing := range f.customers {
		if existing.Email == customer.Email {
			return nil, apperr.Conflict("customer with email %s already exists", customer.Email)
		}
	}
	return f.add(*customer), nil
}

func (f *fakeCustomerStore) GetCustomers(ctx context.Context) ([]*entity.Customer, error) {
	var customers []*entity.Customer
	for _, customer := range f.customers {
		if customer.IsActive {
			copied := *customer
			customers = append(customers, &copied)
		}
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}

func (f *fakeCustomerStore) UpdateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	existing, ok := f.customers[customer.ID]
	if !ok {
		return nil, apperr.NotFound("customer %d not found", customer.ID)
	}
	existing.Name = customer.Name
	existing.Email = customer.Email
	existing.Phone = customer.Phone
	existing.Address = customer.Address
	copied := *existing
	return &copied, nil
}

func (f *fakeCustomerStore) SetCustomerActive(ctx context.Context, id int, active bool) error {
	customer, ok := f.customers[id]
	if !ok {
		return apperr.NotFound("customer %d not found", id)
	}
	customer.IsActive = active
	return nil
}

func (f *fakeCustomerStore) SetLoyaltyActive(ctx context.Context, id int, active bool) error {
	customer, ok := f.customers[id]
	if !ok {
		return apperr.NotFound("customer %d not found", id)
	}
	customer.LoyaltyActive = active
	return nil
}

type fakeProductStore struct {
	products map[int]*entity.Product
	nextID   int
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[int]*entity.Product{}, nextID: 1}
}

func (f *fakeProductStore) add(product entity.Product) *entity.Product {
	product.ID = f.nextID
	f.nextID++
	f.products[product.ID] = &product
	return &product
}

func (f *fakeProductStore) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, apperr.NotFound("product %d not found", id)
	}
	copied := *product
	return &copied, nil
}

func (f *fakeProductStore) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	return f.add(*product), nil
}

func (f *fakeProductStore) GetProducts(ctx context.Context, category string) ([]*entity.Product, error) {
	var products []*entity.Product
	for _, product := range f.products {
		if !product.IsAvailable {
			continue
		}
		if category != "" && product.Category != category {
			continue
		}
		copied := *product
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (f *fakeProductStore) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	existing, ok := f.products[product.ID]
	if !ok {
		return nil, apperr.NotFound("product %d not found", product.ID)
	}
	existing.Name = product.Name
	existing.Description = product.Description
	existing.Price = product.Price
	existing.Category = product.Category
	copied := *existing
	return &copied, nil
}

func (f *fakeProductStore) SetProductAvailable(ctx context.Context, id int, available bool) error {
	product, ok := f.products[id]
	if !ok {
		return apperr.NotFound("product %d not found", id)
	}
	product.IsAvailable = available
	return nil
}

type fakeOrderStore struct {
	orders map[int]*entity.Order
	nextID int
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[int]*entity.Order{}, nextID: 1}
}

func (f *fakeOrderStore) add(order entity.Order) *entity.Order {
	order.ID = f.nextID
	f.nextID++
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}
	f.orders[order.ID] = &order
	return &order
}

func (f *fakeOrderStore) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	created := f.add(*order)
	copied := *created
	return &copied, nil
}

func (f *fakeOrderStore) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("order %d not found", id)
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderStore) ListOrders(ctx context.Context, status *entity.OrderStatus) ([]*entity.Order, error) {
	var orders []*entity.Order
	for _, order := range f.orders {
		if status != nil {
			if order.Status != *status {
				continue
			}
		} else if order.Status == entity.StatusCancelled {
			continue
		}
		copied := *order
		orders = append(orders, &copied)
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (f *fakeOrderStore) ListOrdersByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error) {
	var orders []*entity.Order
	for _, order := range f.orders {
		if order.CustomerID == customerID {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (f *fakeOrderStore) ActiveOrdersByCustomer(ctx context.Context, customerID int) ([]*entity.Order, error) {
	var orders []*entity.Order
	for _, order := range f.orders {
		if order.CustomerID == customerID && order.Status != entity.StatusCancelled {
			copied := *order
			orders = append(orders, &copied)
		}
	}
	sortOrdersNewestFirst(orders)
	return orders, nil
}

func (f *fakeOrderStore) CountActiveOrdersSince(ctx context.Context, customerID int, since time.Time) (int, error) {
	count := 0
	for _, order := range f.orders {
		if order.CustomerID == customerID && order.Status != entity.StatusCancelled && !order.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeOrderStore) UpdateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	existing, ok := f.orders[order.ID]
	if !ok {
		return nil, apperr.NotFound("order %d not found", order.ID)
	}
	existing.Notes = order.Notes
	if len(order.Products) > 0 {
		existing.Products = order.Products
	}
	existing.UpdatedAt = time.Now()
	copied := *existing
	return &copied, nil
}

func (f *fakeOrderStore) UpdateOrderStatus(ctx context.Context, id int, status entity.OrderStatus) error {
	order, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("order %d not found", id)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

func sortOrdersNewestFirst(orders []*entity.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}
