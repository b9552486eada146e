package service

import (
	"context"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

type CustomerService struct {
	customers CustomerStore
}

// NewCustomerService creates a new instance of CustomerService.
func NewCustomerService(customers CustomerStore) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) CreateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	if customer.Name == "" {
		return nil, apperr.Invalid("customer name is required")
	}
	if customer.Email == "" {
		return nil, apperr.Invalid("customer email is required")
	}

	customer.IsActive = true
	customer.LoyaltyActive = true

	createdCustomer, err := s.customers.CreateCustomer(ctx, customer)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating customer")
		return nil, err
	}

	return createdCustomer, nil
}

func (s *CustomerService) GetCustomerByID(ctx context.Context, id int) (*entity.Customer, error) {
	return s.customers.GetCustomerByID(ctx, id)
}

func (s *CustomerService) GetCustomers(ctx context.Context) ([]*entity.Customer, error) {
	return s.customers.GetCustomers(ctx)
}

func (s *CustomerService) UpdateCustomer(ctx context.Context, customer *entity.Customer) (*entity.Customer, error) {
	existing, err := s.customers.GetCustomerByID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}

	if customer.Name == "" {
		customer.Name = existing.Name
	}
	if customer.Email == "" {
		customer.Email = existing.Email
	}

	updatedCustomer, err := s.customers.UpdateCustomer(ctx, customer)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating customer %d", customer.ID)
		return nil, err
	}

	return updatedCustomer, nil
}

// DeleteCustomer soft-deletes: the row stays for order history, the customer
// disappears from listings and can no longer place orders.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int) error {
	if _, err := s.customers.GetCustomerByID(ctx, id); err != nil {
		return err
	}
	return s.customers.SetCustomerActive(ctx, id, false)
}
