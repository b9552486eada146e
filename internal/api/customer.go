package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"restaurant-service/internal/entity"
	"restaurant-service/internal/service"
)

type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new instance of CustomerHandler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomer creates a new customer --> POST /customers
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	customer := entity.Customer{}
	if err := c.Bind(&customer); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdCustomer, err := h.customerService.CreateCustomer(c.Request().Context(), &customer)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, createdCustomer)
}

// GetCustomer retrieves a customer by ID --> GET /customers/:id
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	customer, err := h.customerService.GetCustomerByID(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, customer)
}

// ListCustomers lists active customers --> GET /customers
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	customers, err := h.customerService.GetCustomers(c.Request().Context())
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, customers)
}

// UpdateCustomer updates a customer --> PUT /customers/:id
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	customer := entity.Customer{}
	if err := c.Bind(&customer); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}
	customer.ID = id

	updatedCustomer, err := h.customerService.UpdateCustomer(c.Request().Context(), &customer)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, updatedCustomer)
}

// DeleteCustomer soft-deletes a customer --> DELETE /customers/:id
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.customerService.DeleteCustomer(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}

	return c.NoContent(204)
}
