package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"restaurant-service/internal/entity"
	"restaurant-service/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type createOrderRequest struct {
	CustomerID  int             `json:"customer_id"`
	ProductIDs  []int           `json:"product_ids"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Notes       string          `json:"notes"`
}

// CreateOrder creates a new order --> POST /orders
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	req := createOrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	createdOrder, err := h.orderService.CreateOrder(ctx, &service.CreateOrderInput{
		CustomerID:    req.CustomerID,
		ProductIDs:    req.ProductIDs,
		TotalAmount:   req.TotalAmount,
		Notes:         req.Notes,
		IdempotentKey: c.Request().Header.Get("Idempotent-Key"),
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(201, createdOrder)
}

// ListOrders lists orders --> GET /orders?status=
func (h *OrderHandler) ListOrders(c echo.Context) error {
	var status *entity.OrderStatus
	if raw := c.QueryParam("status"); raw != "" {
		s := entity.OrderStatus(raw)
		status = &s
	}

	orders, err := h.orderService.FindAll(c.Request().Context(), status)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, orders)
}

// GetOrder retrieves an order by ID --> GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.FindOne(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, order)
}

// ListCustomerOrders lists a customer's orders --> GET /customers/:id/orders
func (h *OrderHandler) ListCustomerOrders(c echo.Context) error {
	customerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	orders, err := h.orderService.FindByCustomer(c.Request().Context(), customerID)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, orders)
}

type updateOrderRequest struct {
	Notes      *string `json:"notes"`
	ProductIDs []int   `json:"product_ids"`
}

// UpdateOrder patches an order --> PUT /orders/:id
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	req := updateOrderRequest{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	updatedOrder, err := h.orderService.UpdateOrder(c.Request().Context(), id, &service.UpdateOrderInput{
		Notes:      req.Notes,
		ProductIDs: req.ProductIDs,
	})
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, updatedOrder)
}

// UpdateOrderStatus transitions an order --> PATCH /orders/:id/status
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	req := struct {
		Status entity.OrderStatus `json:"status"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	order, err := h.orderService.UpdateOrderStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, order)
}

// CancelOrder cancels an order --> DELETE /orders/:id
func (h *OrderHandler) CancelOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	order, err := h.orderService.CancelOrder(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, order)
}
