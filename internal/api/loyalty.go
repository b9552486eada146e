package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"restaurant-service/internal/service"
)

type LoyaltyHandler struct {
	loyaltyService *service.LoyaltyService
}

// NewLoyaltyHandler creates a new instance of LoyaltyHandler
func NewLoyaltyHandler(loyaltyService *service.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{loyaltyService: loyaltyService}
}

func customerIDParam(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, false
	}
	return id, true
}

// GetLoyaltyInfo --> GET /customers/:id/loyalty
func (h *LoyaltyHandler) GetLoyaltyInfo(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	info, err := h.loyaltyService.GetCustomerLoyaltyInfo(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, info)
}

// GetTier --> GET /customers/:id/loyalty/tier
func (h *LoyaltyHandler) GetTier(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	tier, err := h.loyaltyService.CalculateCustomerTier(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, tier)
}

// GetStats --> GET /customers/:id/loyalty/stats
func (h *LoyaltyHandler) GetStats(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	stats, err := h.loyaltyService.GetCustomerLoyaltyStats(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, stats)
}

// GetMetrics --> GET /customers/:id/loyalty/metrics
func (h *LoyaltyHandler) GetMetrics(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	metrics, err := h.loyaltyService.GetLoyaltyMetrics(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, metrics)
}

// GetPoints --> GET /customers/:id/loyalty/points
func (h *LoyaltyHandler) GetPoints(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	points, err := h.loyaltyService.CalculateLoyaltyPoints(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]int64{"points": points})
}

// GetExpiredPoints --> GET /customers/:id/loyalty/expired-points
func (h *LoyaltyHandler) GetExpiredPoints(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	points, err := h.loyaltyService.GetExpiredPoints(c.Request().Context(), id)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]int64{"expired_points": points})
}

// QuoteNextOrder prices a prospective order --> POST /customers/:id/loyalty/quote
func (h *LoyaltyHandler) QuoteNextOrder(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	req := struct {
		TotalAmount decimal.Decimal `json:"total_amount"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	amount, err := h.loyaltyService.CalculateNextOrderAmount(c.Request().Context(), id, req.TotalAmount)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]decimal.Decimal{"total_amount": amount})
}

// AdjustPoints --> POST /customers/:id/loyalty/adjustments
func (h *LoyaltyHandler) AdjustPoints(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	req := struct {
		Adjustment int64  `json:"adjustment"`
		Reason     string `json:"reason"`
	}{}
	if err := c.Bind(&req); err != nil {
		return c.JSON(400, map[string]string{"error": "Invalid request payload"})
	}

	adjustment, err := h.loyaltyService.AdjustPoints(c.Request().Context(), id, req.Adjustment, req.Reason)
	if err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, adjustment)
}

// Suspend --> POST /customers/:id/loyalty/suspend
func (h *LoyaltyHandler) Suspend(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.loyaltyService.SuspendLoyaltyProgram(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "loyalty program suspended"})
}

// Reactivate --> POST /customers/:id/loyalty/reactivate
func (h *LoyaltyHandler) Reactivate(c echo.Context) error {
	id, ok := customerIDParam(c)
	if !ok {
		return c.JSON(400, map[string]string{"error": "Invalid ID"})
	}

	if err := h.loyaltyService.ReactivateLoyaltyProgram(c.Request().Context(), id); err != nil {
		return errorJSON(c, err)
	}

	return c.JSON(200, map[string]string{"message": "loyalty program reactivated"})
}
