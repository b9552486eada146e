package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"restaurant-service/internal/apperr"
	"restaurant-service/internal/entity"
)

const maxPointsAdjustment = 10000

// Discount tables, ordered by ascending threshold. Lookup takes the highest
// qualifying threshold.
var orderCountRates = []struct {
	MinOrders int
	Rate      decimal.Decimal
}{
	{0, decimal.Zero},
	{4, decimal.NewFromFloat(0.05)},
	{6, decimal.NewFromFloat(0.10)},
	{11, decimal.NewFromFloat(0.15)},
}

var spendingRates = []struct {
	MinSpent decimal.Decimal
	Rate     decimal.Decimal
}{
	{decimal.Zero, decimal.Zero},
	{decimal.NewFromInt(100), decimal.NewFromFloat(0.03)},
	{decimal.NewFromInt(250), decimal.NewFromFloat(0.07)},
	{decimal.NewFromInt(500), decimal.NewFromFloat(0.12)},
}

// Tier naming thresholds. Note the Silver order threshold (3) sits below the
// first discount threshold (4): a customer can be Silver with a 0% rate.
const (
	silverOrderThreshold   = 3
	goldOrderThreshold     = 6
	platinumOrderThreshold = 11
)

var (
	silverSpendThreshold   = decimal.NewFromInt(100)
	goldSpendThreshold     = decimal.NewFromInt(250)
	platinumSpendThreshold = decimal.NewFromInt(500)
)

func orderCountRate(count int) decimal.Decimal {
	rate := decimal.Zero
	for _, tier := range orderCountRates {
		if count >= tier.MinOrders {
			rate = tier.Rate
		}
	}
	return rate
}

func spendingRate(spent decimal.Decimal) decimal.Decimal {
	rate := decimal.Zero
	for _, tier := range spendingRates {
		if spent.GreaterThanOrEqual(tier.MinSpent) {
			rate = tier.Rate
		}
	}
	return rate
}

func tierName(orderCount int, totalSpent decimal.Decimal) string {
	switch {
	case orderCount >= platinumOrderThreshold || totalSpent.GreaterThanOrEqual(platinumSpendThreshold):
		return entity.TierPlatinum
	case orderCount >= goldOrderThreshold || totalSpent.GreaterThanOrEqual(goldSpendThreshold):
		return entity.TierGold
	case orderCount >= silverOrderThreshold || totalSpent.GreaterThanOrEqual(silverSpendThreshold):
		return entity.TierSilver
	default:
		return entity.TierBronze
	}
}

func nextTierRequirement(orderCount int, totalSpent decimal.Decimal) *entity.NextTierRequirement {
	req := &entity.NextTierRequirement{}

	for _, threshold := range []int{silverOrderThreshold, goldOrderThreshold, platinumOrderThreshold} {
		if orderCount < threshold {
			needed := threshold - orderCount
			req.OrdersNeeded = &needed
			break
		}
	}

	for _, threshold := range []decimal.Decimal{silverSpendThreshold, goldSpendThreshold, platinumSpendThreshold} {
		if totalSpent.LessThan(threshold) {
			needed := threshold.Sub(totalSpent)
			req.SpendingNeeded = &needed
			break
		}
	}

	if req.OrdersNeeded == nil && req.SpendingNeeded == nil {
		return nil
	}
	return req
}

// LoyaltyService computes discounts, tiers, points and derived statistics from
// a customer's non-cancelled order history. All results are derived on demand;
// nothing loyalty-related is persisted.
type LoyaltyService struct {
	orders    OrderStore
	customers CustomerStore
	now       func() time.Time
}

// NewLoyaltyService creates a new instance of LoyaltyService.
func NewLoyaltyService(orders OrderStore, customers CustomerStore) *LoyaltyService {
	return &LoyaltyService{
		orders:    orders,
		customers: customers,
		now:       time.Now,
	}
}

// CalculateNextOrderAmount prices a new order: the order-count discount rate
// for the trailing calendar month is applied to the pre-discount total. The
// spending-based rate is deliberately not consulted here.
func (s *LoyaltyService) CalculateNextOrderAmount(ctx context.Context, customerID int, totalAmount decimal.Decimal) (decimal.Decimal, error) {
	if totalAmount.IsZero() {
		return decimal.Zero, nil
	}

	since := s.now().AddDate(0, -1, 0)
	count, err := s.orders.CountActiveOrdersSince(ctx, customerID, since)
	if err != nil {
		logger.Error().Err(err).Msgf("Error counting recent orders for customer %d", customerID)
		return decimal.Zero, err
	}

	rate := orderCountRate(count)
	return totalAmount.Mul(decimal.NewFromInt(1).Sub(rate)).Round(2), nil
}

// CalculateCustomerTier classifies the customer from lifetime order history.
// The effective discount rate is the better of the order-count and spending
// rates.
func (s *LoyaltyService) CalculateCustomerTier(ctx context.Context, customerID int) (*entity.LoyaltyTier, error) {
	orders, err := s.orders.ActiveOrdersByCustomer(ctx, customerID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting orders for customer %d", customerID)
		return nil, err
	}

	orderCount := len(orders)
	totalSpent := decimal.Zero
	for _, order := range orders {
		totalSpent = totalSpent.Add(order.TotalAmount)
	}

	return &entity.LoyaltyTier{
		CustomerID:   customerID,
		Tier:         tierName(orderCount, totalSpent),
		OrderCount:   orderCount,
		TotalSpent:   totalSpent,
		DiscountRate: decimal.Max(orderCountRate(orderCount), spendingRate(totalSpent)),
		NextTier:     nextTierRequirement(orderCount, totalSpent),
	}, nil
}

// GetCustomerLoyaltyStats derives statistics from the customer's lifetime
// order history. LifetimeDiscountSaved estimates each order's pre-discount
// price with the customer's current rate; historical orders may have been
// discounted at a different rate, so the figure is an approximation.
func (s *LoyaltyService) GetCustomerLoyaltyStats(ctx context.Context, customerID int) (*entity.LoyaltyStats, error) {
	orders, err := s.orders.ActiveOrdersByCustomer(ctx, customerID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting orders for customer %d", customerID)
		return nil, err
	}

	orderCount := len(orders)
	totalSpent := decimal.Zero
	for _, order := range orders {
		totalSpent = totalSpent.Add(order.TotalAmount)
	}

	stats := &entity.LoyaltyStats{
		CustomerID:            customerID,
		Tier:                  tierName(orderCount, totalSpent),
		OrderCount:            orderCount,
		TotalSpent:            totalSpent,
		AverageOrderValue:     decimal.Zero,
		LifetimeDiscountSaved: decimal.Zero,
	}

	if orderCount == 0 {
		return stats, nil
	}

	stats.AverageOrderValue = totalSpent.Div(decimal.NewFromInt(int64(orderCount))).Round(2)

	// Orders arrive newest first
	lastOrderDate := orders[0].CreatedAt
	stats.LastOrderDate = &lastOrderDate

	rate := decimal.Max(orderCountRate(orderCount), spendingRate(totalSpent))
	if rate.IsPositive() {
		one := decimal.NewFromInt(1)
		saved := decimal.Zero
		for _, order := range orders {
			estimated := order.TotalAmount.Div(one.Sub(rate))
			saved = saved.Add(estimated.Sub(order.TotalAmount))
		}
		stats.LifetimeDiscountSaved = saved.Round(2)
	}

	return stats, nil
}

// CalculateLoyaltyPoints awards one point per whole dollar of non-cancelled
// lifetime spend.
func (s *LoyaltyService) CalculateLoyaltyPoints(ctx context.Context, customerID int) (int64, error) {
	orders, err := s.orders.ActiveOrdersByCustomer(ctx, customerID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error getting orders for customer %d", customerID)
		return 0, err
	}

	totalSpent := decimal.Zero
	for _, order := range orders {
		totalSpent = totalSpent.Add(order.TotalAmount)
	}

	return totalSpent.IntPart(), nil
}

// GetCustomerLoyaltyInfo returns the customer's loyalty snapshot. Fails with
// not-found when the customer does not exist or has been soft-deleted.
func (s *LoyaltyService) GetCustomerLoyaltyInfo(ctx context.Context, customerID int) (*entity.LoyaltyInfo, error) {
	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, apperr.NotFound("customer %d not found", customerID)
	}

	tier, err := s.CalculateCustomerTier(ctx, customerID)
	if err != nil {
		return nil, err
	}

	points, err := s.CalculateLoyaltyPoints(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &entity.LoyaltyInfo{
		CustomerID:   customerID,
		Points:       points,
		Tier:         tier.Tier,
		IsActive:     customer.LoyaltyActive,
		CalculatedAt: s.now(),
	}, nil
}

// GetLoyaltyMetrics composes the full metrics view. Redeemed points are always
// zero: there is no adjustment ledger.
func (s *LoyaltyService) GetLoyaltyMetrics(ctx context.Context, customerID int) (*entity.LoyaltyMetrics, error) {
	customer, err := s.customers.GetCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if !customer.IsActive {
		return nil, apperr.NotFound("customer %d not found", customerID)
	}

	tier, err := s.CalculateCustomerTier(ctx, customerID)
	if err != nil {
		return nil, err
	}

	points, err := s.CalculateLoyaltyPoints(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &entity.LoyaltyMetrics{
		CustomerID:          customerID,
		TotalPointsEarned:   points,
		TotalPointsRedeemed: 0,
		CurrentBalance:      points,
		Tier:                tier.Tier,
		NextTier:            tier.NextTier,
		LifetimeValue:       tier.TotalSpent,
	}, nil
}

// AdjustPoints applies a manual adjustment to the computed balance and returns
// the result. Nothing is persisted: a later call recomputes the balance from
// order history, so adjustments do not accumulate across calls.
func (s *LoyaltyService) AdjustPoints(ctx context.Context, customerID int, adjustment int64, reason string) (*entity.PointsAdjustment, error) {
	if adjustment > maxPointsAdjustment || adjustment < -maxPointsAdjustment {
		return nil, apperr.Invalid("point adjustment cannot exceed %d points", maxPointsAdjustment)
	}

	points, err := s.CalculateLoyaltyPoints(ctx, customerID)
	if err != nil {
		return nil, err
	}

	newBalance := points + adjustment
	if newBalance < 0 {
		newBalance = 0
	}

	return &entity.PointsAdjustment{
		ID:         uuid.New(),
		CustomerID: customerID,
		Adjustment: adjustment,
		NewBalance: newBalance,
		Reason:     reason,
		Timestamp:  s.now(),
	}, nil
}

// SuspendLoyaltyProgram pauses the customer's loyalty participation. The
// customer remains visible in listings.
func (s *LoyaltyService) SuspendLoyaltyProgram(ctx context.Context, customerID int) error {
	if _, err := s.customers.GetCustomerByID(ctx, customerID); err != nil {
		return err
	}
	return s.customers.SetLoyaltyActive(ctx, customerID, false)
}

// ReactivateLoyaltyProgram resumes the customer's loyalty participation.
func (s *LoyaltyService) ReactivateLoyaltyProgram(ctx context.Context, customerID int) error {
	if _, err := s.customers.GetCustomerByID(ctx, customerID); err != nil {
		return err
	}
	return s.customers.SetLoyaltyActive(ctx, customerID, true)
}

// GetExpiredPoints always reports zero: points do not expire because no
// transaction history exists to expire them from.
func (s *LoyaltyService) GetExpiredPoints(ctx context.Context, customerID int) (int64, error) {
	return 0, nil
}
