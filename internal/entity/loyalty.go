package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TierBronze   = "Bronze"
	TierSilver   = "Silver"
	TierGold     = "Gold"
	TierPlatinum = "Platinum"
)

// NextTierRequirement holds the deltas to the next unmet order-count and
// spending tiers. A nil field means that dimension is already at the top tier.
type NextTierRequirement struct {
	OrdersNeeded   *int             `json:"orders_needed,omitempty"`
	SpendingNeeded *decimal.Decimal `json:"spending_needed,omitempty"`
}

type LoyaltyTier struct {
	CustomerID   int                  `json:"customer_id"`
	Tier         string               `json:"tier"`
	OrderCount   int                  `json:"order_count"`
	TotalSpent   decimal.Decimal      `json:"total_spent"`
	DiscountRate decimal.Decimal      `json:"discount_rate"`
	NextTier     *NextTierRequirement `json:"next_tier_requirement,omitempty"`
}

type LoyaltyInfo struct {
	CustomerID   int       `json:"customer_id"`
	Points       int64     `json:"points"`
	Tier         string    `json:"tier"`
	IsActive     bool      `json:"is_active"`
	CalculatedAt time.Time `json:"calculated_at"`
}

type LoyaltyStats struct {
	CustomerID            int             `json:"customer_id"`
	Tier                  string          `json:"tier"`
	OrderCount            int             `json:"order_count"`
	TotalSpent            decimal.Decimal `json:"total_spent"`
	AverageOrderValue     decimal.Decimal `json:"average_order_value"`
	LastOrderDate         *time.Time      `json:"last_order_date,omitempty"`
	LifetimeDiscountSaved decimal.Decimal `json:"lifetime_discount_saved"`
}

type LoyaltyMetrics struct {
	CustomerID          int                  `json:"customer_id"`
	TotalPointsEarned   int64                `json:"total_points_earned"`
	TotalPointsRedeemed int64                `json:"total_points_redeemed"`
	CurrentBalance      int64                `json:"current_balance"`
	Tier                string               `json:"tier"`
	NextTier            *NextTierRequirement `json:"next_tier_requirement,omitempty"`
	LifetimeValue       decimal.Decimal      `json:"lifetime_value"`
}

// PointsAdjustment is the result of a manual point adjustment. It is returned
// to the caller but not persisted; balances are recomputed from order history.
type PointsAdjustment struct {
	ID         uuid.UUID `json:"id"`
	CustomerID int       `json:"customer_id"`
	Adjustment int64     `json:"adjustment"`
	NewBalance int64     `json:"new_balance"`
	Reason     string    `json:"reason"`
	Timestamp  time.Time `json:"timestamp"`
}
