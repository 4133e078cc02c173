package capacity

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
)

// Input is the state one capacity cycle plans against.
type Input struct {
	Gold     int
	Potions  int
	ML       int
	Capacity models.Capacity
}

// Plan is the number of capacity units to buy, each 0 or 1.
type Plan struct {
	PotionCapacityUnits int `json:"potion_capacity"`
	MLCapacityUnits     int `json:"ml_capacity"`
}

// MaxUnitsPerCycle bounds each field of a Plan.
const MaxUnitsPerCycle = 1

// Units returns the total units requested.
func (p Plan) Units() int {
	return p.PotionCapacityUnits + p.MLCapacityUnits
}

// Planner decides capacity purchases.
type Planner struct {
	spendFraction   decimal.Decimal
	potionThreshold decimal.Decimal
	mlThreshold     decimal.Decimal
	unitPrice       int
	potionPerUnit   int
	mlPerUnit       int
}

// NewPlanner builds a planner from the capacity and shop settings.
func NewPlanner(cfg config.CapacityConfig, shop config.ShopConfig) (*Planner, error) {
	if shop.CapacityUnitPrice <= 0 {
		return nil, fmt.Errorf("capacity unit price must be positive")
	}
	if shop.PotionCapacityPerUnit <= 0 || shop.MLCapacityPerUnit <= 0 {
		return nil, fmt.Errorf("capacity unit sizes must be positive")
	}
	return &Planner{
		spendFraction:   cfg.SpendFraction,
		potionThreshold: cfg.PotionUtilizationThreshold,
		mlThreshold:     cfg.MLUtilizationThreshold,
		unitPrice:       shop.CapacityUnitPrice,
		potionPerUnit:   shop.PotionCapacityPerUnit,
		mlPerUnit:       shop.MLCapacityPerUnit,
	}, nil
}

// Plan buys at most one potion unit, then at most one ml unit from what is
// left, never letting ml units overtake potion units.
func (p *Planner) Plan(in Input) Plan {
	var plan Plan
	if in.Gold <= 0 {
		return plan
	}
	spendable := int(decimal.NewFromInt(int64(in.Gold)).Mul(p.spendFraction).Floor().IntPart())

	if spendable >= p.unitPrice &&
		in.Capacity.MayBuyPotionCapacity &&
		exceeds(in.Potions, in.Capacity.PotionCapacity, p.potionThreshold) {
		plan.PotionCapacityUnits = MaxUnitsPerCycle
		spendable -= p.unitPrice
	}

	potionUnits := in.Capacity.PotionCapacity/p.potionPerUnit + plan.PotionCapacityUnits
	mlUnits := in.Capacity.MLCapacity / p.mlPerUnit

	if spendable >= p.unitPrice &&
		in.Capacity.MayBuyMLCapacity &&
		exceeds(in.ML, in.Capacity.MLCapacity, p.mlThreshold) &&
		mlUnits+MaxUnitsPerCycle <= potionUnits {
		plan.MLCapacityUnits = MaxUnitsPerCycle
	}
	return plan
}

// exceeds reports used/capacity > threshold. Zero capacity counts as full.
func exceeds(used, capacity int, threshold decimal.Decimal) bool {
	if capacity <= 0 {
		return true
	}
	utilization := decimal.NewFromInt(int64(used)).Div(decimal.NewFromInt(int64(capacity)))
	return utilization.GreaterThan(threshold)
}

// Cost returns the gold a plan spends.
func (p *Planner) Cost(plan Plan) int {
	return plan.Units() * p.unitPrice
}
