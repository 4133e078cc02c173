package capacity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
)

func testConfigs() (config.CapacityConfig, config.ShopConfig) {
	capCfg := config.CapacityConfig{
		SpendFraction:              decimal.RequireFromString("0.5"),
		PotionUtilizationThreshold: decimal.RequireFromString("0.8"),
		MLUtilizationThreshold:     decimal.RequireFromString("0.8"),
	}
	shop := config.ShopConfig{
		PotionCapacityPerUnit: 50,
		MLCapacityPerUnit:     10000,
		CapacityUnitPrice:     1000,
	}
	return capCfg, shop
}

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	capCfg, shop := testConfigs()
	p, err := NewPlanner(capCfg, shop)
	require.NoError(t, err)
	return p
}

func baseline() models.Capacity {
	return models.Capacity{
		ID:                   models.CapacityID,
		PotionCapacity:       50,
		MLCapacity:           10000,
		MayBuyPotionCapacity: true,
		MayBuyMLCapacity:     true,
	}
}

func TestNewPlannerValidation(t *testing.T) {
	capCfg, shop := testConfigs()
	shop.CapacityUnitPrice = 0
	_, err := NewPlanner(capCfg, shop)
	require.Error(t, err)

	capCfg, shop = testConfigs()
	shop.MLCapacityPerUnit = 0
	_, err = NewPlanner(capCfg, shop)
	require.Error(t, err)
}

func TestPlanInsufficientGold(t *testing.T) {
	p := newTestPlanner(t)
	plan := p.Plan(Input{Gold: 500, Potions: 50, ML: 10000, Capacity: baseline()})
	require.Equal(t, Plan{}, plan)
}

func TestPlanBelowThresholdBuysNoPotionUnit(t *testing.T) {
	p := newTestPlanner(t)
	plan := p.Plan(Input{Gold: 100000, Potions: 40, ML: 0, Capacity: baseline()})
	require.Zero(t, plan.PotionCapacityUnits)
	require.Zero(t, plan.MLCapacityUnits)
}

func TestPlanBuysBothWhenRichAndFull(t *testing.T) {
	p := newTestPlanner(t)
	plan := p.Plan(Input{Gold: 4000, Potions: 45, ML: 9000, Capacity: baseline()})
	require.Equal(t, Plan{PotionCapacityUnits: 1, MLCapacityUnits: 1}, plan)
	require.Equal(t, 2000, p.Cost(plan))
}

func TestPlanMLUnitNeedsSpendableLeft(t *testing.T) {
	p := newTestPlanner(t)
	// spendable 1500 covers the potion unit only
	plan := p.Plan(Input{Gold: 3000, Potions: 45, ML: 9000, Capacity: baseline()})
	require.Equal(t, Plan{PotionCapacityUnits: 1}, plan)
}

func TestPlanMLUnitsNeverOvertakePotionUnits(t *testing.T) {
	p := newTestPlanner(t)
	plan := p.Plan(Input{Gold: 10000, Potions: 10, ML: 9500, Capacity: baseline()})
	require.Equal(t, Plan{}, plan)

	ahead := baseline()
	ahead.PotionCapacity = 100
	plan = p.Plan(Input{Gold: 10000, Potions: 10, ML: 9500, Capacity: ahead})
	require.Equal(t, Plan{MLCapacityUnits: 1}, plan)
}

func TestPlanRespectsPermissions(t *testing.T) {
	p := newTestPlanner(t)
	locked := baseline()
	locked.MayBuyPotionCapacity = false
	locked.MayBuyMLCapacity = false
	plan := p.Plan(Input{Gold: 10000, Potions: 50, ML: 10000, Capacity: locked})
	require.Equal(t, Plan{}, plan)
}

func TestPlanUtilizationMustExceedThreshold(t *testing.T) {
	p := newTestPlanner(t)
	// exactly 80% is not above the threshold
	plan := p.Plan(Input{Gold: 10000, Potions: 40, ML: 0, Capacity: baseline()})
	require.Zero(t, plan.PotionCapacityUnits)

	plan = p.Plan(Input{Gold: 10000, Potions: 41, ML: 0, Capacity: baseline()})
	require.Equal(t, 1, plan.PotionCapacityUnits)
}

func TestExceedsZeroCapacity(t *testing.T) {
	require.True(t, exceeds(0, 0, decimal.RequireFromString("0.8")))
}
