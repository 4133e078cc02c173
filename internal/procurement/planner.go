package procurement

import (
	"fmt"
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Input is the state one procurement cycle plans against.
type Input struct {
	Lots       []Lot
	Gold       int
	ML         types.PotionMix
	MLCapacity int
}

// Planner turns a wholesale catalog into a purchase plan. It never touches
// the ledgers. A Planner is not safe for concurrent use because of its RNG.
type Planner struct {
	tiers    []config.GoldTier
	priority enums.Color
	ceiling  decimal.Decimal
	rng      *rand.Rand
}

// NewPlanner builds a planner from config. rng breaks color ties.
func NewPlanner(cfg config.ProcurementConfig, rng *rand.Rand) (*Planner, error) {
	priority, err := enums.ParseColor(cfg.PriorityColor)
	if err != nil {
		return nil, fmt.Errorf("procurement priority color: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source required")
	}
	tiers := cfg.Tiers()
	if len(tiers) == 0 {
		return nil, fmt.Errorf("at least one gold tier required")
	}
	return &Planner{tiers: tiers, priority: priority, ceiling: cfg.ColorCeiling, rng: rng}, nil
}

// Plan returns the purchase lines for in. Running out of gold or room is not
// an error; it just shortens the plan.
func (p *Planner) Plan(in Input) []PurchaseLine {
	plan := []PurchaseLine{}
	mlRoom := in.MLCapacity - in.ML.Total()
	if mlRoom <= 0 || in.Gold <= 0 {
		return plan
	}

	tier := p.tierFor(in.Gold)
	spend := spendFor(tier, in.Gold)
	if spend <= 0 {
		return plan
	}

	colors := p.colorOrder(in.ML, in.MLCapacity)
	purchased := map[enums.Color]bool{}
	carry := 0

	for _, size := range tier.Order {
		budget := floorMul(spend, tier.Share(size)) + carry
		for _, color := range colors {
			if purchased[color] {
				continue
			}
			lot, ok := cheapestLot(in.Lots, size, color)
			if !ok {
				continue
			}
			qty := min(lot.Available, budget/lot.Price, mlRoom/lot.MLPerLot)
			if qty <= 0 {
				continue
			}
			budget -= qty * lot.Price
			mlRoom -= qty * lot.MLPerLot
			purchased[color] = true
			plan = append(plan, PurchaseLine{SKU: lot.SKU, Quantity: qty})
		}
		carry = budget
	}
	return plan
}

// tierFor picks the first tier whose bound exceeds gold; the last tier is unbounded.
func (p *Planner) tierFor(gold int) config.GoldTier {
	for _, tier := range p.tiers {
		if tier.Contains(gold) {
			return tier
		}
	}
	return p.tiers[len(p.tiers)-1]
}

// spendFor is floor((gold - reserve) * spend_fraction), clamped to [0, gold].
func spendFor(tier config.GoldTier, gold int) int {
	available := gold - tier.Reserve
	if available <= 0 {
		return 0
	}
	return min(gold, floorMul(available, tier.SpendFraction))
}

// colorOrder puts the priority color first and shuffles the rest. Colors at
// or above the stock ceiling are dropped; a zero ceiling disables the check.
func (p *Planner) colorOrder(ml types.PotionMix, mlCapacity int) []enums.Color {
	limit := floorMul(mlCapacity, p.ceiling)
	eligible := func(c enums.Color) bool {
		return p.ceiling.IsZero() || ml.Get(c) < limit
	}

	var rest []enums.Color
	for _, c := range enums.Colors {
		if c != p.priority && eligible(c) {
			rest = append(rest, c)
		}
	}
	p.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })

	if eligible(p.priority) {
		return append([]enums.Color{p.priority}, rest...)
	}
	return rest
}

// cheapestLot returns the lowest price-per-ml lot for size and color, keeping
// catalog order on ties.
func cheapestLot(lots []Lot, size enums.SizeTier, color enums.Color) (Lot, bool) {
	var best Lot
	found := false
	for _, lot := range lots {
		if !lot.usable() || lot.Size != size || lot.Color != color {
			continue
		}
		if !found || lot.cheaperPerML(best) {
			best = lot
			found = true
		}
	}
	return best, found
}

func floorMul(n int, fraction decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(n)).Mul(fraction).Floor().IntPart())
}
