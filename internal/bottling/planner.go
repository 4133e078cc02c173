package bottling

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/potionshop-backend/pkg/config"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Candidate is a valid recipe together with its bottled stock.
type Candidate struct {
	PotionID int64
	SKU      string
	Mix      types.PotionMix
	Price    int
	Stock    int
}

// Input is the state one bottling cycle plans against.
type Input struct {
	ML             types.PotionMix
	Candidates     []Candidate
	PotionCapacity int
}

// BottleLine asks the bottler for quantity potions of one recipe.
type BottleLine struct {
	PotionID   int64   `json:"-"`
	SKU        string  `json:"sku"`
	PotionType []int64 `json:"potion_type"`
	Quantity   int     `json:"quantity"`
}

// Planner converts raw ml into a bottling plan. Not safe for concurrent use.
type Planner struct {
	production    decimal.Decimal
	baseCap       decimal.Decimal
	lowMult       decimal.Decimal
	highMult      decimal.Decimal
	priority      enums.Color
	deprioritized map[string]bool
	ranks         map[string]int
	rng           *rand.Rand
}

// NewPlanner builds a planner from config. rng breaks the final tie.
func NewPlanner(cfg config.BottlingConfig, rng *rand.Rand) (*Planner, error) {
	priority, err := enums.ParseColor(cfg.PriorityColor)
	if err != nil {
		return nil, fmt.Errorf("bottling priority color: %w", err)
	}
	if rng == nil {
		return nil, fmt.Errorf("random source required")
	}
	deprioritized := make(map[string]bool, len(cfg.DeprioritizedSKUs))
	for _, sku := range cfg.DeprioritizedSKUs {
		deprioritized[sku] = true
	}
	return &Planner{
		production:    cfg.ProductionFraction,
		baseCap:       cfg.BaseCapFraction,
		lowMult:       cfg.LowStockMultiplier,
		highMult:      cfg.HighStockMultiplier,
		priority:      priority,
		deprioritized: deprioritized,
		ranks:         cfg.PopularityRanks,
		rng:           rng,
	}, nil
}

// Plan returns bottling lines in priority order. No line draws any color
// below zero.
func (p *Planner) Plan(in Input) []BottleLine {
	plan := []BottleLine{}
	limit := floorMul(in.PotionCapacity, p.production)
	outstanding := 0
	for _, c := range in.Candidates {
		outstanding += c.Stock
	}
	tierCap := p.tierCap(in.PotionCapacity, limit, outstanding)

	available := in.ML
	produced := 0
	planned := map[int64]int{}

	for _, c := range p.order(in.Candidates) {
		if produced+outstanding >= limit {
			break
		}
		if c.Stock >= tierCap {
			continue
		}
		target := min(available.MaxBatches(c.Mix), limit-produced, tierCap-planned[c.PotionID])
		if target <= 0 {
			continue
		}
		available = available.Sub(c.Mix.Scale(target))
		produced += target
		planned[c.PotionID] += target
		plan = append(plan, BottleLine{
			PotionID:   c.PotionID,
			SKU:        c.SKU,
			PotionType: c.Mix.Ints(),
			Quantity:   target,
		})
	}
	return plan
}

// tierCap scales the per-recipe cap up when outstanding stock sits in the
// lower third of the production limit and down in the upper third.
func (p *Planner) tierCap(capacity, limit, outstanding int) int {
	base := floorMul(capacity, p.baseCap)
	switch {
	case 3*outstanding < limit:
		return floorMul(base, p.lowMult)
	case 3*outstanding >= 2*limit:
		return floorMul(base, p.highMult)
	default:
		return base
	}
}

// order sorts candidates by priority color, deprioritized last, popularity
// rank, fewer colors, lower price. The shuffle beforehand makes the stable
// sort break remaining ties at random.
func (p *Planner) order(candidates []Candidate) []Candidate {
	out := slices.Clone(candidates)
	p.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := cmpBool(a.Mix.Get(p.priority) > 0, b.Mix.Get(p.priority) > 0); c != 0 {
			return c
		}
		if c := cmpBool(!p.deprioritized[a.SKU], !p.deprioritized[b.SKU]); c != 0 {
			return c
		}
		if c := cmp.Compare(p.rank(a.SKU), p.rank(b.SKU)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Mix.NonZero(), b.Mix.NonZero()); c != 0 {
			return c
		}
		return cmp.Compare(a.Price, b.Price)
	})
	return out
}

// rank returns the configured popularity rank; unranked recipes sort last.
func (p *Planner) rank(sku string) int {
	if r, ok := p.ranks[sku]; ok {
		return r
	}
	return math.MaxInt
}

// cmpBool orders true before false.
func cmpBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

func floorMul(n int, fraction decimal.Decimal) int {
	return int(decimal.NewFromInt(int64(n)).Mul(fraction).Floor().IntPart())
}
