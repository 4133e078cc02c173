package inventory

import (
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// PotionStock pairs a catalog potion with its bottled count.
type PotionStock struct {
	Potion models.Potion
	Stock  int
}

// Snapshot is one read-consistent view of every resource.
type Snapshot struct {
	Gold         int
	ML           types.PotionMix
	Potions      []PotionStock
	TotalPotions int
	Capacity     models.Capacity
}

// TotalML sums every color.
func (s Snapshot) TotalML() int {
	return s.ML.Total()
}

// MLRoom is the free ml capacity; it may be negative after a capacity mistake.
func (s Snapshot) MLRoom() int {
	return s.Capacity.MLCapacity - s.TotalML()
}

// PotionRoom is the number of free potion slots.
func (s Snapshot) PotionRoom() int {
	return s.Capacity.PotionCapacity - s.TotalPotions
}

// StockOf returns the stock for potionID, 0 when unknown.
func (s Snapshot) StockOf(potionID int64) int {
	for _, p := range s.Potions {
		if p.Potion.ID == potionID {
			return p.Stock
		}
	}
	return 0
}

// Negatives lists the aggregates that are below zero.
func (s Snapshot) Negatives() []string {
	var out []string
	if s.Gold < 0 {
		out = append(out, "gold")
	}
	for _, c := range enums.Colors {
		if s.ML.Get(c) < 0 {
			out = append(out, string(c)+"_ml")
		}
	}
	for _, p := range s.Potions {
		if p.Stock < 0 {
			out = append(out, p.Potion.SKU)
		}
	}
	return out
}

// Audit is the summary exposed on /inventory/audit.
type Audit struct {
	NumberOfPotions int `json:"number_of_potions"`
	MLInBarrels     int `json:"ml_in_barrels"`
	Gold            int `json:"gold"`
}

// Audit reduces the snapshot to totals.
func (s Snapshot) Audit() Audit {
	return Audit{
		NumberOfPotions: s.TotalPotions,
		MLInBarrels:     s.TotalML(),
		Gold:            s.Gold,
	}
}
