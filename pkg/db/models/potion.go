package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Potion is a sellable recipe. PotionType holds ml per bottle for
// red, green, blue and dark, summing to 100.
type Potion struct {
	ID         int64         `gorm:"column:id;primaryKey;autoIncrement"`
	SKU        string        `gorm:"column:sku;not null;uniqueIndex"`
	Name       string        `gorm:"column:name;not null"`
	Price      int           `gorm:"column:price;not null"`
	PotionType pq.Int64Array `gorm:"column:potion_type;type:integer[];not null"`
	UpdatedAt  time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (Potion) TableName() string { return "potions" }

// Mix converts the stored potion_type into a PotionMix.
func (p Potion) Mix() (types.PotionMix, error) {
	return types.MixFromInts(p.PotionType)
}

// CapacityID is the primary key of the singleton capacity row.
const CapacityID = 1

// Capacity is the singleton capacity record. Unlike the ledgers it is updated
// in place, and only ever grows.
type Capacity struct {
	ID                   int       `gorm:"column:id;primaryKey"`
	PotionCapacity       int       `gorm:"column:potion_capacity;not null"`
	MLCapacity           int       `gorm:"column:ml_capacity;not null"`
	MayBuyPotionCapacity bool      `gorm:"column:may_buy_potion_capacity;not null"`
	MayBuyMLCapacity     bool      `gorm:"column:may_buy_ml_capacity;not null"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Capacity) TableName() string { return "capacity" }
