package procurement

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/potionshop-backend/pkg/enums"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// Lot is a validated wholesale offer: one color, one size tier.
type Lot struct {
	SKU       string
	Size      enums.SizeTier
	Color     enums.Color
	MLPerLot  int
	Price     int
	Available int
}

// LotFromBarrel validates a wire barrel. The color comes from the single
// non-zero potion_type component and the size from the SKU prefix.
func LotFromBarrel(b Barrel) (Lot, error) {
	if b.SKU == "" {
		return Lot{}, fmt.Errorf("barrel sku is required")
	}
	if b.Price <= 0 {
		return Lot{}, fmt.Errorf("barrel %s: price %d must be positive", b.SKU, b.Price)
	}
	if b.MLPerBarrel <= 0 {
		return Lot{}, fmt.Errorf("barrel %s: ml_per_barrel %d must be positive", b.SKU, b.MLPerBarrel)
	}
	if b.Quantity <= 0 {
		return Lot{}, fmt.Errorf("barrel %s: quantity %d must be positive", b.SKU, b.Quantity)
	}
	mix, err := types.MixFromInts(b.PotionType)
	if err != nil {
		return Lot{}, fmt.Errorf("barrel %s: %w", b.SKU, err)
	}
	color, ok := mix.OneHotColor()
	if !ok {
		return Lot{}, fmt.Errorf("barrel %s: potion_type %v is not a single color", b.SKU, b.PotionType)
	}
	size, err := enums.SizeTierFromSKU(b.SKU)
	if err != nil {
		return Lot{}, fmt.Errorf("barrel %s: %w", b.SKU, err)
	}
	return Lot{
		SKU:       b.SKU,
		Size:      size,
		Color:     color,
		MLPerLot:  b.MLPerBarrel,
		Price:     b.Price,
		Available: b.Quantity,
	}, nil
}

// DeliveredML is the ml a delivered barrel line adds, by color.
func DeliveredML(b Barrel) (types.PotionMix, error) {
	if b.MLPerBarrel < 0 || b.Quantity < 0 {
		return types.PotionMix{}, fmt.Errorf("ml_per_barrel %d and quantity %d must not be negative", b.MLPerBarrel, b.Quantity)
	}
	if b.MLPerBarrel > 0 && b.Quantity > math.MaxInt/b.MLPerBarrel {
		return types.PotionMix{}, fmt.Errorf("%d barrels of %d ml overflow", b.Quantity, b.MLPerBarrel)
	}
	mix, err := types.MixFromInts(b.PotionType)
	if err != nil {
		return types.PotionMix{}, err
	}
	color, ok := mix.OneHotColor()
	if !ok {
		return types.PotionMix{}, fmt.Errorf("potion_type %v is not a single color", b.PotionType)
	}
	var out types.PotionMix
	out[color.Index()] = b.MLPerBarrel * b.Quantity
	return out, nil
}

func (l Lot) usable() bool {
	return l.Price > 0 && l.MLPerLot > 0 && l.Available > 0 && l.Size.IsValid() && l.Color.IsValid()
}

// cheaperPerML compares price per ml by cross-multiplying in decimal.
func (l Lot) cheaperPerML(other Lot) bool {
	mine := decimal.NewFromInt(int64(l.Price)).Mul(decimal.NewFromInt(int64(other.MLPerLot)))
	theirs := decimal.NewFromInt(int64(other.Price)).Mul(decimal.NewFromInt(int64(l.MLPerLot)))
	return mine.LessThan(theirs)
}
