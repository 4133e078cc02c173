package types

import (
	"fmt"

	"github.com/angelmondragon/potionshop-backend/pkg/enums"
)

// RecipeUnits is the number of ml that make up one bottled potion.
const RecipeUnits = 100

// PotionMix holds one signed quantity per color in potion_type order
// (red, green, blue, dark). It is used both for ml stock and recipes.
type PotionMix [4]int

// MixFromInts copies a potion_type vector, rejecting vectors of the wrong length.
func MixFromInts(values []int64) (PotionMix, error) {
	var mix PotionMix
	if len(values) != len(mix) {
		return mix, fmt.Errorf("potion type must have %d components, got %d", len(mix), len(values))
	}
	for i, v := range values {
		mix[i] = int(v)
	}
	return mix, nil
}

// Ints returns the mix as a potion_type slice.
func (m PotionMix) Ints() []int64 {
	out := make([]int64, len(m))
	for i, v := range m {
		out[i] = int64(v)
	}
	return out
}

// Get returns the quantity stored for the provided color.
func (m PotionMix) Get(c enums.Color) int {
	idx := c.Index()
	if idx < 0 {
		return 0
	}
	return m[idx]
}

// Total sums every color.
func (m PotionMix) Total() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// NonZero counts the colors with a non-zero component.
func (m PotionMix) NonZero() int {
	count := 0
	for _, v := range m {
		if v != 0 {
			count++
		}
	}
	return count
}

// Add returns m + other.
func (m PotionMix) Add(other PotionMix) PotionMix {
	for i := range m {
		m[i] += other[i]
	}
	return m
}

// Sub returns m - other.
func (m PotionMix) Sub(other PotionMix) PotionMix {
	for i := range m {
		m[i] -= other[i]
	}
	return m
}

// Scale multiplies every component by factor.
func (m PotionMix) Scale(factor int) PotionMix {
	for i := range m {
		m[i] *= factor
	}
	return m
}

// Negate flips the sign of every component.
func (m PotionMix) Negate() PotionMix {
	return m.Scale(-1)
}

// Covers reports whether every component of m is at least need's component.
func (m PotionMix) Covers(need PotionMix) bool {
	for i := range m {
		if m[i] < need[i] {
			return false
		}
	}
	return true
}

// HasNegative reports whether any component is below zero.
func (m PotionMix) HasNegative() bool {
	for _, v := range m {
		if v < 0 {
			return true
		}
	}
	return false
}

// OneHotColor returns the color of a vector with exactly one non-zero component.
func (m PotionMix) OneHotColor() (enums.Color, bool) {
	if m.NonZero() != 1 || m.HasNegative() {
		return "", false
	}
	for i, v := range m {
		if v != 0 {
			return enums.ColorAt(i)
		}
	}
	return "", false
}

// ValidateRecipe checks the mix is a sellable recipe: non-negative, summing to RecipeUnits.
func (m PotionMix) ValidateRecipe() error {
	if m.HasNegative() {
		return fmt.Errorf("recipe %v has negative components", m)
	}
	if total := m.Total(); total != RecipeUnits {
		return fmt.Errorf("recipe %v sums to %d, want %d", m, total, RecipeUnits)
	}
	return nil
}

// MaxBatches returns how many times recipe can be drawn from m using floor
// division. Colors the recipe does not use impose no bound; an all-zero
// recipe yields 0.
func (m PotionMix) MaxBatches(recipe PotionMix) int {
	best := -1
	for i, need := range recipe {
		if need <= 0 {
			continue
		}
		available := m[i]
		if available < 0 {
			available = 0
		}
		n := available / need
		if best < 0 || n < best {
			best = n
		}
	}
	if best < 0 {
		return 0
	}
	return best
}
