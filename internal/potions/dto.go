package potions

import (
	"github.com/angelmondragon/potionshop-backend/pkg/db/models"
	"github.com/angelmondragon/potionshop-backend/pkg/types"
)

// CatalogEntry is one potion offered to customers.
type CatalogEntry struct {
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      int     `json:"price"`
	PotionType []int64 `json:"potion_type"`
}

// Recipe is a validated catalog potion ready for planning.
type Recipe struct {
	ID    int64
	SKU   string
	Name  string
	Price int
	Mix   types.PotionMix
}

// UpsertInput holds the fields an operator may set on a potion.
type UpsertInput struct {
	SKU        string          `json:"sku" validate:"required,max=64"`
	Name       string          `json:"name" validate:"required,max=128"`
	Price      int             `json:"price" validate:"gte=0"`
	PotionType types.PotionMix `json:"potion_type"`
}

func recipeFromModel(p models.Potion, mix types.PotionMix) Recipe {
	return Recipe{ID: p.ID, SKU: p.SKU, Name: p.Name, Price: p.Price, Mix: mix}
}
