package procurement

// Barrel is one offer from the wholesale catalog, or one delivered line.
type Barrel struct {
	SKU         string  `json:"sku" validate:"required"`
	MLPerBarrel int     `json:"ml_per_barrel"`
	PotionType  []int64 `json:"potion_type" validate:"len=4"`
	Price       int     `json:"price"`
	Quantity    int     `json:"quantity"`
}

// PurchaseLine asks the wholesaler for quantity units of sku.
type PurchaseLine struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}
