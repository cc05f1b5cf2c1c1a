package domain

// Category is the closed set of catalog categories. The storefront UI offers
// exactly these four; admin writes are validated against them.
type Category string

const (
	CategoryRelaxation   Category = "Relaxation"
	CategoryMeditation   Category = "Meditation"
	CategorySkincare     Category = "Skincare"
	CategorySpirituality Category = "Spirituality"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRelaxation, CategoryMeditation, CategorySkincare, CategorySpirituality:
		return true
	}
	return false
}

// Categories lists every valid category in display order.
func Categories() []Category {
	return []Category{CategoryRelaxation, CategoryMeditation, CategorySkincare, CategorySpirituality}
}

// Product is a catalog item. InStock is always derived from StockQuantity by
// the storage layer; callers never set it independently.
type Product struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	PriceCents        int64    `json:"priceCents"`
	Description       string   `json:"description"`
	Category          Category `json:"category"`
	ImageURL          string   `json:"imageUrl"`
	Supplier          string   `json:"supplier,omitempty"`
	Origin            string   `json:"origin,omitempty"`
	InStock           bool     `json:"inStock"`
	StockQuantity     int      `json:"stockQuantity"`
	LowStockThreshold int      `json:"lowStockThreshold"`
}
