package product

// Product is one catalog entry shown on the storefront.
// Prices are stored in the smallest currency unit.
type Product struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Company         string  `json:"company"`
	Category        string  `json:"category"`
	Price           int64   `json:"price"`
	OriginalPrice   int64   `json:"originalPrice"`
	DiscountPercent int     `json:"discountPercent"`
	Rating          float64 `json:"rating"`
	NumReviews      int     `json:"numReviews"`
	ImageURL        string  `json:"imageURL"`
	IsNew           bool    `json:"isNew"`
}
