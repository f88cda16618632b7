package wishlist

type Entry struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}
