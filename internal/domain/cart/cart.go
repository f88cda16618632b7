package cart

// Line is one purchasable item instance; (ProductID, Size) is its key.
type Line struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
}

func (l Line) Matches(productID, size string) bool {
	return l.ProductID == productID && l.Size == size
}

func (l Line) Total() float64 {
	return l.Price * float64(l.Quantity)
}
