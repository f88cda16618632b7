package product

type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	DiscountedPrice *float64 `json:"discountedPrice,omitempty"`
	Images          []string `json:"images"`
	Colors          []string `json:"colors"`
	Tags            []string `json:"tags"`
	Sizes           []string `json:"sizes"`
	Featured        bool     `json:"featured"`
}

// FinalPrice is what the visitor pays: the discounted price when on sale.
func (p Product) FinalPrice() float64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.Price
}

func (p Product) OnSale() bool {
	return p.DiscountedPrice != nil
}

func (p Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

func (p Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
