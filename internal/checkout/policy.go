package checkout

import "math"

// ShippingPolicy waives the fee once the subtotal is strictly above
// FreeThreshold.
type ShippingPolicy struct {
	FreeThreshold float64
	Fee           float64
}

type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
	// FreeShippingRemaining is what is left to spend before shipping is
	// free; 0 once it is.
	FreeShippingRemaining float64 `json:"free_shipping_remaining"`
}

// Shipping is 0 for an empty cart: nothing ships.
func (p ShippingPolicy) Shipping(subtotal float64) float64 {
	if subtotal <= 0 || subtotal > p.FreeThreshold {
		return 0
	}
	return p.Fee
}

func (p ShippingPolicy) Quote(subtotal float64) Quote {
	subtotal = cents(subtotal)
	shipping := p.Shipping(subtotal)
	q := Quote{
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    cents(subtotal + shipping),
	}
	if subtotal > 0 && shipping > 0 {
		q.FreeShippingRemaining = cents(p.FreeThreshold - subtotal)
	}
	return q
}

func cents(v float64) float64 {
	return math.Round(v*100) / 100
}
