package domain

import "time"

// CartItem is a product snapshot taken when it was added to the cart
type CartItem struct {
	Barcode     string      `json:"barcode"`
	Name        string      `json:"name"`
	Halal       HalalStatus `json:"halal"`
	Certificate string      `json:"certificate,omitempty"`
	Price       float64     `json:"price"`
	ExpiryDate  string      `json:"expiryDate"`
}

// Cart is the shopping cart of one session
type Cart struct {
	ID        string     `json:"id"`
	Items     []CartItem `json:"items"`
	Savings   float64    `json:"savings"` // Accumulated market_avg - store_price; reset only on checkout
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Clone returns a deep copy so callers never share the items slice
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = make([]CartItem, len(c.Items))
	copy(clone.Items, c.Items)
	return &clone
}

// Summary computes the totals shown on the cart screen
func (c *Cart) Summary() CartSummary {
	summary := CartSummary{
		TotalItems: len(c.Items),
		Savings:    c.Savings,
	}
	for _, item := range c.Items {
		summary.TotalPrice += item.Price
		if item.Halal == HalalCertified {
			summary.HalalItems++
		}
	}
	return summary
}

// CartSummary holds the aggregate figures of a cart
type CartSummary struct {
	TotalItems int     `json:"totalItems"`
	TotalPrice float64 `json:"totalPrice"`
	HalalItems int     `json:"halalItems"`
	Savings    float64 `json:"savings"`
}
