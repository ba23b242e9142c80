package model

// CartLineItem is one resolved add-to-cart request. LineTotal is fixed at creation.
type CartLineItem struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Qty       int      `json:"qty"`
	UnitPrice float64  `json:"unit_price"`
	Variant   string   `json:"variant,omitempty"`
	Addons    []string `json:"addons"`
	LineTotal float64  `json:"line_total"`
}

// CartSummary is derived from the cart lines on demand.
type CartSummary struct {
	Subtotal float64 `json:"subtotal"`
	NumItems int     `json:"num_items"`
}
