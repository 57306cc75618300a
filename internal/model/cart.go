package model

// CartLineItem is one row of the cart. Price is the catalogue price captured when the
// product was first added and is never re-priced.
type CartLineItem struct {
	ProductID int     `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Img       string  `json:"img"`
	Quantity  int     `json:"qty"`
	Age       string  `json:"age"`
	Category  string  `json:"category"`
}

// Subtotal returns price times quantity, counting a missing quantity as one.
func (i CartLineItem) Subtotal() float64 {
	qty := i.Quantity
	if qty == 0 {
		qty = 1
	}
	return i.Price * float64(qty)
}
