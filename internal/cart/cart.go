package cart

import "github.com/urluvmani/taskeena-storefront/internal/price"

// LineItem is one product entry in the cart. It is a snapshot of the product's
// displayable fields taken when the product was added; later catalog changes
// do not retroactively reprice a cart. Wire field names match the storefront
// API's order payload.
type LineItem struct {
	ProductID       string      `json:"_id"`
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	Price           price.Value `json:"price"`
	DiscountPercent float64     `json:"discountPercent,omitempty"`
	Quantity        int         `json:"quantity"`
}

// UnitPrice is the discounted price of a single unit.
func (li LineItem) UnitPrice() float64 {
	return price.Effective(li.Price.Normalize(), li.DiscountPercent)
}

// Subtotal is the discounted price times quantity. A missing quantity counts
// as one, matching how the order API treats it.
func (li LineItem) Subtotal() float64 {
	qty := li.Quantity
	if qty < 1 {
		qty = 1
	}
	return li.UnitPrice() * float64(qty)
}
