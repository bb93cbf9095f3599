// Package catalog reads products and categories from the remote storefront
// API. Prices and stock counts arrive in the API's mixed numeric encodings and
// decode through price.Value.
package catalog

import "github.com/urluvmani/taskeena-storefront/internal/price"

type Product struct {
	ID              string      `json:"_id"`
	Name            string      `json:"name"`
	Slug            string      `json:"slug"`
	Description     string      `json:"description"`
	Price           price.Value `json:"price"`
	DiscountPercent float64     `json:"discountPercent"`
	Quantity        price.Value `json:"quantity"`
	CategoryID      string      `json:"category"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// InStock reports whether the product has any stock left. An unknown quantity
// counts as out of stock; the views disable the add button in that case.
func (p Product) InStock() bool {
	return p.Quantity.Known() && p.Quantity.Normalize() > 0
}

type Review struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
