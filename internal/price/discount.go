package price

// Effective applies a percentage discount to a normalized price. A
// non-positive percent leaves the price untouched. Percentages outside [0,100]
// pass through arithmetically; the API owns discount validation and the
// storefront displays whatever it is told.
func Effective(raw, discountPercent float64) float64 {
	if discountPercent > 0 {
		return raw - raw*discountPercent/100
	}
	return raw
}
