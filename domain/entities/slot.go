package entities

import "fmt"

// Page element identifiers of the game
const (
	PrimaryKey         = "bigCookie"
	CounterKey         = "cookies"
	ProductPricePrefix = "productPrice"
	ProductPrefix      = "product"
	LanguageFragment   = "English"
)

// DefaultSlotCount is how many product slots are checked per iteration
const DefaultSlotCount = 8

// Slot represents a purchasable product on the page
type Slot struct {
	Index int
	Price int64
}

// PriceKey returns the identifier of the slot's price display
func (s Slot) PriceKey() string {
	return fmt.Sprintf("%s%d", ProductPricePrefix, s.Index)
}

// BuyKey returns the identifier of the slot's purchase trigger
func (s Slot) BuyKey() string {
	return fmt.Sprintf("%s%d", ProductPrefix, s.Index)
}

// Affordable reports whether counter covers the price
func (s Slot) Affordable(counter int64) bool {
	return counter >= s.Price
}
