package models

// CartItem is one line of a cart. Name, Price and Image are captured when the
// product is first added and are not refreshed from the catalog afterwards.
type CartItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}
