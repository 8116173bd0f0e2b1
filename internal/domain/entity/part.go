package entity

// Part is one spare-part listing from the parts catalog.
type Part struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Price          float64  `json:"price"`
	Condition      string   `json:"condition"`
	ImageURL       string   `json:"image_url"`
	CompatibleCars []string `json:"compatible_cars"`
	SellerID       string   `json:"seller_id"`

	// Seller is the display name joined from the seller profile at response
	// time. It is never stored.
	Seller string `json:"seller,omitempty"`
}

// SellerProfile is the public profile of a parts seller.
type SellerProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
