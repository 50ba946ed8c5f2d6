package listings

type CreateRequest struct {
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	Price             float64 `json:"price"`
	Unit              string  `json:"unit"`
	QuantityAvailable float64 `json:"quantity_available"`
	Location          string  `json:"location"`
	SellerName        string  `json:"seller_name"`
	Image             string  `json:"image"`
}
