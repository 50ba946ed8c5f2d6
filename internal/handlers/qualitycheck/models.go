package qualitycheck

type Request struct {
	ProductType string `json:"productType"`
	ProductName string `json:"productName"`
	ImageFile   string `json:"imageFile"`
}
