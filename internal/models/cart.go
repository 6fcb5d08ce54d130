package models

type Cart struct {
	Key   string     `json:"key"` // "cart:<user_id>" ou "cart:guest:<token>"
	Items []CartItem `json:"items"`
}

type CartItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url,omitempty"`
}
