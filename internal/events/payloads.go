package events

type CartItemAdded struct {
	UserID    string `json:"userId"`
	CartID    string `json:"cartId"`
	LineID    string `json:"lineId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartItemUpdated struct {
	UserID    string `json:"userId"`
	CartID    string `json:"cartId"`
	LineID    string `json:"lineId"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CartItemRemoved struct {
	UserID string `json:"userId"`
	LineID string `json:"lineId"`
}

type ProductFavorited struct {
	UserID    string `json:"userId"`
	LineID    string `json:"lineId"`
	ProductID string `json:"productId"`
}

type ProductUnfavorited struct {
	UserID string `json:"userId"`
	LineID string `json:"lineId"`
}
