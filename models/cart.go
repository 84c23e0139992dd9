package models

// CartItem is one line of a session cart. The identity key for merging
// duplicates is (product_id, size).
type CartItem struct {
	ProductID string `json:"product_id" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	Price     int64  `json:"price" bson:"price"`
	ImageURL  string `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Size      string `json:"size,omitempty" bson:"size,omitempty"`
	Quantity  int64  `json:"quantity" bson:"quantity"`
}

// Cart is the per-session item list. It lives in the carts collection keyed
// by the client session token; concurrent writers race and the last one wins.
type Cart struct {
	ID          string     `json:"id,omitempty" bson:"id,omitempty"`
	SessionID   string     `json:"session_id" bson:"session_id"`
	Items       []CartItem `json:"items" bson:"items"`
	CreatedDate string     `json:"created_date,omitempty" bson:"created_date,omitempty"`
	UpdatedDate string     `json:"updated_date,omitempty" bson:"updated_date,omitempty"`
}

// Subtotal is the sum of price * quantity over the items.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, item := range c.Items {
		sum += item.Price * item.Quantity
	}
	return sum
}
