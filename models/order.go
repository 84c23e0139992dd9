package models

import "errors"

// OrderStatus is the lifecycle state of an order. Only status changes after
// creation; totals are never recomputed.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusPaymentPending OrderStatus = "payment_pending"
	OrderStatusProcessing     OrderStatus = "processing"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaymentPending, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is one purchased line.
type OrderItem struct {
	ProductID   string `json:"product_id" bson:"product_id"`
	ProductName string `json:"product_name" bson:"product_name"`
	Size        string `json:"size,omitempty" bson:"size,omitempty"`
	Quantity    int64  `json:"quantity" bson:"quantity"`
	Price       int64  `json:"price" bson:"price"`
}

// OrderShipping is the shipping rule snapshot embedded at creation time so
// later inspection does not depend on since-changed shipping-method records.
type OrderShipping struct {
	ID          string `json:"id,omitempty" bson:"id,omitempty"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	ETA         string `json:"eta" bson:"eta"`
	Price       int64  `json:"price" bson:"price"`
	FreeOver    *int64 `json:"free_over" bson:"free_over"`
	Amount      int64  `json:"amount" bson:"amount"`
}

// Order is a purchase record.
type Order struct {
	ID              string        `json:"id,omitempty" bson:"id,omitempty"`
	CustomerName    string        `json:"customer_name" bson:"customer_name"`
	CustomerEmail   string        `json:"customer_email" bson:"customer_email"`
	CustomerPhone   string        `json:"customer_phone" bson:"customer_phone"`
	ShippingAddress string        `json:"shipping_address" bson:"shipping_address"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Items           []OrderItem   `json:"items" bson:"items"`
	SubtotalAmount  int64         `json:"subtotal_amount" bson:"subtotal_amount"`
	Shipping        OrderShipping `json:"shipping" bson:"shipping"`
	TotalAmount     int64         `json:"total_amount" bson:"total_amount"`
	Status          OrderStatus   `json:"status" bson:"status"`
	CreatedDate     string        `json:"created_date,omitempty" bson:"created_date,omitempty"`
	UpdatedDate     string        `json:"updated_date,omitempty" bson:"updated_date,omitempty"`
}

// Validate checks the record before it reaches the store. The total
// invariant (total = subtotal + shipping amount) holds at creation time.
func (o *Order) Validate() error {
	if o.CustomerName == "" {
		return errors.New("customer_name is required")
	}
	if o.CustomerEmail == "" {
		return errors.New("customer_email is required")
	}
	if o.CustomerPhone == "" {
		return errors.New("customer_phone is required")
	}
	if o.ShippingAddress == "" {
		return errors.New("shipping_address is required")
	}
	if len(o.Items) == 0 {
		return errors.New("order has no items")
	}
	for _, item := range o.Items {
		if item.Quantity < 1 {
			return errors.New("order item quantity must be at least 1")
		}
		if item.Price < 0 {
			return errors.New("order item price must not be negative")
		}
	}
	if !o.Status.Valid() {
		return errors.New("unknown order status")
	}
	if o.SubtotalAmount < 0 || o.Shipping.Amount < 0 {
		return errors.New("order amounts must not be negative")
	}
	if o.TotalAmount != o.SubtotalAmount+o.Shipping.Amount {
		return errors.New("order total does not equal subtotal plus shipping")
	}
	return nil
}
