package models

import "errors"

// DefaultSortOrder ranks methods without an explicit sort_order last.
const DefaultSortOrder int64 = 999

// ShippingMethod is an admin-configured shipping option.
type ShippingMethod struct {
	ID          string `json:"id,omitempty" bson:"id,omitempty"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
	ETA         string `json:"eta,omitempty" bson:"eta,omitempty"`
	Price       int64  `json:"price" bson:"price"`
	FreeOver    *int64 `json:"free_over" bson:"free_over"`
	Active      *bool  `json:"active,omitempty" bson:"active,omitempty"`
	SortOrder   *int64 `json:"sort_order,omitempty" bson:"sort_order,omitempty"`
	CreatedDate string `json:"created_date,omitempty" bson:"created_date,omitempty"`
	UpdatedDate string `json:"updated_date,omitempty" bson:"updated_date,omitempty"`
}

// Validate checks the record before it reaches the store.
func (m *ShippingMethod) Validate() error {
	if m.Name == "" {
		return errors.New("shipping method name is required")
	}
	if m.Price < 0 {
		return errors.New("shipping method price must not be negative")
	}
	if m.FreeOver != nil && *m.FreeOver < 0 {
		return errors.New("shipping method free_over must not be negative")
	}
	return nil
}

// IsActive reports whether the method is selectable. Missing active counts
// as active.
func (m *ShippingMethod) IsActive() bool {
	return m.Active == nil || *m.Active
}

// Rank is the display position used when sorting methods.
func (m *ShippingMethod) Rank() int64 {
	if m.SortOrder == nil {
		return DefaultSortOrder
	}
	return *m.SortOrder
}
