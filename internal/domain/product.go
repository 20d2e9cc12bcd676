package domain

import "encoding/json"

// Product - товар одного продавца
type Product struct {
	ID           EntityID    `json:"id"`
	VendorID     EntityID    `json:"vendorId"`
	Name         string      `json:"name"`
	Description  *string     `json:"description,omitempty"`
	Price        json.Number `json:"price"`
	Category     *string     `json:"category,omitempty"`
	Availability *string     `json:"availability,omitempty"`
}
