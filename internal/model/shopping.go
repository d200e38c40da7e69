package model

import "time"

type ShoppingItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  string    `json:"quantity"`
	Bought    bool      `json:"bought"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
}

// ShoppingItemUpdate carries the fields to change; nil fields are left as is.
type ShoppingItemUpdate struct {
	Name     *string
	Category *string
	Quantity *string
	Bought   *bool
}
