package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// transitions defines which status changes are allowed. Completed and
// cancelled are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusPreparing, StatusCompleted, StatusCancelled},
	StatusPreparing: {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status change from s to next is allowed
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderOption is a priced extra captured on an order line
type OrderOption struct {
	ID         int64           `json:"id"`
	Name       LocalizedText   `json:"name"`
	ExtraPrice decimal.Decimal `json:"extra_price"`
}

// OrderRemoval is an ingredient exclusion captured on an order line.
// Removals never carry a price delta.
type OrderRemoval struct {
	ID   int64         `json:"id"`
	Name LocalizedText `json:"name"`
}

// OrderItem is one line of a submitted order. It is a snapshot taken at
// submission time and stays unchanged even if the catalog entry it came
// from is later edited or deleted.
type OrderItem struct {
	MenuItemID int64           `json:"menu_item_id"`
	Name       LocalizedText   `json:"name"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Extras     []OrderOption   `json:"extras,omitempty"`
	Removals   []OrderRemoval  `json:"removals,omitempty"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

// Order represents a submitted customer order. Items and total are fixed
// at creation; only status and archived change afterwards.
type Order struct {
	ID          int64           `json:"id"`
	TableNumber string          `json:"table_number"`
	Items       []OrderItem     `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      OrderStatus     `json:"status"`
	Archived    bool            `json:"archived"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateOrderRequest represents the request to create a new order
type CreateOrderRequest struct {
	TableNumber string          `json:"table_number"`
	Items       []OrderItem     `json:"items"`
	Total       decimal.Decimal `json:"total"`
}

// Validate checks the shape of the create order request
func (r *CreateOrderRequest) Validate() error {
	if strings.TrimSpace(r.TableNumber) == "" {
		return &ValidationError{Field: "table_number", Reason: "table number is required"}
	}
	if len(r.Items) == 0 {
		return &ValidationError{Field: "items", Reason: "order must contain at least one item"}
	}
	for _, item := range r.Items {
		if item.Quantity < 1 {
			return &ValidationError{Field: "items", Reason: "item quantity must be at least 1"}
		}
		if item.Price.IsNegative() {
			return &ValidationError{Field: "items", Reason: "item price must not be negative"}
		}
		for _, extra := range item.Extras {
			if extra.ExtraPrice.IsNegative() {
				return &ValidationError{Field: "items", Reason: "extra price must not be negative"}
			}
		}
	}
	if r.Total.IsNegative() {
		return &ValidationError{Field: "total", Reason: "total must not be negative"}
	}
	return nil
}
