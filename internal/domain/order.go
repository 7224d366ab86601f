package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// statusRank orders the forward progression of an order. Cancelled sits
// outside the progression and is reachable from any non-terminal state.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusConfirmed: 1,
	OrderStatusShipped:   2,
	OrderStatusDelivered: 3,
}

// Valid reports whether s is one of the five known statuses.
func (s OrderStatus) Valid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether s may move to target: forward through
// pending, confirmed, shipped, delivered, or to cancelled while non-terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if !s.Valid() || !target.Valid() || s.Terminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	return statusRank[target] > statusRank[s]
}

// Order is the immutable record of a completed checkout. Totals are frozen
// at creation from the cart snapshot and never recomputed.
type Order struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Status          OrderStatus `json:"status"`
	TotalCents      int64       `json:"totalCents"`
	ItemCount       int         `json:"itemCount"`
	ShippingAddress string      `json:"shippingAddress"`
	PaymentMethod   string      `json:"paymentMethod"`
	Notes           string      `json:"notes,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots one product line at order time. Name, description and
// unit price are copies, decoupled from any later product edits.
type OrderItem struct {
	ID                 string `json:"id"`
	OrderID            string `json:"orderId"`
	ProductID          string `json:"productId"`
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription,omitempty"`
	Quantity           int    `json:"quantity"`
	UnitPriceCents     int64  `json:"unitPriceCents"`
	SubtotalCents      int64  `json:"subtotalCents"`
}

// OrderStats aggregates order counts and revenue for the admin dashboard.
// Revenue excludes cancelled orders.
type OrderStats struct {
	TotalOrders       int                 `json:"totalOrders"`
	TotalRevenueCents int64               `json:"totalRevenueCents"`
	CountByStatus     map[OrderStatus]int `json:"countByStatus"`
}
