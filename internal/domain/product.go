package domain

import "time"

const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusDeleted  = "deleted"
)

type Product struct {
	ID            string    `json:"id"`
	SupplierID    string    `json:"supplierId,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PriceCents    int64     `json:"priceCents"`
	StockQuantity int       `json:"stockQuantity"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Sellable reports whether the product can be added to a cart or ordered.
func (p *Product) Sellable() bool {
	return p != nil && p.Status == ProductStatusActive
}
