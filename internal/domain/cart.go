package domain

import "time"

// CartItem is one product line within an owner's cart. The unit price is
// captured when the line is first added and never tracks later catalog edits.
type CartItem struct {
	ID                  string    `json:"id"`
	Owner               Owner     `json:"-"`
	ProductID           string    `json:"productId"`
	Quantity            int       `json:"quantity"`
	PriceCentsWhenAdded int64     `json:"priceCentsWhenAdded"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// CartSummaryItem is a cart line joined against the live product row.
type CartSummaryItem struct {
	ProductID           string    `json:"productId"`
	ProductName         string    `json:"productName"`
	ProductDescription  string    `json:"productDescription,omitempty"`
	Quantity            int       `json:"quantity"`
	PriceCentsWhenAdded int64     `json:"priceCentsWhenAdded"`
	CurrentPriceCents   int64     `json:"currentPriceCents"`
	StockQuantity       int       `json:"stockQuantity"`
	SubtotalCents       int64     `json:"subtotalCents"`
	AddedAt             time.Time `json:"addedAt"`
}

// CartSummary is a read-only projection of an owner's cart. Subtotals use
// the frozen per-line prices; the drift flags compare against the live
// product rows without ever writing anything back.
type CartSummary struct {
	Items           []CartSummaryItem `json:"items"`
	ItemCount       int               `json:"itemCount"`
	TotalQuantity   int               `json:"totalQuantity"`
	SubtotalCents   int64             `json:"subtotalCents"`
	HasPriceChanges bool              `json:"hasPriceChanges"`
	HasStockIssues  bool              `json:"hasStockIssues"`
}
