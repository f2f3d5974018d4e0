package models

import "time"

// ProductImage represents a single product image.
type ProductImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

// Product is the client-facing representation of a catalog product,
// a projection of the WooCommerce product fields the service exposes.
type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Sku           string         `json:"sku"`
	Price         string         `json:"price"` // WooCommerce reports prices as strings
	StockQuantity int            `json:"stock_quantity"`
	Images        []ProductImage `json:"images"`
}

// SyncResult summarizes a completed catalog synchronization run.
type SyncResult struct {
	UserID      string    `json:"user_id"`
	Products    int       `json:"products"`
	Pages       int       `json:"pages"`
	CompletedAt time.Time `json:"completed_at"`
}
