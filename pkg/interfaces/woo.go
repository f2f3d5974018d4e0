package interfaces

import (
	"context"

	"github.com/storelink/woosync/internal/domain/models"
)

// ProductPage is one page of a store catalog with the store-reported totals.
type ProductPage struct {
	Products   []models.Product
	TotalItems int
	TotalPages int
}

// WooGatewayPort defines the interface to a WooCommerce store.
type WooGatewayPort interface {
	// ProbeCredentials verifies that the raw "token|secret" credential
	// grants API access to the store at baseURL.
	ProbeCredentials(ctx context.Context, baseURL, rawCredential string) error

	// FetchProductsPage fetches exactly one catalog page.
	FetchProductsPage(ctx context.Context, baseURL, rawCredential string, perPage, page int) (*ProductPage, error)
}
