package wooapi

import (
	"context"

	"github.com/storelink/woosync/pkg/interfaces"
)

// Gateway is the store-facing adapter the domain services depend on. It
// parses raw "token|secret" credentials and delegates to the typed calls.
type Gateway struct {
	logger interfaces.LoggerPort
}

// NewGateway creates a store gateway.
func NewGateway(logger interfaces.LoggerPort) *Gateway {
	return &Gateway{logger: logger}
}

// ProbeCredentials verifies that the credential grants API access to the
// store at baseURL by requesting the system status report.
func (g *Gateway) ProbeCredentials(ctx context.Context, baseURL, rawCredential string) error {
	cred, err := ParseCredential(rawCredential)
	if err != nil {
		return err
	}
	_, err = GetSystemStatus(ctx, baseURL, cred, g.logger)
	return err
}

// FetchProductsPage fetches one catalog page from the store at baseURL.
func (g *Gateway) FetchProductsPage(ctx context.Context, baseURL, rawCredential string, perPage, page int) (*interfaces.ProductPage, error) {
	cred, err := ParseCredential(rawCredential)
	if err != nil {
		return nil, err
	}
	return GetProductsPage(ctx, baseURL, cred, g.logger, perPage, page)
}
