package wooapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/storelink/woosync/pkg/interfaces"
)

const productsPathFormat = "/wp-json/wc/v3/products?per_page=%d&page=%d"

// Pagination headers WooCommerce attaches to collection responses.
const (
	headerTotal      = "X-WP-Total"
	headerTotalPages = "X-WP-TotalPages"
)

// GetProductsPage fetches a single catalog page. Aggregating pages is the
// caller's concern; the client never follows pagination on its own.
func GetProductsPage(ctx context.Context, baseURL string, cred Credential, logger interfaces.LoggerPort, perPage, page int) (*interfaces.ProductPage, error) {
	client := NewClient(Config{
		BaseURL: baseURL,
		Header:  http.Header{"Authorization": []string{cred.BasicAuthHeader()}},
	}, logger, ExpectJSON(logger, http.StatusOK, func() interface{} { return &WooProducts{} }, false))

	path := fmt.Sprintf(productsPathFormat, perPage, page)

	products, header, err := get[WooProducts](ctx, client, path)
	if err != nil {
		return nil, err
	}

	totalItems, totalPages, err := parseTotals(header, baseURL+path)
	if err != nil {
		return nil, err
	}

	return &interfaces.ProductPage{
		Products:   ConvertProducts(products),
		TotalItems: totalItems,
		TotalPages: totalPages,
	}, nil
}

// parseTotals reads the pagination headers. A missing or non-numeric
// header is a contract violation and fails the call; totals are never
// silently defaulted.
func parseTotals(header http.Header, url string) (int, int, error) {
	totalItems, err := parseTotalHeader(header, headerTotal, url)
	if err != nil {
		return 0, 0, err
	}
	totalPages, err := parseTotalHeader(header, headerTotalPages, url)
	if err != nil {
		return 0, 0, err
	}
	return totalItems, totalPages, nil
}

func parseTotalHeader(header http.Header, name, url string) (int, error) {
	raw := header.Get(name)
	if raw == "" {
		return 0, &SchemaMismatchError{URL: url, Reason: fmt.Sprintf("missing %s header", name)}
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &SchemaMismatchError{URL: url, Reason: fmt.Sprintf("invalid %s header %q", name, raw)}
	}
	return n, nil
}
