package wooapi

import "encoding/json"

// WooImage is a product image as the WooCommerce API reports it.
type WooImage struct {
	ID  int64  `json:"id" validate:"required"`
	Src string `json:"src" validate:"required,url"`
}

// WooProduct is a catalog product as the WooCommerce API reports it.
// Received payloads are never mutated, only converted.
type WooProduct struct {
	ID            int64      `json:"id" validate:"required"`
	Name          string     `json:"name" validate:"required"`
	Sku           string     `json:"sku" validate:"required"`
	Price         string     `json:"price" validate:"required"`
	StockQuantity int        `json:"stock_quantity"`
	Images        []WooImage `json:"images" validate:"dive"`
}

// WooProducts is a product list page as returned by the products endpoint.
type WooProducts []WooProduct

// Validate implements the shape-guard contract for product pages.
func (ps WooProducts) Validate() error {
	for i := range ps {
		if err := validate.Struct(ps[i]); err != nil {
			return err
		}
	}
	return nil
}

// SystemEnvironment is the environment block of the system status report.
type SystemEnvironment struct {
	HomeURL string `json:"home_url" validate:"required,url"`
	SiteURL string `json:"site_url"`
	Version string `json:"version"`
}

// SystemStatus is the system status report of a WooCommerce store.
// Callers treat it as an existence signal: a validated report means the
// store is reachable and the credential is accepted. Sections other than
// the environment are carried opaquely.
type SystemStatus struct {
	Environment   SystemEnvironment `json:"environment" validate:"required"`
	Database      json.RawMessage   `json:"database,omitempty"`
	ActivePlugins json.RawMessage   `json:"active_plugins,omitempty"`
	Theme         json.RawMessage   `json:"theme,omitempty"`
	Settings      json.RawMessage   `json:"settings,omitempty"`
	Security      json.RawMessage   `json:"security,omitempty"`
	Pages         json.RawMessage   `json:"pages,omitempty"`
}

// Validate implements the shape-guard contract for status reports.
func (s *SystemStatus) Validate() error {
	return validate.Struct(s)
}
