package wooapi

import (
	"context"
	"net/http"

	"github.com/storelink/woosync/pkg/interfaces"
)

const systemStatusPath = "/wp-json/wc/v3/system_status"

// GetSystemStatus fetches the store's system status report. The call
// doubles as a credential probe: WooCommerce rejects it with a non-200
// status when the REST key pair is invalid.
func GetSystemStatus(ctx context.Context, baseURL string, cred Credential, logger interfaces.LoggerPort) (*SystemStatus, error) {
	client := NewClient(Config{
		BaseURL: baseURL,
		Header:  http.Header{"Authorization": []string{cred.BasicAuthHeader()}},
	}, logger, ExpectJSON(logger, http.StatusOK, func() interface{} { return &SystemStatus{} }, false))

	status, _, err := get[*SystemStatus](ctx, client, systemStatusPath)
	if err != nil {
		return nil, err
	}
	return status, nil
}
