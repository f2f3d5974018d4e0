package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"

	"github.com/storelink/woosync/internal/adapters/wooapi"
	"github.com/storelink/woosync/internal/domain/models"
	"github.com/storelink/woosync/internal/domain/services"
	"github.com/storelink/woosync/pkg/interfaces"
)

// WooCommerce identifies the sending store with this header.
const webhookSourceHeader = "X-WC-Webhook-Source"

// WebhookServiceInterface is the slice of ProductService the webhook needs.
type WebhookServiceInterface interface {
	HandleProductWebhook(ctx context.Context, sourceURL string, product models.Product) error
}

// WebhookHandler handles store-originated product webhooks.
type WebhookHandler struct {
	webhookService WebhookServiceInterface
	logger         interfaces.LoggerPort
}

// NewWebhookHandler creates the webhook handler.
func NewWebhookHandler(webhookService WebhookServiceInterface, logger interfaces.LoggerPort) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		logger:         logger,
	}
}

// HandleProduct handles POST /webhook. The payload is a WooCommerce
// product; unknown fields are tolerated since stores attach plugin data.
func (h *WebhookHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	source := r.Header.Get(webhookSourceHeader)
	if source == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "missing webhook source header",
		})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "unreadable body",
		})
		return
	}

	if err := wooapi.Conforms(&wooapi.WooProduct{}, body, false); err != nil {
		h.logger.WarnWithContext(r.Context(), "webhook payload rejected",
			interfaces.LogField{Key: "source", Value: source},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "invalid product payload",
		})
		return
	}

	var wooProduct wooapi.WooProduct
	if err := json.Unmarshal(body, &wooProduct); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{
			Error:   "bad_request",
			Code:    http.StatusBadRequest,
			Message: "invalid product payload",
		})
		return
	}
	product := wooapi.ConvertProducts(wooapi.WooProducts{wooProduct})[0]

	if err := h.webhookService.HandleProductWebhook(r.Context(), source, product); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, errorResponse{
				Error:   "not_found",
				Code:    http.StatusNotFound,
				Message: "unknown webhook source",
			})
			return
		}
		h.logger.ErrorWithContext(r.Context(), "webhook handling failed",
			interfaces.LogField{Key: "source", Value: source},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{
			Error:   "internal_error",
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
		})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response{Success: true})
}
