package messaging

import (
	"time"

	"github.com/storelink/woosync/internal/domain/models"
)

// Event names published by the service.
const (
	ProductSyncCompletedEvent = "product_sync_completed"
	ProductUpdatedEvent       = "product_updated"
)

// ProductSyncCompleted is published after a full catalog synchronization.
type ProductSyncCompleted struct {
	Event       string    `json:"event"`
	UserID      string    `json:"user_id"`
	Products    int       `json:"products"`
	Pages       int       `json:"pages"`
	CompletedAt time.Time `json:"completed_at"`
}

// ProductUpdated is published when a store webhook reports a product change.
type ProductUpdated struct {
	Event      string         `json:"event"`
	UserID     string         `json:"user_id"`
	StoreURL   string         `json:"store_url"`
	Product    models.Product `json:"product"`
	ReceivedAt time.Time      `json:"received_at"`
}
