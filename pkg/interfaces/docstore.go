package interfaces

import (
	"context"
	"time"

	"github.com/storelink/woosync/internal/domain/models"
)

// DocumentStorePort defines the interface for the document store holding
// user profile and session metadata. The implementation may use any
// document-oriented backend (Redis, Firestore, MongoDB, ...).
type DocumentStorePort interface {
	// InsertUser stores a user document and indexes its queryable
	// attributes. Inserting a document for an existing user id
	// overwrites the previous document.
	InsertUser(ctx context.Context, doc *models.UserDocument) error

	// GetUserByAttribute returns the first user document whose attribute
	// matches the given value, or nil when none matches. Supported
	// attributes: user_id, email, username, app_url.
	GetUserByAttribute(ctx context.Context, attribute, value string) (*models.UserDocument, error)

	// UpdateLastLogin records the time of the user's last successful sign-in.
	UpdateLastLogin(ctx context.Context, userID string, t time.Time) error

	// SetProductsSynced flips the catalog-synchronized flag of a user.
	SetProductsSynced(ctx context.Context, userID string, synced bool) error

	// Close releases the underlying client.
	Close() error
}
