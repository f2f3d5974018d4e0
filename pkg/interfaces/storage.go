package interfaces

import (
	"context"

	"github.com/storelink/woosync/internal/domain/models"
)

// StoragePort defines the interface for the relational store.
// The implementation may use any SQL database (PostgreSQL, MySQL, ...).
type StoragePort interface {
	// InsertAppUser stores a new application user.
	InsertAppUser(ctx context.Context, user *models.User) error

	// InsertWooUser stores the WooCommerce credential pair of a user.
	InsertWooUser(ctx context.Context, creds *models.WooCredentials) error

	// LinkAppUserToWooUser records the one-to-one link between an
	// application user and a WooCommerce credential record.
	LinkAppUserToWooUser(ctx context.Context, appUserID, wooUserID string) error

	// GetAppUserByEmail returns the user with the given email,
	// or nil when no such user exists.
	GetAppUserByEmail(ctx context.Context, email string) (*models.User, error)

	// SaveProduct upserts a single synchronized catalog product.
	SaveProduct(ctx context.Context, userID string, product *models.Product) error

	// SaveProducts upserts a page of synchronized catalog products.
	SaveProducts(ctx context.Context, userID string, products []models.Product) error

	// ListProducts returns a page of synchronized products together with
	// the total number of products stored for the user.
	ListProducts(ctx context.Context, userID string, page, pageSize int) ([]models.Product, int, error)

	// Close releases the underlying connection pool.
	Close() error
}
