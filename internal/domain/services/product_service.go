package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/storelink/woosync/internal/adapters/messaging"
	"github.com/storelink/woosync/internal/domain/models"
	"github.com/storelink/woosync/pkg/interfaces"
)

// syncPageSize is the page size the sync loop requests from the store.
const syncPageSize = 100

// ProductService implements catalog sync and product queries.
type ProductService struct {
	storage      interfaces.StoragePort
	docs         interfaces.DocumentStorePort
	woo          interfaces.WooGatewayPort
	broker       interfaces.MessagingPort
	logger       interfaces.LoggerPort
	production   bool
	syncTopic    string
	productTopic string

	defaultWooBaseURL string
}

// NewProductService creates the product service.
func NewProductService(
	storage interfaces.StoragePort,
	docs interfaces.DocumentStorePort,
	woo interfaces.WooGatewayPort,
	broker interfaces.MessagingPort,
	logger interfaces.LoggerPort,
	production bool,
	defaultWooBaseURL string,
	syncTopic, productTopic string,
) *ProductService {
	return &ProductService{
		storage:           storage,
		docs:              docs,
		woo:               woo,
		broker:            broker,
		logger:            logger,
		production:        production,
		defaultWooBaseURL: defaultWooBaseURL,
		syncTopic:         syncTopic,
		productTopic:      productTopic,
	}
}

func (s *ProductService) resolveStoreBaseURL(appURL string) string {
	if s.production {
		return appURL
	}
	return s.defaultWooBaseURL
}

// userDocument loads the caller's document or ErrUserNotFound.
func (s *ProductService) userDocument(ctx context.Context, userID string) (*models.UserDocument, error) {
	doc, err := s.docs.GetUserByAttribute(ctx, "user_id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user document: %w", err)
	}
	if doc == nil {
		return nil, ErrUserNotFound
	}
	return doc, nil
}

func rawCredential(doc *models.UserDocument) string {
	return doc.WooCredentials.Token + "|" + doc.WooCredentials.Secret
}

// GetProductsPage proxies one catalog page from the caller's store.
// perPage and page are forwarded to the store as given.
func (s *ProductService) GetProductsPage(ctx context.Context, userID string, perPage, page int) (*interfaces.ProductPage, error) {
	doc, err := s.userDocument(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.woo.FetchProductsPage(ctx, s.resolveStoreBaseURL(doc.Store.AppURL), rawCredential(doc), perPage, page)
}

// AreProductsSynced reports whether the user's catalog has been synchronized.
func (s *ProductService) AreProductsSynced(ctx context.Context, userID string) (bool, error) {
	doc, err := s.userDocument(ctx, userID)
	if err != nil {
		return false, err
	}
	return doc.AreProductsSynced, nil
}

// SyncProducts pulls the full catalog page by page, persists every page,
// flips the synced flag and publishes a completion event.
func (s *ProductService) SyncProducts(ctx context.Context, userID string) (*models.SyncResult, error) {
	doc, err := s.userDocument(ctx, userID)
	if err != nil {
		return nil, err
	}

	baseURL := s.resolveStoreBaseURL(doc.Store.AppURL)
	cred := rawCredential(doc)

	totalProducts := 0
	pages := 0
	for page := 1; ; page++ {
		productPage, err := s.woo.FetchProductsPage(ctx, baseURL, cred, syncPageSize, page)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch catalog page %d: %w", page, err)
		}

		if err := s.storage.SaveProducts(ctx, userID, productPage.Products); err != nil {
			return nil, fmt.Errorf("failed to save catalog page %d: %w", page, err)
		}

		totalProducts += len(productPage.Products)
		pages++

		if page >= productPage.TotalPages {
			break
		}
	}

	if err := s.docs.SetProductsSynced(ctx, userID, true); err != nil {
		return nil, fmt.Errorf("failed to mark products synced: %w", err)
	}

	result := &models.SyncResult{
		UserID:      userID,
		Products:    totalProducts,
		Pages:       pages,
		CompletedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(messaging.ProductSyncCompleted{
		Event:       messaging.ProductSyncCompletedEvent,
		UserID:      result.UserID,
		Products:    result.Products,
		Pages:       result.Pages,
		CompletedAt: result.CompletedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync event: %w", err)
	}
	if err := s.broker.PublishWithKey(ctx, s.syncTopic, userID, payload); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish sync event",
			interfaces.LogField{Key: "user_id", Value: userID},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}

	s.logger.InfoWithContext(ctx, "catalog synchronized",
		interfaces.LogField{Key: "user_id", Value: userID},
		interfaces.LogField{Key: "products", Value: totalProducts},
		interfaces.LogField{Key: "pages", Value: pages},
	)
	return result, nil
}

// ListProducts returns one page of the synchronized catalog from storage.
func (s *ProductService) ListProducts(ctx context.Context, userID string, page, pageSize int) ([]models.Product, int, error) {
	return s.storage.ListProducts(ctx, userID, page, pageSize)
}

// HandleProductWebhook attributes a store-originated product update to the
// owning user and publishes it for the worker to persist.
func (s *ProductService) HandleProductWebhook(ctx context.Context, sourceURL string, product models.Product) error {
	doc, err := s.docs.GetUserByAttribute(ctx, "app_url", sourceURL)
	if err != nil {
		return fmt.Errorf("failed to resolve webhook source: %w", err)
	}
	if doc == nil {
		return ErrUserNotFound
	}

	payload, err := json.Marshal(messaging.ProductUpdated{
		Event:      messaging.ProductUpdatedEvent,
		UserID:     doc.UserID,
		StoreURL:   sourceURL,
		Product:    product,
		ReceivedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal product event: %w", err)
	}

	if err := s.broker.PublishWithKey(ctx, s.productTopic, doc.UserID, payload); err != nil {
		return fmt.Errorf("failed to publish product event: %w", err)
	}

	s.logger.InfoWithContext(ctx, "webhook product update queued",
		interfaces.LogField{Key: "user_id", Value: doc.UserID},
		interfaces.LogField{Key: "product_id", Value: product.ID},
	)
	return nil
}
