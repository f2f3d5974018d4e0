package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelink/woosync/internal/adapters/logger"
	"github.com/storelink/woosync/internal/adapters/messaging"
	"github.com/storelink/woosync/internal/domain/models"
	"github.com/storelink/woosync/pkg/interfaces"
)

const (
	testSyncTopic    = "product-sync-events"
	testProductTopic = "product-update-events"
)

func seedUserDocument(docs *fakeDocStore) *models.UserDocument {
	doc := &models.UserDocument{
		UserID:   "user-1",
		Email:    "someone@gmail.com",
		Username: "someone",
		Store:    models.Store{AppURL: "https://testwebsite.com"},
		WooCredentials: models.DocumentCredentials{
			Token:  "ck_test",
			Secret: "cs_test",
		},
	}
	docs.docs[doc.UserID] = doc
	return doc
}

func newProductService(storage *fakeStorage, docs *fakeDocStore, gw *fakeGateway, broker *fakeBroker) *ProductService {
	return NewProductService(
		storage, docs, gw, broker, logger.NewNopLogger(),
		false, defaultStoreURL, testSyncTopic, testProductTopic,
	)
}

func TestGetProductsPageProxiesStore(t *testing.T) {
	docs := newFakeDocStore()
	seedUserDocument(docs)
	gw := &fakeGateway{pages: map[int]*interfaces.ProductPage{
		2: {
			Products:   []models.Product{{ID: 3, Name: "Mug", Sku: "MG-3", Price: "4.50"}},
			TotalItems: 11,
			TotalPages: 2,
		},
	}}
	svc := newProductService(newFakeStorage(), docs, gw, &fakeBroker{})

	page, err := svc.GetProductsPage(context.Background(), "user-1", 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 11, page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Products, 1)
	assert.Equal(t, int64(3), page.Products[0].ID)
}

func TestGetProductsPageUnknownUser(t *testing.T) {
	svc := newProductService(newFakeStorage(), newFakeDocStore(), &fakeGateway{}, &fakeBroker{})

	_, err := svc.GetProductsPage(context.Background(), "ghost", 10, 1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAreProductsSynced(t *testing.T) {
	docs := newFakeDocStore()
	doc := seedUserDocument(docs)
	svc := newProductService(newFakeStorage(), docs, &fakeGateway{}, &fakeBroker{})

	synced, err := svc.AreProductsSynced(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, synced)

	doc.AreProductsSynced = true
	synced, err = svc.AreProductsSynced(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, synced)
}

func TestSyncProductsAggregatesAllPages(t *testing.T) {
	storage := newFakeStorage()
	docs := newFakeDocStore()
	seedUserDocument(docs)
	gw := &fakeGateway{pages: map[int]*interfaces.ProductPage{
		1: {
			Products: []models.Product{
				{ID: 1, Name: "Hoodie", Sku: "HD-1", Price: "19.99"},
				{ID: 2, Name: "Mug", Sku: "MG-2", Price: "4.50"},
			},
			TotalItems: 3,
			TotalPages: 2,
		},
		2: {
			Products: []models.Product{
				{ID: 3, Name: "Cap", Sku: "CP-3", Price: "9.99"},
			},
			TotalItems: 3,
			TotalPages: 2,
		},
	}}
	broker := &fakeBroker{}
	svc := newProductService(storage, docs, gw, broker)

	result, err := svc.SyncProducts(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, 3, result.Products)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 2, gw.fetchCalls)

	// Every page landed in the relational catalog, in order.
	saved := storage.savedProducts["user-1"]
	require.Len(t, saved, 3)
	assert.Equal(t, int64(1), saved[0].ID)
	assert.Equal(t, int64(3), saved[2].ID)

	// The synced flag flipped.
	synced, err := svc.AreProductsSynced(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, synced)

	// A completion event went out, keyed by the user.
	require.Len(t, broker.published, 1)
	assert.Equal(t, testSyncTopic, broker.published[0].Topic)
	assert.Equal(t, "user-1", broker.published[0].Key)

	var event messaging.ProductSyncCompleted
	require.NoError(t, json.Unmarshal(broker.published[0].Payload, &event))
	assert.Equal(t, messaging.ProductSyncCompletedEvent, event.Event)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, 3, event.Products)
	assert.Equal(t, 2, event.Pages)
}

func TestSyncProductsEmptyCatalog(t *testing.T) {
	storage := newFakeStorage()
	docs := newFakeDocStore()
	seedUserDocument(docs)
	gw := &fakeGateway{pages: map[int]*interfaces.ProductPage{
		1: {Products: nil, TotalItems: 0, TotalPages: 0},
	}}
	svc := newProductService(storage, docs, gw, &fakeBroker{})

	result, err := svc.SyncProducts(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Products)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, 1, gw.fetchCalls)
}

func TestSyncProductsStoreFailure(t *testing.T) {
	docs := newFakeDocStore()
	seedUserDocument(docs)
	gw := &fakeGateway{fetchErr: assert.AnError}
	broker := &fakeBroker{}
	svc := newProductService(newFakeStorage(), docs, gw, broker)

	_, err := svc.SyncProducts(context.Background(), "user-1")
	require.Error(t, err)
	assert.Empty(t, broker.published)

	synced, err := svc.AreProductsSynced(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, synced, "a failed sync must not mark the catalog synced")
}

func TestHandleProductWebhook(t *testing.T) {
	docs := newFakeDocStore()
	seedUserDocument(docs)
	broker := &fakeBroker{}
	svc := newProductService(newFakeStorage(), docs, &fakeGateway{}, broker)

	product := models.Product{ID: 42, Name: "Hoodie", Sku: "HD-42", Price: "19.99"}
	err := svc.HandleProductWebhook(context.Background(), "https://testwebsite.com", product)
	require.NoError(t, err)

	require.Len(t, broker.published, 1)
	assert.Equal(t, testProductTopic, broker.published[0].Topic)
	assert.Equal(t, "user-1", broker.published[0].Key)

	var event messaging.ProductUpdated
	require.NoError(t, json.Unmarshal(broker.published[0].Payload, &event))
	assert.Equal(t, messaging.ProductUpdatedEvent, event.Event)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, "https://testwebsite.com", event.StoreURL)
	assert.Equal(t, int64(42), event.Product.ID)
}

func TestHandleProductWebhookUnknownSource(t *testing.T) {
	broker := &fakeBroker{}
	svc := newProductService(newFakeStorage(), newFakeDocStore(), &fakeGateway{}, broker)

	err := svc.HandleProductWebhook(context.Background(), "https://unknown.example", models.Product{ID: 1})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, broker.published)
}
