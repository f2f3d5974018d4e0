package services

import (
	"context"
	"fmt"
	"time"

	"github.com/storelink/woosync/internal/domain/models"
	"github.com/storelink/woosync/pkg/interfaces"
)

type fakeStorage struct {
	appUsers      []models.User
	wooUsers      []models.WooCredentials
	links         [][2]string
	savedProducts map[string][]models.Product
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{savedProducts: make(map[string][]models.Product)}
}

func (f *fakeStorage) InsertAppUser(ctx context.Context, user *models.User) error {
	f.appUsers = append(f.appUsers, *user)
	return nil
}

func (f *fakeStorage) InsertWooUser(ctx context.Context, creds *models.WooCredentials) error {
	f.wooUsers = append(f.wooUsers, *creds)
	return nil
}

func (f *fakeStorage) LinkAppUserToWooUser(ctx context.Context, appUserID, wooUserID string) error {
	f.links = append(f.links, [2]string{appUserID, wooUserID})
	return nil
}

func (f *fakeStorage) GetAppUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for i := range f.appUsers {
		if f.appUsers[i].Email == email {
			u := f.appUsers[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStorage) SaveProduct(ctx context.Context, userID string, product *models.Product) error {
	f.savedProducts[userID] = append(f.savedProducts[userID], *product)
	return nil
}

func (f *fakeStorage) SaveProducts(ctx context.Context, userID string, products []models.Product) error {
	f.savedProducts[userID] = append(f.savedProducts[userID], products...)
	return nil
}

func (f *fakeStorage) ListProducts(ctx context.Context, userID string, page, pageSize int) ([]models.Product, int, error) {
	all := f.savedProducts[userID]
	return all, len(all), nil
}

func (f *fakeStorage) Close() error { return nil }

type fakeDocStore struct {
	docs map[string]*models.UserDocument // keyed by user id
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: make(map[string]*models.UserDocument)}
}

func (f *fakeDocStore) InsertUser(ctx context.Context, doc *models.UserDocument) error {
	copied := *doc
	f.docs[doc.UserID] = &copied
	return nil
}

func (f *fakeDocStore) GetUserByAttribute(ctx context.Context, attribute, value string) (*models.UserDocument, error) {
	for _, doc := range f.docs {
		var match bool
		switch attribute {
		case "user_id":
			match = doc.UserID == value
		case "email":
			match = doc.Email == value
		case "username":
			match = doc.Username == value
		case "app_url":
			match = doc.Store.AppURL == value
		default:
			return nil, fmt.Errorf("unknown attribute %s", attribute)
		}
		if match {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeDocStore) UpdateLastLogin(ctx context.Context, userID string, t time.Time) error {
	doc, ok := f.docs[userID]
	if !ok {
		return fmt.Errorf("no document for %s", userID)
	}
	doc.LastLogin = t
	return nil
}

func (f *fakeDocStore) SetProductsSynced(ctx context.Context, userID string, synced bool) error {
	doc, ok := f.docs[userID]
	if !ok {
		return fmt.Errorf("no document for %s", userID)
	}
	doc.AreProductsSynced = synced
	return nil
}

func (f *fakeDocStore) Close() error { return nil }

type fakeGateway struct {
	probeErr   error
	probeCalls int
	probedURLs []string

	pages      map[int]*interfaces.ProductPage
	fetchErr   error
	fetchCalls int
}

func (f *fakeGateway) ProbeCredentials(ctx context.Context, baseURL, rawCredential string) error {
	f.probeCalls++
	f.probedURLs = append(f.probedURLs, baseURL)
	return f.probeErr
}

func (f *fakeGateway) FetchProductsPage(ctx context.Context, baseURL, rawCredential string, perPage, page int) (*interfaces.ProductPage, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	p, ok := f.pages[page]
	if !ok {
		return nil, fmt.Errorf("no fake page %d", page)
	}
	return p, nil
}

type publishedMessage struct {
	Topic   string
	Key     string
	Payload []byte
}

type fakeBroker struct {
	published []publishedMessage
}

func (f *fakeBroker) Publish(ctx context.Context, topic string, message []byte) error {
	f.published = append(f.published, publishedMessage{Topic: topic, Payload: message})
	return nil
}

func (f *fakeBroker) PublishWithKey(ctx context.Context, topic, key string, message []byte) error {
	f.published = append(f.published, publishedMessage{Topic: topic, Key: key, Payload: message})
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, topic string, handler interfaces.MessageHandler) (func() error, error) {
	return func() error { return nil }, nil
}

func (f *fakeBroker) Close() error { return nil }

// fakeTxManager runs the function without a real transaction.
type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
