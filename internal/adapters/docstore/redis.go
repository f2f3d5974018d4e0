package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/storelink/woosync/internal/domain/models"
	"github.com/storelink/woosync/pkg/interfaces"
	"github.com/storelink/woosync/pkg/utils"
)

// Key layout:
//
//	users:id:<user_id>        JSON user document
//	users:idx:<attr>:<value>  user_id, one per indexed attribute value
const (
	userKeyPrefix  = "users:id:"
	indexKeyPrefix = "users:idx:"
)

// indexedAttributes are the attributes GetUserByAttribute accepts.
var indexedAttributes = map[string]struct{}{
	"user_id":  {},
	"email":    {},
	"username": {},
	"app_url":  {},
}

// RedisDocumentStore implements DocumentStorePort on Redis, storing user
// documents as JSON values with attribute index keys alongside.
type RedisDocumentStore struct {
	client *redis.Client
	logger interfaces.LoggerPort
}

// NewRedisDocumentStore connects to Redis and verifies the connection.
func NewRedisDocumentStore(ctx context.Context, addr, password string, db int, logger interfaces.LoggerPort) (*RedisDocumentStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisDocumentStore{client: client, logger: logger}, nil
}

// NewRedisDocumentStoreWithClient wraps an existing client. Used by tests.
func NewRedisDocumentStoreWithClient(client *redis.Client, logger interfaces.LoggerPort) *RedisDocumentStore {
	return &RedisDocumentStore{client: client, logger: logger}
}

// Close releases the Redis client.
func (s *RedisDocumentStore) Close() error {
	return s.client.Close()
}

func userKey(userID string) string {
	return userKeyPrefix + userID
}

func indexKey(attribute, value string) string {
	return indexKeyPrefix + attribute + ":" + value
}

// InsertUser stores the document and its attribute indexes atomically.
func (s *RedisDocumentStore) InsertUser(ctx context.Context, doc *models.UserDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal user document: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, userKey(doc.UserID), payload, 0)
	pipe.Set(ctx, indexKey("user_id", doc.UserID), doc.UserID, 0)
	pipe.Set(ctx, indexKey("email", doc.Email), doc.UserID, 0)
	pipe.Set(ctx, indexKey("username", doc.Username), doc.UserID, 0)
	pipe.Set(ctx, indexKey("app_url", doc.Store.AppURL), doc.UserID, 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert user document: %w", err)
	}
	return nil
}

// GetUserByAttribute resolves the attribute index and loads the document.
// Returns nil when no document matches.
func (s *RedisDocumentStore) GetUserByAttribute(ctx context.Context, attribute, value string) (*models.UserDocument, error) {
	if _, ok := indexedAttributes[attribute]; !ok {
		return nil, fmt.Errorf("%w: %s", utils.ErrUnknownUserAttribute, attribute)
	}

	userID, err := s.client.Get(ctx, indexKey(attribute, value)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve user index: %w", err)
	}

	payload, err := s.client.Get(ctx, userKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Index without a document means a partial write happened.
			s.logger.Warn("dangling user index",
				interfaces.LogField{Key: "attribute", Value: attribute},
				interfaces.LogField{Key: "user_id", Value: userID},
			)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user document: %w", err)
	}

	var doc models.UserDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user document: %w", err)
	}
	return &doc, nil
}

// UpdateLastLogin records the time of the last successful sign-in.
func (s *RedisDocumentStore) UpdateLastLogin(ctx context.Context, userID string, t time.Time) error {
	return s.updateDocument(ctx, userID, func(doc *models.UserDocument) {
		doc.LastLogin = t
	})
}

// SetProductsSynced flips the catalog-synchronized flag.
func (s *RedisDocumentStore) SetProductsSynced(ctx context.Context, userID string, synced bool) error {
	return s.updateDocument(ctx, userID, func(doc *models.UserDocument) {
		doc.AreProductsSynced = synced
	})
}

// updateDocument loads, mutates and rewrites a user document.
func (s *RedisDocumentStore) updateDocument(ctx context.Context, userID string, mutate func(*models.UserDocument)) error {
	payload, err := s.client.Get(ctx, userKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", utils.ErrStorageKeyNotFound, userID)
		}
		return fmt.Errorf("failed to load user document: %w", err)
	}

	var doc models.UserDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal user document: %w", err)
	}

	mutate(&doc)

	updated, err := json.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("failed to marshal user document: %w", err)
	}
	if err := s.client.Set(ctx, userKey(userID), updated, 0).Err(); err != nil {
		return fmt.Errorf("failed to update user document: %w", err)
	}
	return nil
}
