package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storelink/woosync/internal/domain/models"
	"github.com/storelink/woosync/pkg/interfaces"
	"github.com/storelink/woosync/pkg/tx"
)

// PostgresStorage implements StoragePort on PostgreSQL via pgx.
type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger interfaces.LoggerPort
}

// NewPostgresStorage connects to PostgreSQL and verifies the connection.
func NewPostgresStorage(ctx context.Context, connectionString string, logger interfaces.LoggerPort) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// NewPostgresStorageWithPool wraps an existing pool.
func NewPostgresStorageWithPool(ctx context.Context, pool *pgxpool.Pool, logger interfaces.LoggerPort) (*PostgresStorage, error) {
	if pool == nil {
		return nil, errors.New("pool is nil")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

// Pool exposes the underlying pool for the transaction manager.
func (s *PostgresStorage) Pool() *pgxpool.Pool {
	return s.pool
}

// Close releases the connection pool.
func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}

type executor interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// getExecutor returns the transaction from the context when one is
// running, otherwise the pool.
func (s *PostgresStorage) getExecutor(ctx context.Context) executor {
	if txFromCtx, ok := tx.FromContext(ctx); ok {
		return txFromCtx
	}
	return s.pool
}

// InsertAppUser stores a new application user row.
func (s *PostgresStorage) InsertAppUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO woosync.app_users (id, email, username, password, app_url, authenticated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := s.getExecutor(ctx).Exec(ctx, query,
		user.ID, user.Email, user.Username, user.Password, user.AppURL,
		user.Authenticated, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert app user: %w", err)
	}
	return nil
}

// InsertWooUser stores a WooCommerce credential record.
func (s *PostgresStorage) InsertWooUser(ctx context.Context, creds *models.WooCredentials) error {
	query := `
		INSERT INTO woosync.woo_users (id, token, secret, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if creds.CreatedAt.IsZero() {
		creds.CreatedAt = time.Now().UTC()
	}

	_, err := s.getExecutor(ctx).Exec(ctx, query, creds.ID, creds.Token, creds.Secret, creds.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert woo user: %w", err)
	}
	return nil
}

// LinkAppUserToWooUser records the link row between the two user records.
func (s *PostgresStorage) LinkAppUserToWooUser(ctx context.Context, appUserID, wooUserID string) error {
	query := `
		INSERT INTO woosync.app_user_to_woo_user (app_user_id, woo_user_id)
		VALUES ($1, $2)
	`

	_, err := s.getExecutor(ctx).Exec(ctx, query, appUserID, wooUserID)
	if err != nil {
		return fmt.Errorf("failed to link app user to woo user: %w", err)
	}
	return nil
}

// GetAppUserByEmail returns the user with the given email, or nil when
// no such user exists.
func (s *PostgresStorage) GetAppUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, username, password, app_url, authenticated, created_at, updated_at
		FROM woosync.app_users
		WHERE email = $1
	`

	var user models.User
	err := s.getExecutor(ctx).QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.Username, &user.Password, &user.AppURL,
		&user.Authenticated, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get app user by email: %w", err)
	}

	return &user, nil
}

// SaveProduct upserts a synchronized catalog product for a user.
func (s *PostgresStorage) SaveProduct(ctx context.Context, userID string, product *models.Product) error {
	query := `
		INSERT INTO woosync.products (user_id, product_id, name, sku, price, stock_quantity, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET
			name = $3,
			sku = $4,
			price = $5,
			stock_quantity = $6,
			images = $7,
			updated_at = $8
	`

	images, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("failed to marshal product images: %w", err)
	}

	_, err = s.getExecutor(ctx).Exec(ctx, query,
		userID, product.ID, product.Name, product.Sku, product.Price,
		product.StockQuantity, images, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// SaveProducts upserts a page of synchronized products.
func (s *PostgresStorage) SaveProducts(ctx context.Context, userID string, products []models.Product) error {
	for i := range products {
		if err := s.SaveProduct(ctx, userID, &products[i]); err != nil {
			return err
		}
	}
	return nil
}

// ListProducts returns one page of a user's synchronized catalog together
// with the total number of products stored for the user.
func (s *PostgresStorage) ListProducts(ctx context.Context, userID string, page, pageSize int) ([]models.Product, int, error) {
	e := s.getExecutor(ctx)

	var total int
	countQuery := `SELECT COUNT(*) FROM woosync.products WHERE user_id = $1`
	if err := e.QueryRow(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	if total == 0 {
		return []models.Product{}, 0, nil
	}

	query := `
		SELECT product_id, name, sku, price, stock_quantity, images
		FROM woosync.products
		WHERE user_id = $1
		ORDER BY product_id
		LIMIT $2 OFFSET $3
	`

	rows, err := e.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0, pageSize)
	for rows.Next() {
		var p models.Product
		var images []byte
		if err := rows.Scan(&p.ID, &p.Name, &p.Sku, &p.Price, &p.StockQuantity, &images); err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		if len(images) > 0 {
			if err := json.Unmarshal(images, &p.Images); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal product images: %w", err)
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate products: %w", err)
	}

	return products, total, nil
}
