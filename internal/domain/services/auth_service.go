package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/storelink/woosync/internal/domain/models"
	"github.com/storelink/woosync/internal/security"
	"github.com/storelink/woosync/pkg/interfaces"
	"github.com/storelink/woosync/pkg/tx"
)

// Domain errors the API layer maps to HTTP statuses.
var (
	ErrInvalidRequest          = errors.New("invalid request")
	ErrEmailTaken              = errors.New("email already registered")
	ErrInvalidEmail            = errors.New("invalid email")
	ErrInvalidPassword         = errors.New("invalid password")
	ErrInvalidStoreCredentials = errors.New("invalid token or app url")
	ErrInvalidLogin            = errors.New("invalid email or password")
	ErrUserNotFound            = errors.New("user not found")
)

var validate = validator.New()

// SignUpRequest carries the validated signup fields.
type SignUpRequest struct {
	AppURL               string
	Email                string
	Username             string
	Password             string
	PasswordConfirmation string
	Token                string // "consumer_key|consumer_secret"
}

// AuthService implements sign-up and sign-in.
type AuthService struct {
	storage    interfaces.StoragePort
	docs       interfaces.DocumentStorePort
	woo        interfaces.WooGatewayPort
	txManager  tx.Manager
	tokens     *security.TokenManager
	logger     interfaces.LoggerPort
	production bool

	// defaultWooBaseURL overrides the user-supplied store URL outside
	// production, so local runs always probe the stub store.
	defaultWooBaseURL string
}

// NewAuthService creates the authentication service.
func NewAuthService(
	storage interfaces.StoragePort,
	docs interfaces.DocumentStorePort,
	woo interfaces.WooGatewayPort,
	txManager tx.Manager,
	tokens *security.TokenManager,
	logger interfaces.LoggerPort,
	production bool,
	defaultWooBaseURL string,
) *AuthService {
	return &AuthService{
		storage:           storage,
		docs:              docs,
		woo:               woo,
		txManager:         txManager,
		tokens:            tokens,
		logger:            logger,
		production:        production,
		defaultWooBaseURL: defaultWooBaseURL,
	}
}

// resolveStoreBaseURL picks the store URL to talk to. In production the
// user's own store; elsewhere the configured default.
func (s *AuthService) resolveStoreBaseURL(appURL string) string {
	if s.production {
		return appURL
	}
	return s.defaultWooBaseURL
}

// SignUp registers a user: duplicate and format checks, a credential probe
// against the store, relational inserts in one transaction, the user
// document, and finally a signed token.
func (s *AuthService) SignUp(ctx context.Context, req *SignUpRequest) (string, error) {
	if req.Password != req.PasswordConfirmation {
		return "", ErrInvalidRequest
	}

	existing, err := s.storage.GetAppUserByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("failed to check existing email: %w", err)
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	if err := validate.Var(req.Email, "required,email"); err != nil {
		return "", ErrInvalidEmail
	}

	if err := security.ValidatePasswordPolicy(req.Password); err != nil {
		return "", ErrInvalidPassword
	}

	baseURL := s.resolveStoreBaseURL(req.AppURL)
	if err := s.woo.ProbeCredentials(ctx, baseURL, req.Token); err != nil {
		s.logger.WarnWithContext(ctx, "store credential probe failed",
			interfaces.LogField{Key: "app_url", Value: req.AppURL},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
		return "", ErrInvalidStoreCredentials
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	appUserID := uuid.New().String()
	wooUserID := uuid.New().String()

	// The token has already been parsed by the probe; a malformed one
	// cannot reach this point.
	token, secret, _ := splitCredential(req.Token)

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.storage.InsertAppUser(txCtx, &models.User{
			ID:            appUserID,
			Email:         req.Email,
			Username:      req.Username,
			Password:      hashedPassword,
			AppURL:        req.AppURL,
			Authenticated: true,
		}); err != nil {
			return err
		}
		if err := s.storage.InsertWooUser(txCtx, &models.WooCredentials{
			ID:     wooUserID,
			Token:  token,
			Secret: secret,
		}); err != nil {
			return err
		}
		return s.storage.LinkAppUserToWooUser(txCtx, appUserID, wooUserID)
	})
	if err != nil {
		return "", fmt.Errorf("failed to persist user: %w", err)
	}

	if err := s.docs.InsertUser(ctx, &models.UserDocument{
		UserID:   appUserID,
		Email:    req.Email,
		Username: req.Username,
		Password: hashedPassword,
		Store:    models.Store{AppURL: req.AppURL},
		WooCredentials: models.DocumentCredentials{
			Token:  token,
			Secret: secret,
		},
		Authentication: models.Authentication{
			Method:       "woocommerce_api",
			IsAuthorized: true,
		},
		AreProductsSynced: false,
	}); err != nil {
		return "", fmt.Errorf("failed to insert user document: %w", err)
	}

	jwtToken, err := s.tokens.Generate(appUserID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.InfoWithContext(ctx, "user signed up",
		interfaces.LogField{Key: "user_id", Value: appUserID},
	)
	return jwtToken, nil
}

// SignIn authenticates by email or username and issues a token.
func (s *AuthService) SignIn(ctx context.Context, emailOrUsername, password string) (string, error) {
	doc, err := s.docs.GetUserByAttribute(ctx, "email", emailOrUsername)
	if err != nil {
		return "", fmt.Errorf("failed to look up user by email: %w", err)
	}
	if doc == nil {
		doc, err = s.docs.GetUserByAttribute(ctx, "username", emailOrUsername)
		if err != nil {
			return "", fmt.Errorf("failed to look up user by username: %w", err)
		}
	}
	if doc == nil {
		return "", ErrInvalidLogin
	}

	if !security.ComparePassword(doc.Password, password) {
		return "", ErrInvalidLogin
	}

	jwtToken, err := s.tokens.Generate(doc.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.docs.UpdateLastLogin(ctx, doc.UserID, time.Now().UTC()); err != nil {
		s.logger.WarnWithContext(ctx, "failed to update last login",
			interfaces.LogField{Key: "user_id", Value: doc.UserID},
			interfaces.LogField{Key: "error", Value: err.Error()},
		)
	}

	return jwtToken, nil
}

// splitCredential splits the "token|secret" transport form.
func splitCredential(raw string) (token, secret string, ok bool) {
	return strings.Cut(raw, "|")
}
