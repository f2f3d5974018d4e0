package models

import "time"

// User represents an application user row in the relational store.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Password      string    `json:"-"` // bcrypt hash, never serialized
	AppURL        string    `json:"app_url"`
	Authenticated bool      `json:"authenticated"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WooCredentials represents the consumer key/secret pair a user supplied
// for their WooCommerce store.
type WooCredentials struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

// Store describes the user's storefront.
type Store struct {
	AppURL string `json:"app_url"`
}

// DocumentCredentials is the credential pair as embedded in the user document.
type DocumentCredentials struct {
	Token  string `json:"token"`
	Secret string `json:"secret"`
}

// Authentication describes how the user was authorized against their store.
type Authentication struct {
	Method       string `json:"method"`
	IsAuthorized bool   `json:"is_authorized"`
}

// UserDocument is the profile/session document kept in the document store.
// It duplicates the identity fields of User so request handling never has
// to touch the relational store.
type UserDocument struct {
	UserID            string              `json:"user_id"`
	Email             string              `json:"email"`
	Username          string              `json:"username"`
	Password          string              `json:"password"` // bcrypt hash
	Store             Store               `json:"store"`
	WooCredentials    DocumentCredentials `json:"woo_credentials"`
	Authentication    Authentication      `json:"authentication"`
	LastLogin         time.Time           `json:"last_login"`
	AreProductsSynced bool                `json:"are_products_synced"`
}
