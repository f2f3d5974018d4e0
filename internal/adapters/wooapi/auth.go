package wooapi

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrMalformedCredential is returned when a transport credential string is
// not a "token|secret" pair.
var ErrMalformedCredential = errors.New("credential is not a token|secret pair")

// Credential is a WooCommerce consumer key/secret pair. It is constructed
// per call and never persisted by this package.
type Credential struct {
	Token  string
	Secret string
}

// ParseCredential splits the "token|secret" transport form used by the
// sign-up request into a Credential.
func ParseCredential(s string) (Credential, error) {
	token, secret, ok := strings.Cut(s, "|")
	if !ok || token == "" || secret == "" {
		return Credential{}, ErrMalformedCredential
	}
	return Credential{Token: token, Secret: secret}, nil
}

// BasicAuthHeader encodes the credential into an RFC 7617 Basic
// authorization header value.
func (c Credential) BasicAuthHeader() string {
	return BasicAuthHeader(c.Token, c.Secret)
}

// BasicAuthHeader builds a Basic authorization header value from a
// token/secret pair.
func BasicAuthHeader(token, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(token+":"+secret))
}
