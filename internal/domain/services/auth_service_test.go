package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelink/woosync/internal/adapters/logger"
	"github.com/storelink/woosync/internal/security"
)

const defaultStoreURL = "http://localhost:1080"

func newAuthService(storage *fakeStorage, docs *fakeDocStore, gw *fakeGateway) (*AuthService, *security.TokenManager) {
	tokens := security.NewTokenManager("test-secret", time.Hour, "woosync")
	svc := NewAuthService(
		storage, docs, gw, fakeTxManager{}, tokens, logger.NewNopLogger(),
		false, defaultStoreURL,
	)
	return svc, tokens
}

func validSignUp() *SignUpRequest {
	return &SignUpRequest{
		AppURL:               "https://testwebsite.com",
		Email:                "new@email.com",
		Username:             "newuser",
		Password:             "Test123abcjs",
		PasswordConfirmation: "Test123abcjs",
		Token:                "ck_test|cs_test",
	}
}

func TestSignUp(t *testing.T) {
	storage := newFakeStorage()
	docs := newFakeDocStore()
	gw := &fakeGateway{}
	svc, tokens := newAuthService(storage, docs, gw)

	token, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	// Probe hit the configured default store exactly once.
	assert.Equal(t, 1, gw.probeCalls)
	assert.Equal(t, []string{defaultStoreURL}, gw.probedURLs)

	// Relational rows: app user, woo user, link between the two.
	require.Len(t, storage.appUsers, 1)
	require.Len(t, storage.wooUsers, 1)
	require.Len(t, storage.links, 1)

	appUser := storage.appUsers[0]
	assert.Equal(t, "new@email.com", appUser.Email)
	assert.Equal(t, "newuser", appUser.Username)
	assert.True(t, appUser.Authenticated)
	assert.NotEqual(t, "Test123abcjs", appUser.Password, "password must be stored hashed")
	assert.True(t, security.ComparePassword(appUser.Password, "Test123abcjs"))

	assert.Equal(t, "ck_test", storage.wooUsers[0].Token)
	assert.Equal(t, "cs_test", storage.wooUsers[0].Secret)
	assert.Equal(t, [2]string{appUser.ID, storage.wooUsers[0].ID}, storage.links[0])

	// The user document mirrors the identity and credential fields.
	doc, err := docs.GetUserByAttribute(context.Background(), "user_id", appUser.ID)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "https://testwebsite.com", doc.Store.AppURL)
	assert.Equal(t, "ck_test", doc.WooCredentials.Token)
	assert.True(t, doc.Authentication.IsAuthorized)
	assert.False(t, doc.AreProductsSynced)

	// The issued token carries the new user id.
	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, appUser.ID, claims.UserID)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	storage := newFakeStorage()
	docs := newFakeDocStore()
	gw := &fakeGateway{}
	svc, _ := newAuthService(storage, docs, gw)

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	req := validSignUp()
	req.Username = "otheruser"
	_, err = svc.SignUp(context.Background(), req)
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Equal(t, 1, gw.probeCalls, "duplicate must be rejected before probing")
}

func TestSignUpInvalidEmail(t *testing.T) {
	svc, _ := newAuthService(newFakeStorage(), newFakeDocStore(), &fakeGateway{})

	req := validSignUp()
	req.Email = "not-an-email"
	_, err := svc.SignUp(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestSignUpWeakPassword(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newAuthService(newFakeStorage(), newFakeDocStore(), gw)

	for _, password := range []string{"123", "alllowercase1", "ALLUPPERCASE1", "NoDigitsHere"} {
		req := validSignUp()
		req.Password = password
		req.PasswordConfirmation = password
		_, err := svc.SignUp(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidPassword, "password %q", password)
	}
	assert.Zero(t, gw.probeCalls)
}

func TestSignUpPasswordMismatch(t *testing.T) {
	svc, _ := newAuthService(newFakeStorage(), newFakeDocStore(), &fakeGateway{})

	req := validSignUp()
	req.PasswordConfirmation = "Test321abcjs"
	_, err := svc.SignUp(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestSignUpRejectedStoreCredentials(t *testing.T) {
	storage := newFakeStorage()
	docs := newFakeDocStore()
	gw := &fakeGateway{probeErr: assert.AnError}
	svc, _ := newAuthService(storage, docs, gw)

	_, err := svc.SignUp(context.Background(), validSignUp())
	assert.ErrorIs(t, err, ErrInvalidStoreCredentials)
	assert.Empty(t, storage.appUsers, "nothing may be persisted after a failed probe")
	assert.Empty(t, docs.docs)
}

func TestSignUpProductionUsesUserStoreURL(t *testing.T) {
	gw := &fakeGateway{}
	tokens := security.NewTokenManager("test-secret", time.Hour, "woosync")
	svc := NewAuthService(
		newFakeStorage(), newFakeDocStore(), gw, fakeTxManager{}, tokens,
		logger.NewNopLogger(), true, defaultStoreURL,
	)

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	assert.Equal(t, []string{"https://testwebsite.com"}, gw.probedURLs)
}

func TestSignIn(t *testing.T) {
	storage := newFakeStorage()
	docs := newFakeDocStore()
	svc, tokens := newAuthService(storage, docs, &fakeGateway{})

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	for _, login := range []string{"new@email.com", "newuser"} {
		token, err := svc.SignIn(context.Background(), login, "Test123abcjs")
		require.NoError(t, err, "login %q", login)

		claims, err := tokens.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, storage.appUsers[0].ID, claims.UserID)
	}

	doc, err := docs.GetUserByAttribute(context.Background(), "username", "newuser")
	require.NoError(t, err)
	assert.False(t, doc.LastLogin.IsZero(), "last login must be recorded")
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _ := newAuthService(newFakeStorage(), newFakeDocStore(), &fakeGateway{})

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), "new@email.com", "Wrong123abcjs")
	assert.ErrorIs(t, err, ErrInvalidLogin)
}

func TestSignInUnknownUser(t *testing.T) {
	svc, _ := newAuthService(newFakeStorage(), newFakeDocStore(), &fakeGateway{})

	_, err := svc.SignIn(context.Background(), "ghost@email.com", "Test123abcjs")
	assert.ErrorIs(t, err, ErrInvalidLogin)
}
