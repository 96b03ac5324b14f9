package privy

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAppId = "test-app"

func newTestKey(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(pemBytes)
}

func newTestClient(t *testing.T, verificationKey, baseUrl string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		AppId:           testAppId,
		AppSecret:       "test-secret",
		VerificationKey: verificationKey,
		BaseUrl:         baseUrl,
	})
	require.NoError(t, err)
	return client
}

func signToken(t *testing.T, key *ecdsa.PrivateKey, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{testAppId},
		Subject:   "did:privy:subject",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestNewClientRejectsBadVerificationKey(t *testing.T) {
	_, err := NewClient(Config{AppId: testAppId, VerificationKey: "not a pem"})
	require.Error(t, err)
}

func TestVerifyAuthTokenReturnsSubject(t *testing.T) {
	key, pemKey := newTestKey(t)
	client := newTestClient(t, pemKey, "")

	subjectId, err := client.VerifyAuthToken(context.Background(), signToken(t, key, validClaims()))

	require.NoError(t, err)
	assert.Equal(t, "did:privy:subject", subjectId)
}

func TestVerifyAuthTokenRejections(t *testing.T) {
	key, pemKey := newTestKey(t)
	otherKey, _ := newTestKey(t)
	client := newTestClient(t, pemKey, "")

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongIssuer := validClaims()
	wrongIssuer.Issuer = "not-privy.io"

	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"other-app"}

	noSubject := validClaims()
	noSubject.Subject = ""

	tokens := map[string]string{
		"garbage":        "not-a-jwt",
		"expired":        signToken(t, key, expired),
		"wrong issuer":   signToken(t, key, wrongIssuer),
		"wrong audience": signToken(t, key, wrongAudience),
		"no subject":     signToken(t, key, noSubject),
		"wrong key":      signToken(t, otherKey, validClaims()),
	}

	for name, token := range tokens {
		_, err := client.VerifyAuthToken(context.Background(), token)
		assert.Error(t, err, name)
	}
}

func TestUserProfileExtractsLinkedAccounts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, testAppId, username)
		assert.Equal(t, "test-secret", password)
		assert.Equal(t, testAppId, r.Header.Get("privy-app-id"))
		assert.Equal(t, "/api/v1/users/did:privy:subject", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "did:privy:subject",
			"linked_accounts": [
				{"type": "email", "address": "u@x.com"},
				{"type": "wallet", "address": "0x1"}
			]
		}`))
	}))
	defer server.Close()

	_, pemKey := newTestKey(t)
	client := newTestClient(t, pemKey, server.URL)

	profile, err := client.UserProfile(context.Background(), "did:privy:subject")

	require.NoError(t, err)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "u@x.com", *profile.Email)
	require.NotNil(t, profile.WalletAddress)
	assert.Equal(t, "0x1", *profile.WalletAddress)
}

func TestUserProfileWithoutEmailAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "did:privy:subject",
			"linked_accounts": [{"type": "wallet", "address": "0x1"}]
		}`))
	}))
	defer server.Close()

	_, pemKey := newTestKey(t)
	client := newTestClient(t, pemKey, server.URL)

	profile, err := client.UserProfile(context.Background(), "did:privy:subject")

	require.NoError(t, err)
	assert.Nil(t, profile.Email)
	require.NotNil(t, profile.WalletAddress)
	assert.Equal(t, "0x1", *profile.WalletAddress)
}

func TestUserProfileFailsOnErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, pemKey := newTestKey(t)
	client := newTestClient(t, pemKey, server.URL)

	_, err := client.UserProfile(context.Background(), "did:privy:missing")

	require.Error(t, err)
}
