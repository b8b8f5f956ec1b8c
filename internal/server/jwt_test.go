package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/config"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func testJWTConfig(ttl time.Duration) *config.JWTConfig {
	return &config.JWTConfig{Secret: testJWTSecret, TTL: ttl, Issuer: config.DefaultJWTIssuer, Leeway: 30 * time.Second}
}

func signClaims(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// validClaims returns claims the service would accept, for tests to spoil.
func validClaims(clientID uuid.UUID, now time.Time) *Claims {
	return &Claims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    config.DefaultJWTIssuer,
			Subject:   clientID.String(),
			Audience:  jwt.ClaimStrings{TokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := NewJWTService(testJWTConfig(24 * time.Hour))
	clientID := uuid.New()

	token, err := service.GenerateToken(clientID)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, clientID, claims.ClientID)
	assert.Equal(t, clientID.String(), claims.Subject)
	assert.Equal(t, config.DefaultJWTIssuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{TokenAudience}, claims.Audience)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)

	other, err := service.GenerateToken(clientID)
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "jti differs within the same second")

	_, err = service.GenerateToken(uuid.Nil)
	assert.Error(t, err)
}

func TestJWTService_TTL(t *testing.T) {
	for _, ttl := range []time.Duration{time.Minute, 90 * time.Minute, 48 * time.Hour} {
		service := NewJWTService(testJWTConfig(ttl))
		token, err := service.GenerateToken(uuid.New())
		require.NoError(t, err)

		claims, err := service.ValidateToken(token)
		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(ttl), claims.ExpiresAt.Time, 5*time.Second, ttl.String())
	}
}

func TestJWTService_ValidateToken_Failures(t *testing.T) {
	service := NewJWTService(testJWTConfig(time.Hour))
	clientID := uuid.New()
	now := time.Now()

	otherCfg := testJWTConfig(time.Hour)
	otherCfg.Secret = "different-secret-key-for-jwt-signing-minimum-32-bytes"
	foreign, err := NewJWTService(otherCfg).GenerateToken(clientID)
	require.NoError(t, err)

	spoil := func(mutate func(*Claims)) string {
		claims := validClaims(clientID, now)
		mutate(claims)
		return signClaims(t, testJWTSecret, claims)
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, validClaims(clientID, now)).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantMsg string
	}{
		{name: "empty", token: "", wantMsg: "empty"},
		{name: "one part", token: "invalid", wantMsg: "malformed"},
		{name: "bad base64", token: "invalid.base64.signature", wantMsg: "malformed"},
		{name: "other secret", token: foreign, wantMsg: "signature"},
		{name: "alg none", token: none, wantMsg: "signature"},
		{name: "expired", token: spoil(func(c *Claims) { c.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour)) }), wantMsg: "expired"},
		{name: "no expiry", token: spoil(func(c *Claims) { c.ExpiresAt = nil }), wantMsg: "required claim"},
		{name: "issued in the future", token: spoil(func(c *Claims) { c.IssuedAt = jwt.NewNumericDate(now.Add(time.Hour)) }), wantMsg: "not valid yet"},
		{name: "wrong issuer", token: spoil(func(c *Claims) { c.Issuer = "someone-else" }), wantMsg: "another service"},
		{name: "wrong audience", token: spoil(func(c *Claims) { c.Audience = jwt.ClaimStrings{"billing"} }), wantMsg: "another service"},
		{name: "no client id", token: spoil(func(c *Claims) { c.ClientID = uuid.Nil }), wantMsg: "client_id"},
		{name: "subject mismatch", token: spoil(func(c *Claims) { c.Subject = uuid.NewString() }), wantMsg: "subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestJWTService_Leeway(t *testing.T) {
	service := NewJWTService(testJWTConfig(time.Hour))
	token, err := service.GenerateToken(uuid.New())
	require.NoError(t, err)

	service.now = func() time.Time { return time.Now().Add(time.Hour + 10*time.Second) }
	_, err = service.ValidateToken(token)
	assert.NoError(t, err, "within leeway")

	service.now = func() time.Time { return time.Now().Add(time.Hour + 2*time.Minute) }
	_, err = service.ValidateToken(token)
	assert.ErrorContains(t, err, "expired")
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := NewJWTService(testJWTConfig(time.Hour))
	clientID := uuid.New()
	token, err := service.GenerateToken(clientID)
	require.NoError(t, err)

	got, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, clientID, got.GetClientID())

	_, err = service.AsTokenValidator().ValidateToken("nope")
	assert.Error(t, err)
}
