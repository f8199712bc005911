package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/rizqidamar/timely/internal/application"
	"github.com/rizqidamar/timely/internal/infrastructure/security"
)

const testSecret = "test-signing-secret"

func newAuth() *security.AuthSecurity {
	// MinCost keeps the hashing tests fast; production cost comes from config.
	return security.New(testSecret, bcrypt.MinCost)
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "simple password", password: "secret123"},
		{name: "long password", password: "correct horse battery staple with extra length"},
		{name: "unicode password", password: "pässwörd€"},
	}

	auth := newAuth()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := auth.HashPassword(tt.password)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, auth.VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	auth := newAuth()

	h1, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	h2, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "two hashes of the same password must differ")
	assert.True(t, auth.VerifyPassword("secret123", h1))
	assert.True(t, auth.VerifyPassword("secret123", h2))
}

func TestVerifyPasswordRejects(t *testing.T) {
	auth := newAuth()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	assert.False(t, auth.VerifyPassword("wrong-password", hash))
	assert.False(t, auth.VerifyPassword("", hash))
	assert.False(t, auth.VerifyPassword("secret123", "not-a-bcrypt-hash"))
	assert.False(t, auth.VerifyPassword("secret123", ""))
}

func TestCreateTokenRoundTrip(t *testing.T) {
	auth := newAuth()

	token, err := auth.CreateToken(map[string]any{"sub": "user-1", "email": "a@b.com"}, application.TokenAccess, 5)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.DecodeToken(token, testSecret, application.DecodeOptions{}, []string{security.SigningAlgorithm})
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims["sub"])
	assert.Equal(t, "a@b.com", claims["email"])
	assert.Equal(t, string(application.TokenAccess), claims["type"])
	assert.Contains(t, claims, "exp")
}

func TestCreateTokenDoesNotMutatePayload(t *testing.T) {
	auth := newAuth()

	payload := map[string]any{"sub": "user-1"}
	_, err := auth.CreateToken(payload, application.TokenAccess, 5)
	require.NoError(t, err)

	assert.NotContains(t, payload, "exp")
	assert.NotContains(t, payload, "type")
}

func TestTokenExpiry(t *testing.T) {
	auth := newAuth()

	token, err := auth.CreateToken(map[string]any{"sub": "user-1"}, application.TokenAccess, -1)
	require.NoError(t, err)

	_, err = auth.DecodeToken(token, testSecret, application.DecodeOptions{}, []string{security.SigningAlgorithm})
	assert.ErrorIs(t, err, security.ErrTokenExpired)

	assert.False(t, auth.VerifyToken(token, application.TokenAccess))

	// Skipping claims validation still verifies the signature.
	claims, err := auth.DecodeToken(token, testSecret, application.DecodeOptions{SkipClaimsValidation: true}, []string{security.SigningAlgorithm})
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["sub"])
}

func TestTokenTypeIsolation(t *testing.T) {
	auth := newAuth()

	access, err := auth.CreateToken(map[string]any{"sub": "user-1"}, application.TokenAccess, 5)
	require.NoError(t, err)
	refresh, err := auth.CreateToken(map[string]any{"sub": "user-1"}, application.TokenRefresh, 5)
	require.NoError(t, err)

	assert.True(t, auth.VerifyToken(access, application.TokenAccess))
	assert.True(t, auth.VerifyToken(refresh, application.TokenRefresh))

	assert.False(t, auth.VerifyToken(access, application.TokenRefresh))
	assert.False(t, auth.VerifyToken(refresh, application.TokenAccess))
}

func TestDecodeTokenMalformed(t *testing.T) {
	auth := newAuth()
	other := security.New("a-different-secret", bcrypt.MinCost)

	valid, err := auth.CreateToken(map[string]any{"sub": "user-1"}, application.TokenAccess, 5)
	require.NoError(t, err)
	foreign, err := other.CreateToken(map[string]any{"sub": "user-1"}, application.TokenAccess, 5)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		key   string
		algs  []string
	}{
		{name: "garbage", token: "not.a.token", key: testSecret, algs: []string{security.SigningAlgorithm}},
		{name: "empty", token: "", key: testSecret, algs: []string{security.SigningAlgorithm}},
		{name: "wrong key", token: foreign, key: testSecret, algs: []string{security.SigningAlgorithm}},
		{name: "tampered", token: valid + "x", key: testSecret, algs: []string{security.SigningAlgorithm}},
		{name: "unsupported algorithm", token: valid, key: testSecret, algs: []string{"HS512"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.DecodeToken(tt.token, tt.key, application.DecodeOptions{}, tt.algs)
			assert.ErrorIs(t, err, security.ErrTokenMalformed)
			assert.NotErrorIs(t, err, security.ErrTokenExpired)
		})
	}
}

func TestVerifyTokenNeverErrors(t *testing.T) {
	auth := newAuth()

	assert.False(t, auth.VerifyToken("", application.TokenAccess))
	assert.False(t, auth.VerifyToken("garbage", application.TokenAccess))
	assert.False(t, auth.VerifyToken("a.b.c", application.TokenRefresh))
}
