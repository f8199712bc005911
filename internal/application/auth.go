package application

import "time"

// TokenType tags a token's purpose inside its signed payload, preventing a
// refresh token from being accepted where an access token is expected.
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// DecodeOptions tunes token decoding.
type DecodeOptions struct {
	// SkipClaimsValidation disables expiry checking. Signature
	// verification always runs.
	SkipClaimsValidation bool
}

// AuthSecurity is the credential-hashing and token port consumed by the
// application layer; the infrastructure layer provides the bcrypt + JWT
// implementation.
type AuthSecurity interface {
	HashPassword(password string) (string, error)
	VerifyPassword(plain, hashed string) bool

	// CreateToken copies payload, injects exp (now UTC + expireMinutes)
	// and the type tag, and signs with the process-wide secret.
	CreateToken(payload map[string]any, tokenType TokenType, expireMinutes int) (string, error)

	// DecodeToken verifies signature against key using one of algorithms
	// and returns the claims. Implementations keep elapsed-expiry and
	// structural failures distinguishable through errors.Is-able
	// sentinels.
	DecodeToken(token, key string, opts DecodeOptions, algorithms []string) (map[string]any, error)

	// ParseToken decodes with the process-wide key and algorithm and
	// additionally requires the embedded type tag to match.
	ParseToken(token string, tokenType TokenType) (map[string]any, error)

	// VerifyToken never returns an error; every failure path collapses
	// to false.
	VerifyToken(token string, tokenType TokenType) bool
}

// TokenPair bundles the tokens issued on login/refresh.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}
