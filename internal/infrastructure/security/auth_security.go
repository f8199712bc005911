package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/rizqidamar/timely/internal/application"
)

// SigningAlgorithm is the fixed algorithm for every token this process
// issues or accepts.
const SigningAlgorithm = "HS256"

var (
	// ErrTokenExpired means the signature checked out but exp elapsed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenMalformed covers every other decode failure: bad signature,
	// unsupported algorithm, corrupt encoding, tampering.
	ErrTokenMalformed = errors.New("invalid token")
)

// AuthSecurity implements password hashing (bcrypt) and signed-token
// issuance/verification (JWT, HS256) on top of process-wide configuration.
type AuthSecurity struct {
	secret []byte
	cost   int
}

var _ application.AuthSecurity = (*AuthSecurity)(nil)

func New(secret string, bcryptCost int) *AuthSecurity {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthSecurity{secret: []byte(secret), cost: bcryptCost}
}

// HashPassword hashes the plaintext with a fresh salt. Equal inputs produce
// different hashes on repeated calls.
func (s *AuthSecurity) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches hashed. Malformed hashes are
// treated as a mismatch rather than an error.
func (s *AuthSecurity) VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// CreateToken signs the payload plus exp and type claims with the
// process-wide secret.
func (s *AuthSecurity) CreateToken(payload map[string]any, tokenType application.TokenType, expireMinutes int) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	exp := time.Now().UTC().Add(time.Duration(expireMinutes) * time.Minute)
	claims["exp"] = jwt.NewNumericDate(exp)
	claims["type"] = string(tokenType)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// DecodeToken verifies the signature against key using one of algorithms and
// returns the claim mapping. Expiry failures and structural failures stay
// distinguishable for callers that want to log the difference; VerifyToken
// collapses both.
func (s *AuthSecurity) DecodeToken(token, key string, opts application.DecodeOptions, algorithms []string) (map[string]any, error) {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods(algorithms)}
	if opts.SkipClaimsValidation {
		parserOpts = append(parserOpts, jwt.WithoutClaimsValidation())
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(key), nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	return claims, nil
}

// ParseToken decodes with the process-wide key and algorithm and requires
// the embedded type tag to match.
func (s *AuthSecurity) ParseToken(token string, tokenType application.TokenType) (map[string]any, error) {
	claims, err := s.DecodeToken(token, string(s.secret), application.DecodeOptions{}, []string{SigningAlgorithm})
	if err != nil {
		return nil, err
	}
	if typ, _ := claims["type"].(string); typ != string(tokenType) {
		return nil, fmt.Errorf("%w: unexpected token type", ErrTokenMalformed)
	}
	return claims, nil
}

// VerifyToken returns true only when signature, expiry, and the embedded
// type tag all check out. It never returns an error.
func (s *AuthSecurity) VerifyToken(token string, tokenType application.TokenType) bool {
	_, err := s.ParseToken(token, tokenType)
	return err == nil
}
