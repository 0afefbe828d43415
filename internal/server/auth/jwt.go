// Package auth mints and verifies the HS256 session tokens handed out at
// login and presented on protected requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskdesk/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the authenticated principal carried by a session token.
type Identity struct {
	UserID string
	Email  string
}

// Claims holds the registered claims plus the user email and id.
type Claims struct {
	jwt.RegisteredClaims
	Email  string `json:"email"`
	UserID string `json:"id"`
}

// TokenManager signs and verifies session tokens with a process-wide secret.
// Tokens are stateless: validity is signature plus expiry, nothing is stored.
type TokenManager struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenManager refuses an empty secret so tokens are never minted or
// accepted without a signature key.
func NewTokenManager(secretKey string, validity time.Duration) (*TokenManager, error) {
	if secretKey == "" {
		return nil, errors.New("token secret is empty")
	}
	if validity <= 0 {
		return nil, fmt.Errorf("token validity must be positive, got %s", validity)
	}
	return &TokenManager{secret: []byte(secretKey), validity: validity, now: time.Now}, nil
}

// WithClock returns a copy of m that reads the current time from now.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	c := *m
	c.now = now
	return &c
}

// Validity is the lifetime of newly issued tokens.
func (m *TokenManager) Validity() time.Duration {
	return m.validity
}

func (m *TokenManager) GenerateToken(id Identity) (string, error) {
	issued := m.now()
	// exp is encoded in whole seconds; round up so the token never expires
	// before the full validity has elapsed.
	expires := issued.Add(m.validity)
	if t := expires.Truncate(time.Second); !t.Equal(expires) {
		expires = t.Add(time.Second)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
		Email:  id.Email,
		UserID: id.UserID,
	})

	return token.SignedString(m.secret)
}

// ParseToken verifies signature, algorithm and expiry. Expired tokens yield
// common.ErrTokenExpired, every other failure common.ErrInvalidToken.
func (m *TokenManager) ParseToken(tokenString string) (Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, common.ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return Identity{}, common.ErrInvalidToken
	}

	return Identity{UserID: claims.UserID, Email: claims.Email}, nil
}
