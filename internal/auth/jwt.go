// Package auth provides bearer token handling and role checks for the meta API
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "webvella-erp"

// ErrInvalidToken wraps every token validation failure
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the user and the role ids record permissions are checked against
type Claims struct {
	UserID uuid.UUID   `json:"user_id"`
	Roles  []uuid.UUID `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Token is an issued access token
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// JWTService handles JWT operations
type JWTService struct {
	secretKey    []byte
	accessExpiry time.Duration
	now          func() time.Time
}

// NewJWTService creates a new JWT service. An empty secret gets a random one,
// which invalidates every token on restart.
func NewJWTService(secret string, accessExpiry time.Duration) *JWTService {
	if secret == "" {
		secret = generateRandomSecret()
	}
	if accessExpiry <= 0 {
		accessExpiry = 24 * time.Hour
	}
	return &JWTService{
		secretKey:    []byte(secret),
		accessExpiry: accessExpiry,
		now:          time.Now,
	}
}

// GenerateToken signs an access token for the user and roles
func (s *JWTService) GenerateToken(userID uuid.UUID, roles []uuid.UUID) (*Token, error) {
	now := s.now()
	expiresAt := now.Add(s.accessExpiry)

	claims := &Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID.String(),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return &Token{AccessToken: signed, ExpiresAt: expiresAt, TokenType: "Bearer"}, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateRandomSecret() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "webvella-default-secret-" + uuid.New().String()
	}
	return base64.StdEncoding.EncodeToString(bytes)
}
