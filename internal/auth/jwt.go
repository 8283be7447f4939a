package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gatedlife/community-server/internal/config"
	"github.com/gatedlife/community-server/pkg/crypto"
)

// JWTManager manages JWT tokens
type JWTManager struct {
	config *config.JWTConfig
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.JWTConfig) *JWTManager {
	return &JWTManager{
		config: cfg,
	}
}

// Claims represents JWT claims carrying the resolved principal.
type Claims struct {
	jwt.RegisteredClaims
	UserID      int64         `json:"user_id"`
	Type        PrincipalType `json:"type"`
	CommunityID *int64        `json:"community_id,omitempty"`
}

// Principal returns the typed principal the claims describe.
func (c *Claims) Principal() Principal {
	return Principal{
		ID:          c.UserID,
		Type:        c.Type,
		CommunityID: c.CommunityID,
	}
}

// GenerateTokenPair generates access and refresh tokens for a principal.
// Refresh tokens carry the full principal so refresh does not require a
// directory lookup.
func (m *JWTManager) GenerateTokenPair(p Principal) (string, string, error) {
	now := time.Now()

	accessClaims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "community-server",
		},
		UserID:      p.ID,
		Type:        p.Type,
		CommunityID: p.CommunityID,
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	refreshClaims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.RefreshTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "community-server",
			ID:        uuid.New().String(),
		},
		UserID:      p.ID,
		Type:        p.Type,
		CommunityID: p.CommunityID,
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(m.config.Secret))
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}

	return accessTokenString, refreshTokenString, nil
}

// ValidateToken validates a token
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.config.Secret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if !claims.Type.Valid() {
		return nil, fmt.Errorf("unknown principal type %q", claims.Type)
	}

	return claims, nil
}

// RefreshToken issues a new token pair from a valid refresh token.
func (m *JWTManager) RefreshToken(refreshTokenString string) (string, string, error) {
	claims, err := m.ValidateToken(refreshTokenString)
	if err != nil {
		return "", "", err
	}

	return m.GenerateTokenPair(claims.Principal())
}

// VerifyPassword verifies a password against a hash
func (m *JWTManager) VerifyPassword(password, hash string) bool {
	return crypto.VerifyPassword(password, hash)
}
