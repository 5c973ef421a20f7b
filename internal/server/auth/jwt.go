// Package auth issues and verifies the HS256 bearer credentials used by
// both the REST endpoints and the WebSocket handshake.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/roomchat/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified result of a credential check. All three fields
// are required; a token missing any of them is rejected as invalid rather
// than passed downstream half-populated.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// Claims carries the registered claims plus the identity fields. Username
// travels in the standard "sub" claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

func GenerateToken(identity Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: identity.UserID,
		Role:   identity.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken parses and validates a token string and returns the identity
// it carries.
func VerifyToken(tokenString string, secretKey []byte) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject == "" || claims.UserID == "" || claims.Role == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{UserID: claims.UserID, Username: claims.Subject, Role: claims.Role}, nil
}

// TokenVerifier binds VerifyToken to a secret so callers can depend on a
// narrow credential-checking interface.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

func (v *TokenVerifier) Verify(credential string) (*Identity, error) {
	return VerifyToken(credential, v.secret)
}
