// Package auth mints and verifies the HS256 bearer tokens the backend hands
// to clients after a provider sign-in.
package auth

import (
	"errors"
	"time"

	"github.com/codetrack-app/codetrack/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the registered claims plus the subject user and the
// provider the user signed in through.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"uid"`
	Provider string `json:"provider,omitempty"`
}

// GenerateToken mints a signed bearer token for userID. Each token gets a
// unique JTI so two logins with the same account still produce distinct
// tokens.
func GenerateToken(userID int64, provider string, secretKey []byte, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID:   userID,
		Provider: provider,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies tokenString and returns its claims. Expiry maps to
// common.ErrTokenExpired; any other defect maps to common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
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

	return claims, nil
}

// GenerateSessionKey mints the short opaque session key issued by the
// session endpoint. Same signing scheme, no provider claim.
func GenerateSessionKey(userID int64, secretKey []byte, validity time.Duration) (string, error) {
	return GenerateToken(userID, "", secretKey, validity)
}
