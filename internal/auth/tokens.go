package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aliasadad-hash/Journeyman/internal/apperr"
)

// Claims carried by a session token. The ID (jti) is the revocation
// handle stored in the sessions collection.
type Claims struct {
	jwt.RegisteredClaims
}

type TokenMaker struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenMaker(secret string, ttl time.Duration) *TokenMaker {
	return &TokenMaker{secret: []byte(secret), ttl: ttl}
}

// Issue signs a session token for the user. jti is the server-side
// session record identifier.
func (m *TokenMaker) Issue(userID, jti string) (string, time.Time, error) {
	expires := time.Now().Add(m.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Verify parses and validates a token, returning the user id and jti.
func (m *TokenMaker) Verify(tokenStr string) (userID, jti string, err error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", "", apperr.ErrUnauthorized
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", "", apperr.ErrUnauthorized
	}
	return claims.Subject, claims.ID, nil
}
