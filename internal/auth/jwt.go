package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer        = "strive"
	minSecretSize = 32
)

var ErrWeakSecret = fmt.Errorf("session secret must be at least %d bytes", minSecretSize)

// SessionClaims binds a server-side session id to a signed cookie value.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs session ids with HS256. It satisfies session.TokenCodec.
type TokenCodec struct {
	secret []byte
	now    func() time.Time
}

func NewTokenCodec(secret string) (*TokenCodec, error) {
	if len(secret) < minSecretSize {
		return nil, ErrWeakSecret
	}
	return &TokenCodec{secret: []byte(secret), now: time.Now}, nil
}

func (c *TokenCodec) Encode(sessionID string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

func (c *TokenCodec) Decode(tokenStr string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("invalid session token")
	}
	return claims.ID, nil
}
