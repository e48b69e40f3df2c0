// Package auth issues and checks the bearer tokens that guard the staff
// dashboard.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const staffSubject = "staff"

var (
	ErrInvalidPIN   = errors.New("invalid staff pin")
	ErrInvalidToken = errors.New("invalid token")
)

// Authenticator exchanges the staff PIN for signed HS256 tokens
type Authenticator struct {
	secret []byte
	pin    string
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthenticator creates an authenticator
func NewAuthenticator(secret, pin string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		pin:    pin,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Login checks pin and returns a token with its expiry
func (a *Authenticator) Login(pin string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(pin), []byte(a.pin)) != 1 {
		return "", time.Time{}, ErrInvalidPIN
	}

	now := a.now()
	expires := now.Add(a.ttl)
	claims := jwt.StandardClaims{
		Subject:   staffSubject,
		IssuedAt:  now.Unix(),
		ExpiresAt: expires.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expires, nil
}

// Verify parses a token and checks signature, algorithm, expiry and subject
func (a *Authenticator) Verify(tokenString string) error {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	if claims.Subject != staffSubject {
		return ErrInvalidToken
	}
	return nil
}

// Middleware rejects requests without a valid "Authorization: Bearer" token
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format, use 'Bearer <token>'"})
			return
		}

		if err := a.Verify(parts[1]); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Next()
	}
}
