package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "user_id"

var errMissingSubject = errors.New("token has no user_id or sub claim")

// Identity parses an optional HS256 bearer token and stores the caller id.
// With an empty secret it does nothing. A present but invalid token is
// rejected; a missing token is left to RequireIdentity.
func Identity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authorization must be a bearer token", nil)
			return
		}
		userID, err := ParseToken(secret, strings.TrimSpace(raw))
		if err != nil {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", err.Error())
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// RequireIdentity rejects requests without a caller id when auth is enabled.
func RequireIdentity(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}
		if _, ok := UserID(c); !ok {
			abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token required", nil)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (string, bool) {
	id := c.GetString(userIDKey)
	return id, id != ""
}

// ParseToken validates an HS256 token and returns its user_id claim, or sub
// when user_id is absent.
func ParseToken(secret, raw string) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if id, ok := claims["user_id"].(string); ok && id != "" {
		return id, nil
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", errMissingSubject
	}
	return sub, nil
}

// SignToken issues an HS256 token for userID. Used by tests and tooling.
func SignToken(secret, userID string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID}).SignedString([]byte(secret))
}
