package middleware

import (
	"net/http"
	"strings"

	"github.com/FedyaB/restapi-server-spbstu/internal/apierror"
	"github.com/FedyaB/restapi-server-spbstu/internal/model"
	"github.com/FedyaB/restapi-server-spbstu/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	IdentityKey = "identity"
)

// TokenParser verifies an access token and returns its claims.
// service.AuthService satisfies it.
type TokenParser interface {
	ParseJWT(token string) (*service.IdentityClaims, error)
}

// AuthOptional attaches the identity of a valid Bearer token when one is
// present. Missing or invalid tokens leave the request anonymous.
func AuthOptional(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c, tokens); ok {
			c.Set(IdentityKey, &claims.Key)
		}
		c.Next()
	}
}

// AuthRequired rejects requests without a valid Bearer token with 403.
func AuthRequired(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, tokens)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New(http.StatusForbidden))
			return
		}
		c.Set(IdentityKey, &claims.Key)
		c.Next()
	}
}

func bearerClaims(c *gin.Context, tokens TokenParser) (*service.IdentityClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return nil, false
	}
	claims, err := tokens.ParseJWT(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, false
	}
	return claims, true
}

// GetIdentity returns the authenticated key, or nil for anonymous requests.
func GetIdentity(c *gin.Context) *model.Key {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	key, _ := v.(*model.Key)
	return key
}
