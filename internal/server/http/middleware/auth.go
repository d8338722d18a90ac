package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/catering/internal/domain/model"
	pkgAuth "github.com/polkiloo/catering/internal/pkg/auth"
)

const (
	// ActorContextKey is a gin context key for the authenticated actor.
	ActorContextKey = "actor"
	authCookieName  = "catering_token"
)

// TokenParser resolves a bearer token into the calling actor.
type TokenParser interface {
	ParseToken(token string) (model.Actor, error)
}

// AuthRequired ensures the caller presents a valid actor token.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		actor, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

// extractToken reads the bearer header, falling back to the cookie that
// browsers send along with EventSource requests.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}
