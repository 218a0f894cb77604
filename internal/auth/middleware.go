package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	dom "github.com/joaommmadureira/challenges-ignite/internal/domain"
	"github.com/joaommmadureira/challenges-ignite/internal/logging"
	"github.com/joaommmadureira/challenges-ignite/internal/service"
)

// HeaderUsername names the request header carrying the acting user.
const HeaderUsername = "username"

const contextKeyUser = "user"

// UserFinder resolves a user by username.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (dom.User, error)
}

// UserFromContext returns the user set by RequireUser.
func UserFromContext(c *gin.Context) (dom.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}, false
	}
	u, ok := v.(dom.User)
	return u, ok
}

// RequireUser returns a middleware that resolves the username header to a
// user and stores it in context. Unknown users get 404 and the chain stops.
// No secret is checked: knowing a username is enough.
func RequireUser(users UserFinder, log logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		username := c.GetHeader(HeaderUsername)
		user, err := users.FindByUsername(ctx, username)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
				return
			}
			log.Error(ctx, "user lookup failed", "username", username, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(contextKeyUser, user)
		c.Next()
	}
}
