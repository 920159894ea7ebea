package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"redcreativa/internal/logger"
	"redcreativa/internal/models/db_models"
	"redcreativa/internal/services"
	"redcreativa/pkg/utils"
)

const (
	authContextKey = "auth_context"
	ClientIDHeader = "X-Client-ID"
)

type ClientCookie struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

func clientID(c *gin.Context, cookie ClientCookie) string {
	if id := c.GetHeader(ClientIDHeader); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	if id, err := c.Cookie(cookie.Name); err == nil {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}

	id := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, id, int(cookie.MaxAge.Seconds()), "/", "", cookie.Secure, true)
	return id
}

// AuthContextMiddleware attaches the client's AuthContext to the request and
// bootstraps it, with the bearer token when one is sent. Bootstrap failures
// leave the request anonymous.
func AuthContextMiddleware(registry *services.AuthContextRegistry, cookie ClientCookie) gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx := registry.Get(clientID(c, cookie))
		if err := authCtx.Bootstrap(c.Request.Context(), bearerToken(c)); err != nil {
			logger.Warn("auth bootstrap failed",
				zap.String("client_id", authCtx.ClientID()),
				zap.String("trace_id", c.GetString("trace_id")),
				zap.Error(err))
		}

		c.Set(authContextKey, authCtx)
		if user := authCtx.User(); user != nil {
			c.Set("user_id", user.ID.String())
		}
		c.Next()
	}
}

func GetAuthContext(c *gin.Context) *services.AuthContext {
	v, ok := c.Get(authContextKey)
	if !ok {
		return nil
	}
	authCtx, _ := v.(*services.AuthContext)
	return authCtx
}

// CurrentUser returns the signed in or demo user.
func CurrentUser(c *gin.Context) (*db_models.Profile, bool) {
	authCtx := GetAuthContext(c)
	if authCtx == nil {
		return nil, false
	}
	user := authCtx.User()
	return user, user != nil
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			utils.HandleServiceError(c, utils.ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RequireWritable rejects demo sessions on mutating routes.
func RequireWritable() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx := GetAuthContext(c)
		if authCtx != nil && authCtx.IsDemo() {
			utils.HandleServiceError(c, utils.ErrDemoReadOnly)
			return
		}
		c.Next()
	}
}

func RequireActiveSubscription() gin.HandlerFunc {
	return func(c *gin.Context) {
		authCtx := GetAuthContext(c)
		if authCtx == nil || !authCtx.HasActiveSubscription() {
			utils.HandleServiceError(c, utils.ErrSubscriptionRequired)
			return
		}
		c.Next()
	}
}
