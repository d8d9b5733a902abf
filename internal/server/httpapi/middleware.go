package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context keys used in gin.Context.
const (
	keyClaims = "auth_claims"
	keyLogger = "request_logger"
)

// Outward messages. Token and policy failures never say which check failed.
const (
	msgUnauthorized = "Unauthorized"
	msgForbidden    = "Forbidden"
	msgInternal     = "Internal server error"
)

// requestLogger tags every request with an id (taken from X-Request-ID or
// generated) and logs its outcome.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(common.RequestIDHeaderName)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Header(common.RequestIDHeaderName, requestID)

		l := logger.With("request_id", requestID)
		c.Set(keyLogger, l)

		start := time.Now()
		c.Next()

		l.Info(c.Request.Context(), "request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func loggerFrom(c *gin.Context) logging.Logger {
	if v, ok := c.Get(keyLogger); ok {
		if l, ok := v.(logging.Logger); ok {
			return l
		}
	}
	return logging.NopLogger{}
}

// authenticate validates the bearer token and stores its claims. Every
// failure is answered with the same 401.
func authenticate(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}

		claims, err := validator.Validate(token)
		if err != nil {
			loggerFrom(c).Debug(c.Request.Context(), "token rejected", "reason", err.Error())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthorized})
			return
		}

		c.Set(keyClaims, claims)
		c.Next()
	}
}

// requirePolicy lets the request through only if the stored claims satisfy
// the named policy. Must run after authenticate.
func requirePolicy(authorizer Authorizer, policy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := authorizer.Check(policy, claimsFrom(c))
		if err != nil {
			loggerFrom(c).Error(c.Request.Context(), "policy check failed", "policy", policy, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msgForbidden})
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(keyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func extractBearerToken(r *http.Request) string {
	h := r.Header.Get(common.AuthorizationHeaderName)
	if len(h) <= len(common.BearerPrefix) || !strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(h[len(common.BearerPrefix):])
}
