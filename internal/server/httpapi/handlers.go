// Package httpapi exposes the user service over HTTP with gin:
//
//	POST /users/authenticate   anonymous
//	GET  /users                policy Admin
//	GET  /users/:id            policy User
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

const (
	msgBadCredentials = "Username or password is incorrect"
	msgUserNotFound   = "User not found"
)

// UserService is what the handlers need from services.UserService.
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*services.AuthenticateResponse, error)
	GetAll(ctx context.Context) ([]models.Profile, error)
	GetByID(ctx context.Context, id int) (models.Profile, error)
}

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Authorizer evaluates named policies.
type Authorizer interface {
	Check(policy string, claims *auth.Claims) (bool, error)
	Require(policies ...string) error
}

type authenticateRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type handler struct {
	users UserService
}

// NewRouter builds the gin engine. Every policy the routes use must be
// registered with authorizer, otherwise construction fails.
func NewRouter(users UserService, validator TokenValidator, authorizer Authorizer, logger logging.Logger) (*gin.Engine, error) {
	if err := authorizer.Require(auth.PolicyAdmin, auth.PolicyUser); err != nil {
		return nil, err
	}

	h := &handler{users: users}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger.With("module", "http_server")))

	g := r.Group("/users")
	g.POST("/authenticate", h.authenticate)
	g.GET("", authenticate(validator), requirePolicy(authorizer, auth.PolicyAdmin), h.getAll)
	g.GET("/:id", authenticate(validator), requirePolicy(authorizer, auth.PolicyUser), h.getByID)

	return r, nil
}

func (h *handler) authenticate(c *gin.Context) {
	var req authenticateRequest
	// A malformed or incomplete body fails the same way as a wrong password.
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msgBadCredentials})
		return
	}

	resp, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgBadCredentials})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *handler) getAll(c *gin.Context) {
	list, err := h.users.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
		return
	}

	profile, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": msgUserNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternal})
		return
	}

	c.JSON(http.StatusOK, profile)
}
