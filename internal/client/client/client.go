// Package client talks to the userauth gRPC service on behalf of the
// command-line client. After Login the access token is attached to every
// call.
package client

import (
	"context"

	"github.com/dmitrijs2005/userauth/internal/server/models"
)

type Client interface {
	Close() error
	Login(ctx context.Context, username string, password []byte) (models.Profile, error)
	ListUsers(ctx context.Context) ([]models.Profile, error)
	GetUser(ctx context.Context, id int) (models.Profile, error)
}
