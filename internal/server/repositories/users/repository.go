// Package users provides the user directory: a read-only lookup of user
// records by login or id, backed by memory or PostgreSQL.
package users

import (
	"context"

	"github.com/dmitrijs2005/userauth/internal/server/models"
)

// Repository is the directory consumed by the services. Lookups that find
// nothing return common.ErrorNotFound. Username matching is case-sensitive.
type Repository interface {
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
}
