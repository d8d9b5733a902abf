package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DB handle and owns schema
// setup for the backing store.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	SeedUsers(context.Context, *sql.DB, []models.User) error
	Users(db dbx.DBTX) users.Repository
}
