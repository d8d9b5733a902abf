// Package server initializes and runs the application: it selects the user
// directory, builds the hasher, token issuer and policy authorizer, and
// serves them over HTTP and gRPC until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/config"
	"github.com/dmitrijs2005/userauth/internal/server/httpapi"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/userauth/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	issuer      *auth.TokenIssuer
	authorizer  *auth.PolicyAuthorizer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if c.WeakSecret() {
		logger.Warn(ctx, "signing secret is shorter than recommended", "min_length", config.MinSecretKeyLength)
	}

	repo, db, err := openDirectory(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("directory init error: %w", err)
	}

	issuer, err := auth.NewTokenIssuer(auth.IssuerConfig{
		Secret:   []byte(c.SecretKey),
		Validity: c.AccessTokenValidityDuration,
		Issuer:   c.TokenIssuer,
		Leeway:   c.TokenClockLeeway,
	})
	if err != nil {
		closeDB(db)
		return nil, err
	}

	authorizer, err := auth.NewPolicyAuthorizer(auth.DefaultPolicies()...)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	us, err := services.NewUserService(repo, cryptox.NewPasswordHasher(c.PasswordIterations), issuer, logger)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		userService: us,
		issuer:      issuer,
		authorizer:  authorizer,
	}, nil
}

// openDirectory returns the in-memory development directory when no DSN is
// configured, otherwise a migrated PostgreSQL one, seeded only on request. db is nil for the in-memory case.
func openDirectory(ctx context.Context, c *config.Config, logger logging.Logger) (users.Repository, *sql.DB, error) {

	if c.DatabaseDSN == "" {
		seed := users.DevUsers()
		logger.Warn(ctx, "Using in-memory user directory with development users", "users", len(seed))
		repo, err := users.NewMemoryRepository(seed)
		return repo, nil, err
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		closeDB(db)
		return nil, nil, err
	}

	if c.SeedDevUsers {
		logger.Warn(ctx, "Seeding development users into PostgreSQL")
		if err := rm.SeedUsers(ctx, db, users.DevUsers()); err != nil {
			closeDB(db)
			return nil, nil, err
		}
	}

	logger.Info(ctx, "Using PostgreSQL user directory")
	return rm.Users(db), db, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.issuer, app.authorizer)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	if app.config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := httpapi.NewRouter(app.userService, app.issuer, app.authorizer, app.logger)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, router, app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves the enabled transports until ctx is cancelled, a signal
// arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	if app.config.EndpointAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	if app.config.EndpointAddrHTTP != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startHTTPServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	closeDB(app.db)
	app.logger.Info(context.Background(), "App stopped")
}
