package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"google.golang.org/grpc"
)

// UserService is what the handlers need from services.UserService.
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*services.AuthenticateResponse, error)
	GetAll(ctx context.Context) ([]models.Profile, error)
	GetByID(ctx context.Context, id int) (models.Profile, error)
}

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

type Authorizer interface {
	Check(policy string, claims *auth.Claims) (bool, error)
	Require(policies ...string) error
}

// methodPolicies maps protected methods to the policy a caller must satisfy.
// Methods not listed are anonymous.
var methodPolicies = map[string]string{
	MethodGetAll:  auth.PolicyAdmin,
	MethodGetByID: auth.PolicyUser,
}

type GRPCServer struct {
	address    string
	users      UserService
	validator  TokenValidator
	authorizer Authorizer
	logger     logging.Logger
}

// NewGRPCServer fails if a policy referenced by a protected method is not
// registered with authorizer.
func NewGRPCServer(a string, l logging.Logger, us UserService, v TokenValidator, az Authorizer) (*GRPCServer, error) {
	for _, policy := range methodPolicies {
		if err := az.Require(policy); err != nil {
			return nil, err
		}
	}

	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		users:      us,
		validator:  v,
		authorizer: az,
	}, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))

	RegisterUsersServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
