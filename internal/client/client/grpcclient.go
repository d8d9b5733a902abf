package client

import (
	"context"
	"fmt"
	"math"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	gs "github.com/dmitrijs2005/userauth/internal/server/grpc"
)

type GRPCClient struct {
	conn        *grpc.ClientConn
	client      gs.UsersServiceClient
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpoint; opts are appended to the
// defaults (insecure transport and the access token interceptor).
func NewGRPCClient(endpoint string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = gs.NewUsersServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Login(ctx context.Context, username string, password []byte) (models.Profile, error) {

	req, err := structpb.NewStruct(map[string]any{"username": username, "password": string(password)})
	if err != nil {
		return models.Profile{}, err
	}

	resp, err := s.client.Authenticate(ctx, req)
	if err != nil {
		return models.Profile{}, s.mapError(err)
	}

	token := resp.GetFields()["token"].GetStringValue()
	if token == "" {
		return models.Profile{}, fmt.Errorf("%w: no token", ErrBadResponse)
	}

	p, err := profileFromStruct(resp)
	if err != nil {
		return models.Profile{}, err
	}

	s.accessToken = token
	return p, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]models.Profile, error) {

	resp, err := s.client.GetAll(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err)
	}

	values := resp.GetFields()["users"].GetListValue().GetValues()
	list := make([]models.Profile, 0, len(values))
	for _, v := range values {
		p, err := profileFromStruct(v.GetStructValue())
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

func (s *GRPCClient) GetUser(ctx context.Context, id int) (models.Profile, error) {

	req, err := structpb.NewStruct(map[string]any{"id": id})
	if err != nil {
		return models.Profile{}, err
	}

	resp, err := s.client.GetById(ctx, req)
	if err != nil {
		return models.Profile{}, s.mapError(err)
	}
	return profileFromStruct(resp)
}

func (s *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrForbidden
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return ErrInvalidCredentials
	default:
		return err
	}
}

func profileFromStruct(st *structpb.Struct) (models.Profile, error) {
	f := st.GetFields()

	id := f["id"].GetNumberValue()
	if id != math.Trunc(id) || id <= 0 {
		return models.Profile{}, fmt.Errorf("%w: bad id", ErrBadResponse)
	}

	role, ok := models.ParseRole(f["role"].GetStringValue())
	if !ok {
		return models.Profile{}, fmt.Errorf("%w: bad role", ErrBadResponse)
	}

	return models.Profile{
		ID:        int(id),
		FirstName: f["firstName"].GetStringValue(),
		LastName:  f["lastName"].GetStringValue(),
		Username:  f["username"].GetStringValue(),
		Role:      role,
	}, nil
}
