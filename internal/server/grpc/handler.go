package grpc

import (
	"context"
	"errors"
	"math"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Authenticate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	username := stringField(req, "username")
	password := stringField(req, "password")
	if username == "" || password == "" {
		return nil, status.Error(codes.InvalidArgument, "Username or password is incorrect")
	}

	result, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return nil, status.Error(codes.InvalidArgument, "Username or password is incorrect")
		}
		s.logger.Error(ctx, "authenticate failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	fields := profileFields(result.Profile)
	fields["token"] = result.Token

	return toStruct(fields)
}

func (s *GRPCServer) GetAll(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {

	list, err := s.users.GetAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "list users failed", "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	items := make([]any, 0, len(list))
	for _, p := range list {
		items = append(items, profileFields(p))
	}

	return toStruct(map[string]any{"users": items})
}

func (s *GRPCServer) GetById(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	id, ok := intField(req, "id")
	if !ok {
		return nil, status.Error(codes.NotFound, "User not found")
	}

	p, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			return nil, status.Error(codes.NotFound, "User not found")
		}
		s.logger.Error(ctx, "get user failed", "id", id, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return toStruct(profileFields(p))
}

func profileFields(p models.Profile) map[string]any {
	return map[string]any{
		"id":        p.ID,
		"firstName": p.FirstName,
		"lastName":  p.LastName,
		"username":  p.Username,
		"role":      string(p.Role),
	}
}

func toStruct(fields map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return st, nil
}

func stringField(st *structpb.Struct, name string) string {
	v, ok := st.GetFields()[name]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

// intField reads a whole number; ids travel as JSON numbers.
func intField(st *structpb.Struct, name string) (int, bool) {
	v, ok := st.GetFields()[name]
	if !ok {
		return 0, false
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
