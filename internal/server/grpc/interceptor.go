package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// ClaimsFromContext returns the claims stored by the access token
// interceptor, or nil for anonymous methods.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {

	policy, protected := methodPolicies[info.FullMethod]
	if !protected {
		return handler(ctx, req)
	}

	accessToken := tokenFromMetadata(ctx)
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "Unauthorized")
	}

	claims, err := s.validator.Validate(accessToken)
	if err != nil {
		s.logger.Debug(ctx, "token rejected", "method", info.FullMethod, "reason", err.Error())
		return nil, status.Error(codes.Unauthenticated, "Unauthorized")
	}

	allowed, err := s.authorizer.Check(policy, claims)
	if err != nil {
		s.logger.Error(ctx, "policy check failed", "policy", policy, "error", err)
		return nil, status.Error(codes.Internal, "internal error")
	}
	if !allowed {
		return nil, status.Error(codes.PermissionDenied, "Forbidden")
	}

	ctx = context.WithValue(ctx, claimsKey, claims)

	return handler(ctx, req)
}

// tokenFromMetadata prefers "authorization: Bearer <token>" and falls back
// to the bare access_token key.
func tokenFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	for _, v := range md.Get(common.AuthorizationHeaderName) {
		if len(v) > len(common.BearerPrefix) && strings.EqualFold(v[:len(common.BearerPrefix)], common.BearerPrefix) {
			return strings.TrimSpace(v[len(common.BearerPrefix):])
		}
	}

	if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
		return values[0]
	}

	return ""
}
