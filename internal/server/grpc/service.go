package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "userauth.UsersService"

const (
	MethodAuthenticate = "/" + ServiceName + "/Authenticate"
	MethodGetAll       = "/" + ServiceName + "/GetAll"
	MethodGetByID      = "/" + ServiceName + "/GetById"
)

// The descriptor and client below follow internal/proto/userauth/users.proto.
// Only well-known Struct messages are used, so no message code is generated.

// UsersServiceServer is the server API. Requests and responses are
// google.protobuf.Struct documents.
type UsersServiceServer interface {
	Authenticate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAll(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetById(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv UsersServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryCall) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UsersServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UsersServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var UsersService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UsersServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Authenticate",
			Handler:    unaryHandler(MethodAuthenticate, UsersServiceServer.Authenticate),
		},
		{
			MethodName: "GetAll",
			Handler:    unaryHandler(MethodGetAll, UsersServiceServer.GetAll),
		},
		{
			MethodName: "GetById",
			Handler:    unaryHandler(MethodGetByID, UsersServiceServer.GetById),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userauth/users.proto",
}

func RegisterUsersServiceServer(s grpc.ServiceRegistrar, srv UsersServiceServer) {
	s.RegisterService(&UsersService_ServiceDesc, srv)
}

// UsersServiceClient is the client API for UsersService.
type UsersServiceClient interface {
	Authenticate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetById(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type usersServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewUsersServiceClient(cc grpc.ClientConnInterface) UsersServiceClient {
	return &usersServiceClient{cc}
}

func (c *usersServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *usersServiceClient) Authenticate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodAuthenticate, in, opts)
}

func (c *usersServiceClient) GetAll(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetAll, in, opts)
}

func (c *usersServiceClient) GetById(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetByID, in, opts)
}
