package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// UserRecordsServiceName is the fully qualified gRPC service name.
const UserRecordsServiceName = "cogit.users.v1.UserRecords"

const (
	registerMethod   = "/" + UserRecordsServiceName + "/Register"
	loginMethod      = "/" + UserRecordsServiceName + "/Login"
	meMethod         = "/" + UserRecordsServiceName + "/Me"
	listUsersMethod  = "/" + UserRecordsServiceName + "/ListUsers"
	deleteUserMethod = "/" + UserRecordsServiceName + "/DeleteUser"
)

// UserRecordsService is the server API. Requests and responses are
// google.protobuf.Struct so the service needs no generated code.
type UserRecordsService interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(UserRecordsService, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call structMethod) grpc.MethodDesc {
	fullMethod := "/" + UserRecordsServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(UserRecordsService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(UserRecordsService), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var userRecordsServiceDesc = grpc.ServiceDesc{
	ServiceName: UserRecordsServiceName,
	HandlerType: (*UserRecordsService)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", UserRecordsService.Register),
		unary("Login", UserRecordsService.Login),
		unary("Me", UserRecordsService.Me),
		unary("ListUsers", UserRecordsService.ListUsers),
		unary("DeleteUser", UserRecordsService.DeleteUser),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cogit/users/v1/user_records.proto",
}

// RegisterUserRecordsServer registers srv on s.
func RegisterUserRecordsServer(s grpc.ServiceRegistrar, srv UserRecordsService) {
	s.RegisterService(&userRecordsServiceDesc, srv)
}

// UserRecordsClient is a thin client for UserRecords.
type UserRecordsClient struct {
	cc grpc.ClientConnInterface
}

func NewUserRecordsClient(cc grpc.ClientConnInterface) *UserRecordsClient {
	return &UserRecordsClient{cc: cc}
}

func (c *UserRecordsClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *UserRecordsClient) Register(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, registerMethod, in, opts...)
}

func (c *UserRecordsClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, loginMethod, in, opts...)
}

func (c *UserRecordsClient) Me(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, meMethod, in, opts...)
}

func (c *UserRecordsClient) ListUsers(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, listUsersMethod, in, opts...)
}

func (c *UserRecordsClient) DeleteUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, deleteUserMethod, in, opts...)
}
