package rootservice

import (
	"context"

	"google.golang.org/grpc"
)

// ProtocolVersion is bumped whenever a message below changes shape.
const ProtocolVersion = 1

const (
	serviceName      = "rootbroker.v1.RootService"
	methodPing       = "/" + serviceName + "/Ping"
	methodListUsers  = "/" + serviceName + "/ListUsers"
	methodDeletePath = "/" + serviceName + "/DeletePath"
	methodReadFile   = "/" + serviceName + "/ReadFile"
	methodWriteFile  = "/" + serviceName + "/WriteFile"
)

type Empty struct{}

type PingResponse struct {
	Version int `msgpack:"version"`
	UID     int `msgpack:"uid"`
	PID     int `msgpack:"pid"`
}

type User struct {
	ID   int    `msgpack:"id"`
	Name string `msgpack:"name"`
}

type ListUsersResponse struct {
	Users []User `msgpack:"users"`
}

type PathRequest struct {
	Path string `msgpack:"path"`
}

type ReadFileResponse struct {
	Data []byte `msgpack:"data"`
}

type WriteFileRequest struct {
	Path string `msgpack:"path"`
	Data []byte `msgpack:"data"`
	Mode uint32 `msgpack:"mode"`
}

// RootServiceServer is the privileged side of the socket.
type RootServiceServer interface {
	Ping(context.Context, *Empty) (*PingResponse, error)
	ListUsers(context.Context, *Empty) (*ListUsersResponse, error)
	DeletePath(context.Context, *PathRequest) (*Empty, error)
	ReadFile(context.Context, *PathRequest) (*ReadFileResponse, error)
	WriteFile(context.Context, *WriteFileRequest) (*Empty, error)
}

func RegisterRootServiceServer(s grpc.ServiceRegistrar, srv RootServiceServer) {
	s.RegisterService(&rootServiceDesc, srv)
}

var rootServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*RootServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "ListUsers", Handler: listUsersHandler},
		{MethodName: "DeletePath", Handler: deletePathHandler},
		{MethodName: "ReadFile", Handler: readFileHandler},
		{MethodName: "WriteFile", Handler: writeFileHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rootservice",
}

func unary[Req any, Resp any](method string, call func(RootServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RootServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(RootServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	pingHandler       = unary(methodPing, RootServiceServer.Ping)
	listUsersHandler  = unary(methodListUsers, RootServiceServer.ListUsers)
	deletePathHandler = unary(methodDeletePath, RootServiceServer.DeletePath)
	readFileHandler   = unary(methodReadFile, RootServiceServer.ReadFile)
	writeFileHandler  = unary(methodWriteFile, RootServiceServer.WriteFile)
)

type rootServiceClient struct {
	cc grpc.ClientConnInterface
}

func (c *rootServiceClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.cc.Invoke(ctx, methodPing, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rootServiceClient) ListUsers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	out := new(ListUsersResponse)
	if err := c.cc.Invoke(ctx, methodListUsers, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rootServiceClient) DeletePath(ctx context.Context, in *PathRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, methodDeletePath, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rootServiceClient) ReadFile(ctx context.Context, in *PathRequest, opts ...grpc.CallOption) (*ReadFileResponse, error) {
	out := new(ReadFileResponse)
	if err := c.cc.Invoke(ctx, methodReadFile, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rootServiceClient) WriteFile(ctx context.Context, in *WriteFileRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, methodWriteFile, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
