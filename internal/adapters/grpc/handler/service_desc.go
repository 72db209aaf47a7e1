package handler

import (
	"context"

	"google.golang.org/grpc"
)

const (
	// EmployeeDirectoryServiceName は gRPC のサービス名です。
	EmployeeDirectoryServiceName = "employee.v1.EmployeeDirectory"

	listEmployeesFullMethod = "/" + EmployeeDirectoryServiceName + "/ListEmployees"
	listPositionsFullMethod = "/" + EmployeeDirectoryServiceName + "/ListPositions"
)

// EmployeeDirectoryServer は EmployeeDirectory サービスのサーバー側インターフェースです。
type EmployeeDirectoryServer interface {
	ListEmployees(ctx context.Context, req *ListEmployeesRequest) (*ListEmployeesResponse, error)
	ListPositions(ctx context.Context, req *ListPositionsRequest) (*ListPositionsResponse, error)
}

// EmployeeDirectoryServiceDesc は EmployeeDirectory のサービス定義です。
var EmployeeDirectoryServiceDesc = grpc.ServiceDesc{
	ServiceName: EmployeeDirectoryServiceName,
	HandlerType: (*EmployeeDirectoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListEmployees",
			Handler:    listEmployeesHandler,
		},
		{
			MethodName: "ListPositions",
			Handler:    listPositionsHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "employee/v1/employee_directory",
}

// RegisterEmployeeDirectoryServer は srv を gRPC サーバーへ登録します。
func RegisterEmployeeDirectoryServer(s grpc.ServiceRegistrar, srv EmployeeDirectoryServer) {
	s.RegisterService(&EmployeeDirectoryServiceDesc, srv)
}

func listEmployeesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListEmployeesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EmployeeDirectoryServer).ListEmployees(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listEmployeesFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EmployeeDirectoryServer).ListEmployees(ctx, req.(*ListEmployeesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listPositionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListPositionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EmployeeDirectoryServer).ListPositions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listPositionsFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(EmployeeDirectoryServer).ListPositions(ctx, req.(*ListPositionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// EmployeeDirectoryClient は EmployeeDirectory サービスのクライアントです。
type EmployeeDirectoryClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeDirectoryClient は JSON コーデックで呼び出すクライアントを生成します。
func NewEmployeeDirectoryClient(cc grpc.ClientConnInterface) *EmployeeDirectoryClient {
	return &EmployeeDirectoryClient{cc: cc}
}

// ListEmployees は社員一覧を取得します。
func (c *EmployeeDirectoryClient) ListEmployees(ctx context.Context, in *ListEmployeesRequest, opts ...grpc.CallOption) (*ListEmployeesResponse, error) {
	out := new(ListEmployeesResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	if err := c.cc.Invoke(ctx, listEmployeesFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPositions は役職一覧を取得します。
func (c *EmployeeDirectoryClient) ListPositions(ctx context.Context, in *ListPositionsRequest, opts ...grpc.CallOption) (*ListPositionsResponse, error) {
	out := new(ListPositionsResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	if err := c.cc.Invoke(ctx, listPositionsFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
