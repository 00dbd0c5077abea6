package handler

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName は社員管理サービスの完全修飾名です。
const ServiceName = "organizer.v1.EmployeeOrganizer"

// OrganizerServer は EmployeeOrganizer サービスのサーバー側インターフェースです。
// メッセージは全て google.protobuf.Struct で表現します。
type OrganizerServer interface {
	ListEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClearEmployees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartCreate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartEdit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SavePersonal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AdvanceToOfficial(context.Context, *structpb.Struct) (*structpb.Struct, error)
	BackToPersonal(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Finalize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelWizard(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UploadAvatar(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(OrganizerServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// OrganizerServiceDesc は EmployeeOrganizer の grpc.ServiceDesc です。
var OrganizerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OrganizerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ListEmployees", OrganizerServer.ListEmployees),
		unary("GetEmployee", OrganizerServer.GetEmployee),
		unary("DeleteEmployee", OrganizerServer.DeleteEmployee),
		unary("ClearEmployees", OrganizerServer.ClearEmployees),
		unary("StartCreate", OrganizerServer.StartCreate),
		unary("StartEdit", OrganizerServer.StartEdit),
		unary("SavePersonal", OrganizerServer.SavePersonal),
		unary("AdvanceToOfficial", OrganizerServer.AdvanceToOfficial),
		unary("BackToPersonal", OrganizerServer.BackToPersonal),
		unary("Finalize", OrganizerServer.Finalize),
		unary("CancelWizard", OrganizerServer.CancelWizard),
		unary("UploadAvatar", OrganizerServer.UploadAvatar),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "organizer/v1/organizer.proto",
}

// RegisterOrganizerServer は srv を gRPC サーバーへ登録します。
func RegisterOrganizerServer(s grpc.ServiceRegistrar, srv OrganizerServer) {
	s.RegisterService(&OrganizerServiceDesc, srv)
}

// FullMethod は RPC 名から gRPC のメソッドパスを組み立てます。
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

func unary(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(OrganizerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(OrganizerServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}
