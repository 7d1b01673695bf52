package grpc

import (
	"catalog/domain"
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const CategoryServiceName = "catalog.v1.CategoryService"

// CategoryServiceServer is the read side of the category service. Messages are
// protobuf well-known types carrying the transformed category mappings.
type CategoryServiceServer interface {
	ListCategories(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	ShowCategory(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
}

func RegisterCategoryServiceServer(s grpc.ServiceRegistrar, srv CategoryServiceServer) {
	s.RegisterService(&categoryServiceDesc, srv)
}

var categoryServiceDesc = grpc.ServiceDesc{
	ServiceName: CategoryServiceName,
	HandlerType: (*CategoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCategories", Handler: listCategoriesHandler},
		{MethodName: "ShowCategory", Handler: showCategoryHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/category.proto",
}

func listCategoriesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CategoryServiceServer).ListCategories(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + CategoryServiceName + "/ListCategories",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CategoryServiceServer).ListCategories(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func showCategoryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.Int64Value)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CategoryServiceServer).ShowCategory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + CategoryServiceName + "/ShowCategory",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(CategoryServiceServer).ShowCategory(ctx, req.(*wrapperspb.Int64Value))
	}
	return interceptor(ctx, in, info, handler)
}

type CategoryReader interface {
	List(ctx context.Context) ([]map[string]any, error)
	Show(ctx context.Context, id int64) (map[string]any, error)
}

type CategoryService struct {
	categories CategoryReader
}

func NewCategoryService(categories CategoryReader) *CategoryService {
	return &CategoryService{
		categories: categories,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, s.mapError(err)
	}

	values := make([]interface{}, 0, len(categories))
	for _, category := range categories {
		values = append(values, category)
	}

	list, err := structpb.NewList(values)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode categories")
	}
	return list, nil
}

func (s *CategoryService) ShowCategory(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "category id must be positive")
	}

	category, err := s.categories.Show(ctx, req.GetValue())
	if err != nil {
		return nil, s.mapError(err)
	}

	out, err := structpb.NewStruct(category)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode category")
	}
	return out, nil
}

func (s *CategoryService) mapError(err error) error {
	if errors.Is(err, domain.ErrCategoryNotFound) {
		return status.Error(codes.NotFound, "category not found")
	}
	return status.Error(codes.Internal, "internal error")
}
