package server

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// estimatorProtoFile is the descriptor EstimatorServiceDesc.Metadata names.
// Registering it lets reflection clients describe the service and its method.
const estimatorProtoFile = "waste/v1/estimator.proto"

func init() {
	if err := registerEstimatorFile(protoregistry.GlobalFiles); err != nil {
		panic(err)
	}
}

func estimatorFileProto() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(estimatorProtoFile),
		Package: proto.String("waste.v1"),
		Syntax:  proto.String("proto3"),
		Dependency: []string{
			wrapperspb.File_google_protobuf_wrappers_proto.Path(),
			structpb.File_google_protobuf_struct_proto.Path(),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("EstimatorService"),
			Method: []*descriptorpb.MethodDescriptorProto{{
				Name:       proto.String("Estimate"),
				InputType:  proto.String(".google.protobuf.BytesValue"),
				OutputType: proto.String(".google.protobuf.Struct"),
			}},
		}},
	}
}

func registerEstimatorFile(files *protoregistry.Files) error {
	if _, err := files.FindFileByPath(estimatorProtoFile); err == nil {
		return nil
	}
	fd, err := protodesc.NewFile(estimatorFileProto(), files)
	if err != nil {
		return err
	}
	return files.RegisterFile(fd)
}
