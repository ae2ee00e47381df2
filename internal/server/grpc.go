package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/waste-estimator/internal/common"
)

const (
	EstimatorServiceName = "waste.v1.EstimatorService"
	EstimateMethod       = "/" + EstimatorServiceName + "/Estimate"

	// metadataRequestID and metadataFilename are optional request metadata keys.
	metadataRequestID = "x-request-id"
	metadataFilename  = "x-filename"
)

// EstimatorServer takes raw PDF bytes and answers with the estimate payload.
type EstimatorServer interface {
	Estimate(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error)
}

// EstimatorServiceDesc is declared by hand: both messages are well-known types,
// so no generated code is needed. The matching file descriptor is built in
// descriptor.go so reflection can describe the service.
var EstimatorServiceDesc = grpc.ServiceDesc{
	ServiceName: EstimatorServiceName,
	HandlerType: (*EstimatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Estimate", Handler: estimateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: estimatorProtoFile,
}

func estimateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EstimatorServer).Estimate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: EstimateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EstimatorServer).Estimate(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// EstimatorService implements EstimatorServer on top of the document processor.
type EstimatorService struct {
	proc     DocumentProcessor
	maxBytes int64
	logger   *slog.Logger
}

func NewEstimatorService(proc DocumentProcessor, maxBytes int64, logger *slog.Logger) *EstimatorService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EstimatorService{proc: proc, maxBytes: maxBytes, logger: logger}
}

func (s *EstimatorService) Estimate(ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
	data := req.GetValue()
	if len(data) == 0 {
		return nil, common.InvalidArgumentError("document bytes are required")
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, status.Errorf(codes.ResourceExhausted, "document is %d bytes, max %d", len(data), s.maxBytes)
	}

	res, err := s.proc.ProcessDocument(ctx, data)
	if err != nil {
		common.LoggerFromContext(ctx, s.logger).Error("grpc.estimate.failed", "err", err)
		return nil, common.GRPCError(err)
	}

	payload := NewEstimateResponse(common.RequestIDFromContext(ctx), firstMetadata(ctx, metadataFilename), res, 0)
	out, err := toStruct(payload)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

// UnaryRequestContext attaches a request ID (from x-request-id metadata when it
// is a UUID) and a scoped logger, then logs the call outcome.
func UnaryRequestContext(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		id := firstMetadata(ctx, metadataRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		scoped := logger.With("request_id", id)
		ctx = common.WithLogger(common.WithRequestID(ctx, id), scoped)

		start := time.Now()
		resp, err := handler(ctx, req)
		scoped.Info("grpc.request",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}

func firstMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if vals := md.Get(key); len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// NewGRPCServer registers the estimator, the standard health service and
// server reflection.
func NewGRPCServer(svc EstimatorServer, maxBytes int64, logger *slog.Logger) (*grpc.Server, *health.Server) {
	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(UnaryRequestContext(logger))}
	if maxBytes > 0 {
		// leave room for framing around the document bytes
		opts = append(opts, grpc.MaxRecvMsgSize(int(maxBytes)+1<<20))
	}
	srv := grpc.NewServer(opts...)
	srv.RegisterService(&EstimatorServiceDesc, svc)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	// empty string means overall server health
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(EstimatorServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(srv)
	return srv, healthServer
}
