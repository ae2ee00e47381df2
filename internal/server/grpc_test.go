package server

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/reflection/grpc_reflection_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/waste-estimator/internal/core/pdftext"
)

func dialEstimator(t *testing.T, pages pdftext.PageExtractor, maxBytes int64) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	svc := NewEstimatorService(newProcessor(t, pages), maxBytes, nil)
	srv, _ := NewGRPCServer(svc, maxBytes, nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func estimate(ctx context.Context, conn *grpc.ClientConn, data []byte) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	err := conn.Invoke(ctx, EstimateMethod, wrapperspb.Bytes(data), out)
	return out, err
}

func TestGRPCEstimate(t *testing.T) {
	conn := dialEstimator(t, fakePages{pages: pdftext.Pages{estimatePage}}, 1<<20)

	id := uuid.NewString()
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", id, "x-filename", "job.pdf")
	out, err := estimate(ctx, conn, fakePDF)
	require.NoError(t, err)

	m := out.AsMap()
	assert.Equal(t, true, m["success"])
	assert.Equal(t, id, m["request_id"])
	assert.Equal(t, "job.pdf", m["filename"])
	assert.EqualValues(t, 3, m["total_line_items"])
	assert.EqualValues(t, 2, m["removal_items_found"])
	_, hasPreview := m["raw_text_preview"]
	assert.False(t, hasPreview)

	summary, ok := m["waste_summary"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 154.0, summary["total_weight_lbs"], 1e-9)

	items, ok := m["all_line_items"].([]any)
	require.True(t, ok)
	first := items[0].(map[string]any)
	assert.EqualValues(t, 1, first["line_number"])
}

func TestGRPCEstimate_Errors(t *testing.T) {
	conn := dialEstimator(t, fakePages{}, 64)
	ctx := context.Background()

	_, err := estimate(ctx, conn, nil)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = estimate(ctx, conn, []byte("plain text, not a pdf"))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = estimate(ctx, conn, append(fakePDF, make([]byte, 128)...))
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestGRPCHealth(t *testing.T) {
	conn := dialEstimator(t, fakePages{}, 0)

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: EstimatorServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestGRPCReflectionDescribesEstimator(t *testing.T) {
	conn := dialEstimator(t, fakePages{}, 1<<20)

	stream, err := grpc_reflection_v1.NewServerReflectionClient(conn).ServerReflectionInfo(context.Background())
	require.NoError(t, err)
	require.NoError(t, stream.Send(&grpc_reflection_v1.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1.ServerReflectionRequest_FileContainingSymbol{
			FileContainingSymbol: EstimatorServiceName,
		},
	}))
	resp, err := stream.Recv()
	require.NoError(t, err)
	require.NoError(t, stream.CloseSend())

	files := resp.GetFileDescriptorResponse().GetFileDescriptorProto()
	require.NotEmpty(t, files)
	fdp := new(descriptorpb.FileDescriptorProto)
	require.NoError(t, proto.Unmarshal(files[0], fdp))
	assert.Equal(t, "waste/v1/estimator.proto", fdp.GetName())
	require.Len(t, fdp.GetService(), 1)
	method := fdp.GetService()[0].GetMethod()[0]
	assert.Equal(t, "Estimate", method.GetName())
	assert.Equal(t, ".google.protobuf.BytesValue", method.GetInputType())
	assert.Equal(t, ".google.protobuf.Struct", method.GetOutputType())
}
