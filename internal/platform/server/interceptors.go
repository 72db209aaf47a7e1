package server

import (
	"context"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDMetadataKey はリクエスト ID を運ぶメタデータのキーです。
const RequestIDMetadataKey = "x-request-id"

type contextKey string

const requestIDKey contextKey = "request_id"

var validRequestID = regexp.MustCompile(`^[a-zA-Z0-9\-]{1,64}$`)

// RequestIDFromContext はコンテキストからリクエスト ID を取り出します。
func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// UnaryRequestID は受信メタデータのリクエスト ID を引き継ぎ、なければ UUID を発行します。
func UnaryRequestID() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get(RequestIDMetadataKey); len(values) > 0 {
				id = values[0]
			}
		}
		if !validRequestID.MatchString(id) {
			id = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDMetadataKey, id))
		return handler(context.WithValue(ctx, requestIDKey, id), req)
	}
}

// UnaryAccessLog はメソッド・ステータスコード・所要時間を記録します。
func UnaryAccessLog(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)

		event := logger.Info()
		switch code {
		case codes.OK, codes.InvalidArgument, codes.Canceled:
		case codes.Unavailable, codes.DeadlineExceeded:
			event = logger.Warn()
		default:
			event = logger.Error()
		}
		if err != nil {
			event = event.Err(err)
		}
		event.
			Str("request_id", RequestIDFromContext(ctx)).
			Str("method", info.FullMethod).
			Str("code", code.String()).
			Dur("took", time.Since(start)).
			Msg("grpc request")

		return resp, err
	}
}

// UnaryRecovery は panic を Internal エラーに変換します。
func UnaryRecovery(logger zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if rv := recover(); rv != nil {
				logger.Error().
					Str("request_id", RequestIDFromContext(ctx)).
					Str("method", info.FullMethod).
					Interface("panic", rv).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				resp = nil
				err = status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}
