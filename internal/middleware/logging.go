package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// RequestIDHeader carries the id the logging interceptor assigned to a call.
const RequestIDHeader = "X-Request-Id"

// call is what the logging interceptor learns about one RPC. Inner
// interceptors fill in the caller.
type call struct {
	requestID string
	userID    string
}

type callKey struct{}

// GetRequestID returns the request id of the current RPC, if any.
func GetRequestID(ctx context.Context) string {
	if c, ok := ctx.Value(callKey{}).(*call); ok {
		return c.requestID
	}
	return ""
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// Each call gets a fresh request id, echoed back in RequestIDHeader.
// Install it outside the auth interceptor so rejected calls are logged too.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			c := &call{requestID: uuid.NewString()}
			requestID := c.requestID

			resp, err := next(context.WithValue(ctx, callKey{}, c), req)
			if resp != nil {
				resp.Header().Set(RequestIDHeader, requestID)
			}

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"request_id", requestID,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if c.userID != "" {
				attrs = append(attrs, "user_id", c.userID)
			}

			if err != nil {
				var connectErr *connect.Error
				if errors.As(err, &connectErr) {
					connectErr.Meta().Set(RequestIDHeader, requestID)
					if connectErr.Code() == connect.CodeInternal || connectErr.Code() == connect.CodeUnknown {
						logger.ErrorContext(ctx, "RPC error", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
					} else {
						logger.WarnContext(ctx, "RPC error", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
					}
				} else {
					logger.ErrorContext(ctx, "RPC error", append(attrs, "error", err)...)
				}
				return resp, err
			}

			logger.InfoContext(ctx, "RPC ok", attrs...)
			return resp, nil
		}
	}
}
