package appctx

import "context"

type contextKey string

const RequestIDContextKey contextKey = "request_id"

// SetRequestID tags the context with the id used to correlate log lines for one message
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

// GetRequestID extracts the request id from the context
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(RequestIDContextKey).(string)
	return requestID, ok && requestID != ""
}

// RequestIDOrEmpty is a logging convenience around GetRequestID
func RequestIDOrEmpty(ctx context.Context) string {
	requestID, _ := GetRequestID(ctx)
	return requestID
}
