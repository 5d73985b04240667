package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID ContextKey = "ctx_request_id"
	CtxBatchID   ContextKey = "ctx_batch_id"

	HeaderRequestID  = "X-Request-ID"
	HeaderDocumentID = "X-Document-ID"
)

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetBatchID(ctx context.Context) string {
	if batchID, ok := ctx.Value(CtxBatchID).(string); ok {
		return batchID
	}
	return ""
}

// WithRequestID returns a copy of ctx carrying the request id
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

// WithBatchID returns a copy of ctx carrying the batch id used in logs
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, CtxBatchID, batchID)
}
