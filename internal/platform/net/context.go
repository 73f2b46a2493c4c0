// Package net holds request scoped context values shared by transports
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const keyBatchID ctxKey = "batch_id"

// WithRequestID stores reqID where chimw.GetReqID finds it
func WithRequestID(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// WithBatchID tags the context with the id of the enrichment batch being processed
func WithBatchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, keyBatchID, id)
}

// BatchID returns the batch id on the context if present
func BatchID(ctx context.Context) string {
	if v, ok := ctx.Value(keyBatchID).(string); ok {
		return v
	}
	return ""
}
