package types

import "context"

type ContextKey string

const (
	CtxRequestID     ContextKey = "ctx_request_id"
	CtxAnalysisRunID ContextKey = "ctx_analysis_run_id"
)

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxRequestID).(string); ok {
		return id
	}
	return ""
}

func SetAnalysisRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, CtxAnalysisRunID, runID)
}

func GetAnalysisRunID(ctx context.Context) string {
	if id, ok := ctx.Value(CtxAnalysisRunID).(string); ok {
		return id
	}
	return ""
}
