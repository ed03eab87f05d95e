package testutil

import (
	"context"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// SetupContext returns a context carrying a request ID and analysis run ID
// the way the middleware and orchestrator would set them.
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST))
	ctx = types.SetAnalysisRunID(ctx, types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ANALYSIS_RUN))
	return ctx
}
