package testutil

import (
	"context"

	"github.com/flexprice/milkbill/internal/types"
)

// SetupContext returns a background context carrying a fresh request id
func SetupContext() context.Context {
	return types.WithRequestID(context.Background(), types.GenerateRequestID())
}

// CanceledContext returns a request context that is already canceled, used
// to check that rendering and parsing stop early
func CanceledContext() context.Context {
	ctx, cancel := context.WithCancel(SetupContext())
	cancel()
	return ctx
}
