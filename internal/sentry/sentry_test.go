package sentry

import (
	"context"
	"errors"
	"testing"

	"github.com/flexprice/milkbill/internal/config"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledServiceIsNoop(t *testing.T) {
	svc := NewSentryService(config.GetDefaultConfig(), logger.NewNopLogger())
	require.NoError(t, svc.Init())

	ctx := context.Background()
	span, spanCtx := svc.StartSpan(ctx, "render", map[string]interface{}{"invoices": 3})
	assert.Nil(t, span)
	assert.Equal(t, ctx, spanCtx)

	assert.NotPanics(t, func() {
		FinishSpan(span, errors.New("boom"))
		svc.CaptureException(ctx, errors.New("boom"))
		svc.AddBreadcrumb(ctx, "billing", "skipped", nil)
	})
	assert.True(t, svc.Flush(1))
}
