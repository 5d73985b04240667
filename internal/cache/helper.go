package cache

import (
	"context"

	"github.com/getsentry/sentry-go"
)

const spanOpCache = "cache"

// startSpan opens a child span for one cache call. It returns nil when the
// context carries no Sentry hub, which is the case whenever Sentry is off.
func startSpan(ctx context.Context, operation, key string) *sentry.Span {
	if sentry.GetHubFromContext(ctx) == nil {
		return nil
	}

	span := sentry.StartSpan(ctx, spanOpCache+"."+operation)
	span.Description = key
	span.SetData("cache.key", key)
	return span
}

// finishSpan records whether a lookup hit and closes the span. Writes pass
// hit as true.
func finishSpan(span *sentry.Span, hit bool) {
	if span == nil {
		return
	}
	span.SetData("cache.hit", hit)
	span.Status = sentry.SpanStatusOK
	span.Finish()
}
