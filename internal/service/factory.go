package service

import (
	"github.com/flexprice/milkbill/internal/cache"
	"github.com/flexprice/milkbill/internal/config"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/flexprice/milkbill/internal/s3"
	"github.com/flexprice/milkbill/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache
	// S3 is nil when document storage is disabled
	S3     s3.Service
	Sentry *sentry.Service
}

// NewServiceParams creates a new ServiceParams instance
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	s3 s3.Service,
	sentry *sentry.Service,
) ServiceParams {
	return ServiceParams{
		Logger: logger,
		Config: config,
		Cache:  cache,
		S3:     s3,
		Sentry: sentry,
	}
}
