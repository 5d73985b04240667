package testutil

import (
	"context"

	"github.com/flexprice/milkbill/internal/cache"
	"github.com/flexprice/milkbill/internal/config"
	"github.com/flexprice/milkbill/internal/logger"
	"github.com/flexprice/milkbill/internal/sentry"
	"github.com/flexprice/milkbill/internal/types"
	"github.com/stretchr/testify/suite"
)

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	config *config.Configuration
	logger *logger.Logger
	cache  *cache.InMemoryCache
	sentry *sentry.Service
	s3     *MockS3Service
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	s.logger = logger.NewNopLogger()
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.config = config.GetDefaultConfig()
	s.config.Logging.Level = types.LogLevelDebug
	s.sentry = sentry.NewSentryService(s.config, s.logger)
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
	s.s3 = NewMockS3Service()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration, rebuilt before every test
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetCache returns the per-test document cache
func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

// GetSentry returns a disabled sentry service
func (s *BaseServiceTestSuite) GetSentry() *sentry.Service {
	return s.sentry
}

// GetS3 returns the per-test S3 mock
func (s *BaseServiceTestSuite) GetS3() *MockS3Service {
	return s.s3
}
