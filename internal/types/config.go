package types

import (
	ierr "github.com/flexprice/milkbill/internal/errors"
	"github.com/samber/lo"
)

// RunMode selects what the server binary starts
type RunMode string

const (
	// ModeLocal runs the API server for development
	ModeLocal RunMode = "local"
	// ModeAPI runs the API server in production
	ModeAPI RunMode = "api"
	// ModeAWSLambdaAPI serves the same routes behind API Gateway
	ModeAWSLambdaAPI RunMode = "aws_lambda_api"
)

func (m RunMode) Validate() error {
	allowed := []RunMode{ModeLocal, ModeAPI, ModeAWSLambdaAPI}
	if !lo.Contains(allowed, m) {
		return ierr.NewErrorf("invalid deployment mode %q", m).
			WithHint("Please provide a valid deployment mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)

func (l LogLevel) Validate() error {
	allowed := []LogLevel{LogLevelDebug, LogLevelInfo}
	if !lo.Contains(allowed, l) {
		return ierr.NewErrorf("invalid log level %q", l).
			WithHint("Log level must be debug or info").
			Mark(ierr.ErrValidation)
	}
	return nil
}
