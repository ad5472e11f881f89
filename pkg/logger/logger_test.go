package logger_test

import (
	"context"
	"testing"

	"pix-charge.backend/pkg/logger"
)

func TestInitAndLog(t *testing.T) {
	logger.Init("development")
	if logger.GetLogger() == nil {
		t.Fatal("expected logger to be initialized")
	}

	// must not panic with or without a request id
	logger.Info(context.Background(), "plain")
	ctx := context.WithValue(context.Background(), logger.RequestIDKey, "req-1") //nolint:staticcheck
	logger.Info(ctx, "with request id")
	logger.Warn(nil, "nil context") //nolint:staticcheck
}
