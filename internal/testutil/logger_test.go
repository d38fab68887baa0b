package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTestLoggerOutlivesTest(t *testing.T) {
	var logger *slog.Logger
	t.Run("owner", func(t *testing.T) {
		logger = NewTestLogger(t)
		logger.Debug("watch loop started", "dirs", 2)
	})

	assert.NotPanics(t, func() {
		logger.Info("watch loop stopped")
	})
}
