package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faktura/internal/config"
	"faktura/internal/logger"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := logger.New(config.LogConfig{Level: "INFO", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
