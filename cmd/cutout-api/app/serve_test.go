package app_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slipway-dev/slipway/cmd/cutout-api/app"
	"github.com/slipway-dev/slipway/pkg/api"
)

func TestNewServeCmd_FlagDefaults(t *testing.T) {
	t.Parallel()

	cmd := app.NewServeCmd()

	address, err := cmd.Flags().GetString("address")
	require.NoError(t, err)
	assert.Equal(t, ":8080", address)

	delay, err := cmd.Flags().GetDuration("predict-delay")
	require.NoError(t, err)
	assert.Zero(t, delay)

	maxBytes, err := cmd.Flags().GetInt64("max-image-bytes")
	require.NoError(t, err)
	assert.Equal(t, int64(api.DefaultMaxImageBytes), maxBytes)

	logLevel, err := cmd.Flags().GetString("log-level")
	require.NoError(t, err)
	assert.Equal(t, "info", logLevel)
}
