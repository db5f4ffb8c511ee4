package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigSemArquivoEnv(t *testing.T) {
	// Sem .env no diretório de trabalho, a configuração resolve só com os
	// defaults.
	config, err := NewConfig()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, "debug", config.App.LogLevel)
	assert.Equal(t, "http://meta-ads-mcp:8080/mcp", config.Meta.URL)
	assert.Equal(t, "http://google-ads-mcp:8080/mcp", config.Google.URL)
	assert.Equal(t, 3, config.Bridge.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, config.Bridge.RetryBaseDelay)
}

func TestNewConfigVariavelDeAmbienteSobrepoeDefault(t *testing.T) {
	t.Setenv("BRIDGE_MAX_RETRIES", "5")
	t.Setenv("META_MCP_URL", "http://localhost:9001/mcp")

	config, err := NewConfig()

	require.NoError(t, err)
	assert.Equal(t, 5, config.Bridge.MaxRetries)
	assert.Equal(t, "http://localhost:9001/mcp", config.Meta.URL)
}
