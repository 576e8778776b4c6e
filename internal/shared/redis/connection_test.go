package redis

import (
	"context"
	"testing"

	"spaceapp/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_DisabledReturnsNilClient(t *testing.T) {
	client, err := Connect(context.Background(), config.RedisConfig{Enabled: false})

	require.NoError(t, err)
	assert.Nil(t, client)
	assert.NoError(t, client.Close())
	assert.Error(t, client.Ping(context.Background()))
}

func TestConnect_InvalidURL(t *testing.T) {
	_, err := Connect(context.Background(), config.RedisConfig{Enabled: true, URL: "not-a-redis-url"})

	assert.ErrorContains(t, err, "failed to parse Redis URL")
}
