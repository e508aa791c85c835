package database

import (
	"context"
	"testing"

	"plana-backend/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	c := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer c.Close()

	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping failed")
}

func TestNewPostgres_DoesNotDial(t *testing.T) {
	c, err := NewPostgres(config.PostgresConfig{
		Host:           "127.0.0.1",
		Port:           1,
		User:           "plana",
		Database:       "plana",
		SSLMode:        "disable",
		MaxConnections: 2,
		MaxIdle:        1,
	})
	require.NoError(t, err)
	require.NotNil(t, c.DB)
	assert.NoError(t, c.Close())
}
