package persistence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/support-desk/internal/config"
)

func TestNewRedis_Connects(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedis(context.Background(), config.RedisConfig{Addr: mr.Addr()}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(r.Close)

	assert.NoError(t, r.Ping(context.Background()))
}

func TestNewRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedis(context.Background(), config.RedisConfig{Addr: addr}, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestRedis_NilPing(t *testing.T) {
	var r *Redis
	assert.Error(t, r.Ping(context.Background()))
	assert.NotPanics(t, r.Close)
}
