package app

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Planner/internal/auth"
	"Planner/internal/config"
)

// NewServices only constructs clients, so no server is contacted here.
func TestNewServices_UsesRedisSessions(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Config{Engine: config.EngineConfig{MaxRangeDays: 366, OverlapHorizonDays: 292194}}
	s := NewServices(cfg, nil, rdb)

	require.NotNil(t, s.Sessions)
	assert.IsType(t, &auth.Store{}, s.Sessions)
	assert.Equal(t, 24*time.Hour, s.Sessions.TTL())
}
