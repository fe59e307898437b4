package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHuntServiceConfigDefaults(t *testing.T) {
	t.Setenv("HUNT_LISTEN_ADDR", ":5050")
	t.Setenv("REDIS_ADDRS", "redis-a:6379, redis-b:6379")

	cfg, err := LoadHuntServiceConfig()
	require.NoError(t, err)

	assert.Equal(t, 5050, cfg.ServicePort)
	assert.Equal(t, []string{"redis-a:6379", "redis-b:6379"}, cfg.RedisAddrs)
	assert.Equal(t, "mongo", cfg.StoreBackend)
	assert.Equal(t, "local", cfg.MediaBackend)
	assert.Equal(t, "direct", cfg.NotifyMode)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiration)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadHuntServiceConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad listen addr", env: map[string]string{"HUNT_LISTEN_ADDR": "nope"}},
		{name: "unknown store", env: map[string]string{"STORE_BACKEND": "sqlite"}},
		{name: "cloudinary without creds", env: map[string]string{"MEDIA_BACKEND": "cloudinary"}},
		{name: "unknown notify mode", env: map[string]string{"NOTIFY_MODE": "carrier-pigeon"}},
		{name: "prod without secret", env: map[string]string{"ENV": "prod"}},
		{name: "bad duration", env: map[string]string{"SERVICE_HEARTBEAT_TTL": "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadHuntServiceConfig()
			assert.Error(t, err)
		})
	}
}

func TestLoadWorkerConfig(t *testing.T) {
	t.Setenv("HUNT_SERVICE_URL", "http://hunt-api:5000/")
	t.Setenv("SCOREBOARD_SYNC_INTERVAL", "30s")

	cfg, err := LoadWorkerConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://hunt-api:5000", cfg.HuntServiceURL)
	assert.Equal(t, 30*time.Second, cfg.ScoreboardSyncInterval)
}

func TestExtractPort(t *testing.T) {
	tests := []struct {
		addr    string
		want    int
		wantErr bool
	}{
		{addr: ":5000", want: 5000},
		{addr: "0.0.0.0:8081", want: 8081},
		{addr: "localhost", wantErr: true},
		{addr: ":abc", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := extractPort(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
