package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("STORYBOOK_TEST_HOST", "db.internal")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"已设置的变量", "host: ${STORYBOOK_TEST_HOST}", "host: db.internal"},
		{"已设置的变量忽略默认值", "host: ${STORYBOOK_TEST_HOST:fallback}", "host: db.internal"},
		{"未设置时取默认值", "port: ${STORYBOOK_TEST_PORT:5432}", "port: 5432"},
		{"未设置时允许空默认值", "password: ${STORYBOOK_TEST_PASSWORD:}", "password: "},
		{"未设置且无默认值时保留原样", "key: ${STORYBOOK_TEST_MISSING}", "key: ${STORYBOOK_TEST_MISSING}"},
		{"同一行多个占位符", "${STORYBOOK_TEST_HOST}:${STORYBOOK_TEST_PORT:5432}", "db.internal:5432"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnv(tt.in))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	// 无配置文件时全部走默认值
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "storybook-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, "storybook", cfg.Database.Postgres.Database)
	assert.Equal(t, 10*time.Minute, cfg.Story.CacheTTL)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.True(t, cfg.Observability.Metrics.Enabled)
	assert.False(t, cfg.Security.RateLimit.Enabled)
}
