package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/docket/internal/config"
	"github.com/kode4food/docket/pkg/api"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, config.DefaultAPIPort, cfg.APIPort)
	assert.Equal(t, config.DefaultStoreBaseURL, cfg.StoreBaseURL)
	assert.Equal(t, 4500*time.Millisecond, cfg.NoticeTTL)
	assert.Equal(t, config.DefaultCachePrefix, cfg.Cache.Prefix)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("STORE_BASE_URL", "http://records:6080")
	t.Setenv("STORE_TIMEOUT", "15000")
	t.Setenv("CACHE_REDIS_ADDR", "redis:6379")
	t.Setenv("CACHE_REDIS_DB", "3")
	t.Setenv("CACHE_TTL", "60000")
	t.Setenv("NOTICE_TTL", "3000")

	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://records:6080", cfg.StoreBaseURL)
	assert.Equal(t, 15*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
	assert.Equal(t, 3, cfg.Cache.DB)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 3*time.Second, cfg.NoticeTTL)
}

func TestLoadFromEnvBadValues(t *testing.T) {
	t.Setenv("API_PORT", "not-a-port")
	cfg := config.NewDefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())

	t.Setenv("API_PORT", "70000")
	cfg = config.NewDefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())

	t.Setenv("API_PORT", "")
	t.Setenv("NOTICE_TTL", "90000000")
	cfg = config.NewDefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.APIPort = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidAPIPort)

	cfg = config.NewDefaultConfig()
	cfg.StoreBaseURL = "   "
	assert.ErrorIs(t, cfg.Validate(), config.ErrMissingStoreBaseURL)

	cfg = config.NewDefaultConfig()
	cfg.StoreTimeout = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidStoreTimeout)

	cfg = config.NewDefaultConfig()
	cfg.NoticeTTL = -time.Second
	assert.ErrorIs(t, cfg.Validate(), config.ErrInvalidNoticeTTL)
}

func TestDefaultFieldMap(t *testing.T) {
	fields := config.DefaultFieldMap()
	require.NoError(t, fields.Validate())

	assert.Equal(t, api.Name("objectid"), fields.ID)
	assert.Len(t, fields.Roles, len(api.Chain))

	dt := fields.Roles[api.RoleDT]
	assert.Equal(t, api.Name("custody_dt"), dt.Custody)
	assert.Equal(t, api.Name("status_dt_at"), dt.StatusStamp)
	assert.Equal(t, api.Name("reason_dt"), dt.Reason)
}
