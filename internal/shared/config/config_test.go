package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList("123456789, 987654321;-1003147912587")
	require.NoError(t, err)
	assert.Equal(t, []int64{123456789, 987654321, -1003147912587}, ids)

	ids, err = ParseIDList("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = ParseIDList("12,abc")
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("AUTHORIZED_USERS", "1,2")
	t.Setenv("WORKING_GROUP_ID", "-100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, "polling", cfg.Bot.Mode)
	assert.Equal(t, 4, cfg.Bot.Polling.WorkerPoolSize)
	assert.Equal(t, []int64{1, 2}, cfg.Access.AuthorizedUsers)
	assert.Equal(t, int64(-100), cfg.Access.WorkingGroupID)
	assert.Equal(t, "@SBRipssbot", cfg.Caption.AttributionTag)
	assert.Equal(t, 500*time.Millisecond, cfg.Delivery.PacingDelay)
	assert.Equal(t, time.Duration(0), cfg.Delivery.Timeout)
	assert.Equal(t, time.Minute, cfg.Redis.RateWindow)
}

func TestLoad_Validation(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing token", env: map[string]string{"BOT_TOKEN": ""}},
		{name: "unknown mode", env: map[string]string{"BOT_TOKEN": "t", "BOT_MODE": "carrier-pigeon"}},
		{name: "webhook without url", env: map[string]string{"BOT_TOKEN": "t", "BOT_MODE": "webhook"}},
		{name: "bad id list", env: map[string]string{"BOT_TOKEN": "t", "AUTHORIZED_USERS": "x"}},
		{name: "zero workers", env: map[string]string{"BOT_TOKEN": "t", "BOT_WORKERS": "0"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
