package config

import (
	"testing"
	"time"

	"github.com/Netflix/go-env"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	var cfg Config
	err := env.Unmarshal(env.EnvSet{}, &cfg)
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 72*time.Hour, cfg.JWTTTL)
	require.Equal(t, 5*time.Minute, cfg.OTPTTL)
	require.Equal(t, 5, cfg.OTPMaxAttempts)
	require.False(t, cfg.OTPEchoCode)
	require.Equal(t, time.Second, cfg.ChatReplyDelay)
	require.Equal(t, "organconnect", cfg.MongoDatabase)
}

func TestConfig_Overrides(t *testing.T) {
	var cfg Config
	err := env.Unmarshal(env.EnvSet{
		"PORT":             "9000",
		"OTP_ECHO_CODE":    "true",
		"CHAT_REPLY_DELAY": "250ms",
		"ENV":              "production",
	}, &cfg)
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.Port)
	require.True(t, cfg.OTPEchoCode)
	require.Equal(t, 250*time.Millisecond, cfg.ChatReplyDelay)
	require.True(t, cfg.IsProduction())
}
