package configs

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)

	// t.Setenv registers restoration; the unset makes the variable truly absent.
	for _, key := range []string{"ENVIRONMENT", "PORT", "ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal("development", cfg.Environment)
	req.True(cfg.IsDevelopment())
	req.Equal(8080, cfg.Port)
}

func TestLoadConfig_Overrides(t *testing.T) {
	req := require.New(t)

	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg, err := LoadConfig()
	req.NoError(err)

	req.Equal("production", cfg.Environment)
	req.False(cfg.IsDevelopment())
	req.Equal(9090, cfg.Port)
	req.Equal([]string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadConfig_RejectsPrivilegedPort(t *testing.T) {
	t.Setenv("PORT", "80")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_RejectsMalformedPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := LoadConfig()
	require.Error(t, err)
}
