package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBaseURL(t *testing.T) {
	tests := []struct {
		name       string
		candidates []string
		want       string
	}{
		{"explicit override wins", []string{"http://router:9000/", "http://public:8000"}, "http://router:9000"},
		{"public default", []string{"", "http://public:8000"}, "http://public:8000"},
		{"blank candidates", []string{"  ", ""}, DefaultBaseURL},
		{"no candidates", nil, DefaultBaseURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveBaseURL(tt.candidates...))
		})
	}
}

func clearBackendEnv(t *testing.T) {
	for _, k := range []string{"BACKEND_BASE_URL", "AGENTICLABS_API_BASE_URL", "BACKEND_PUBLIC_BASE_URL", "NEXT_PUBLIC_API_BASE_URL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigBaseURLChain(t *testing.T) {
	t.Run("literal default", func(t *testing.T) {
		clearBackendEnv(t)
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, DefaultBaseURL, cfg.Backend.ResolvedBaseURL)
	})

	t.Run("public env", func(t *testing.T) {
		clearBackendEnv(t)
		t.Setenv("NEXT_PUBLIC_API_BASE_URL", "http://localhost:8000/")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8000", cfg.Backend.ResolvedBaseURL)
	})

	t.Run("legacy override beats public", func(t *testing.T) {
		clearBackendEnv(t)
		t.Setenv("NEXT_PUBLIC_API_BASE_URL", "http://localhost:8000")
		t.Setenv("AGENTICLABS_API_BASE_URL", "http://router.internal:8000")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "http://router.internal:8000", cfg.Backend.ResolvedBaseURL)
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	clearBackendEnv(t)
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "router-playground", cfg.Backend.AgentID)
	assert.Equal(t, "memory", cfg.Session.Store)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(LoggerConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)

	_, err = NewLogger(LoggerConfig{Level: "loud"})
	require.Error(t, err)

	_, err = NewLogger(LoggerConfig{Level: "info", Format: "xml"})
	require.Error(t, err)
}

func TestSessionViewKey(t *testing.T) {
	assert.Equal(t, "agenticlabs:console:session:abc:logs", SessionViewKey("abc", "logs"))
}
