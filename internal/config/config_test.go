package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/auralynx/auralynx/internal/apperr"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(LoadOptions{Getenv: envMap(map[string]string{APIKeyEnv: " secret "})})
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, DefaultBaseURL, cfg.BaseURL)
	require.Equal(t, 120*time.Second, cfg.UploadDeadline())
	require.Equal(t, 180*time.Second, cfg.SubmitDeadline())
	require.Equal(t, 30*time.Second, cfg.PollRequestDeadline())
}

func TestLoadMissingCredential(t *testing.T) {
	t.Parallel()

	_, err := Load(LoadOptions{Getenv: envMap(nil)})
	require.Error(t, err)
	require.Equal(t, apperr.KindMissingCredential, apperr.KindOf(err))
	require.Equal(t, 2, apperr.ExitCode(err))
	require.Contains(t, err.Error(), "AAI_API_KEY")
}

func TestLoadReadsDotenvWhenEnvUnset(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("AAI_API_KEY=from-file\nAAI_BASE_URL=http://127.0.0.1:9999/v2/\n"), 0o600))

	cfg, err := Load(LoadOptions{
		EnvFiles: []string{envFile, filepath.Join(dir, "absent.env")},
		Getenv:   envMap(nil),
	})
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.APIKey)
	require.Equal(t, "http://127.0.0.1:9999/v2", cfg.BaseURL)

	cfg, err = Load(LoadOptions{
		EnvFiles: []string{envFile},
		Getenv:   envMap(map[string]string{APIKeyEnv: "from-env"}),
	})
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.APIKey)
}

func TestLoadMergesYAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://eu.example.test/v2\nupload_timeout: 600\n"), 0o644))

	cfg, err := Load(LoadOptions{Path: path, Explicit: true, Getenv: envMap(map[string]string{APIKeyEnv: "k"})})
	require.NoError(t, err)
	require.Equal(t, "https://eu.example.test/v2", cfg.BaseURL)
	require.Equal(t, 600*time.Second, cfg.UploadDeadline())
	require.Equal(t, 180*time.Second, cfg.SubmitDeadline())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "absent.yaml")
	env := envMap(map[string]string{APIKeyEnv: "k"})

	_, err := Load(LoadOptions{Path: path, Getenv: env})
	require.NoError(t, err)

	_, err = Load(LoadOptions{Path: path, Explicit: true, Getenv: env})
	require.Error(t, err)
	require.Equal(t, apperr.KindConfigInvalid, apperr.KindOf(err))
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "base_url: [unterminated"},
		{name: "bad scheme", content: "base_url: ftp://example.test"},
		{name: "no host", content: "base_url: https://"},
		{name: "zero timeout", content: "poll_request_timeout: 0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(LoadOptions{Path: path, Explicit: true, Getenv: envMap(map[string]string{APIKeyEnv: "k"})})
			require.Error(t, err)
			require.Equal(t, apperr.KindConfigInvalid, apperr.KindOf(err))
			require.Equal(t, 22, apperr.ExitCode(err))
		})
	}
}
