package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"lensinspect/internal/domain/entity"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("LENS_CONFIG", "")
	t.Setenv("LENS_BLUR_SIZE", "")
	t.Setenv("LENS_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, entity.DefaultParams(), cfg.Pipeline)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LENS_CONFIG", "")
	t.Setenv("LENS_BLUR_SIZE", "51")
	t.Setenv("LENS_THRESHOLD", "25")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 51, cfg.Pipeline.BlurSize)
	require.Equal(t, 25, cfg.Pipeline.Threshold)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blur_size: 75\nthreshold: 30\n"), 0o644))

	t.Setenv("LENS_CONFIG", path)
	t.Setenv("LENS_BLUR_SIZE", "")
	t.Setenv("LENS_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 75, cfg.Pipeline.BlurSize)
	require.Equal(t, 30, cfg.Pipeline.Threshold)
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blur_size: 75\n"), 0o644))

	t.Setenv("LENS_CONFIG", path)
	t.Setenv("LENS_BLUR_SIZE", "91")
	t.Setenv("LENS_THRESHOLD", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 91, cfg.Pipeline.BlurSize)
}

func TestLoadInvalidEnvValue(t *testing.T) {
	t.Setenv("LENS_CONFIG", "")
	t.Setenv("LENS_BLUR_SIZE", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("LENS_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}
