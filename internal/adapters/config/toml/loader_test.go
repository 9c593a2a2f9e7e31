package toml

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/rootbroker/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string, body string) string {
	t.Helper()

	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoaderDefaultsWithoutConfigFile(t *testing.T) {
	t.Parallel()

	loader, err := NewLoader(viper.New(), Options{ConfigDir: t.TempDir()})
	require.NoError(t, err)

	settings, err := loader.Load()
	require.NoError(t, err)

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultOpenTimeout, settings.OpenTimeout)
	assert.Equal(t, domain.DefaultGracePeriod, settings.GracePeriod)
	assert.Equal(t, domain.ElevationSu, settings.Elevation)
	assert.Equal(t, domain.DefaultSuPath, settings.SuPath)
	assert.Equal(t, domain.UserSourceAuto, settings.UserSource)
	assert.Equal(t, domain.ScopedRoots{filepath.Join(homeDir, rootsDir)}, settings.Roots)
	assert.False(t, settings.Debug)
	assert.Empty(t, loader.ConfigFile())
}

func TestLoaderReadsConfigFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, `version = 1
open_timeout = "3s"
grace_period = "500ms"
elevation = "local"
su_path = "/system/xbin/su"
roots = ["/data/backup", "/data/backup/", "/sdcard/DataBackup"]
user_source = "pm"
debug = true
`)

	loader, err := NewLoader(viper.New(), Options{ConfigDir: dir})
	require.NoError(t, err)

	settings, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.Settings{
		OpenTimeout: 3 * time.Second,
		GracePeriod: 500 * time.Millisecond,
		Elevation:   domain.ElevationLocal,
		SuPath:      "/system/xbin/su",
		Roots:       domain.ScopedRoots{"/data/backup", "/sdcard/DataBackup"},
		UserSource:  domain.UserSourcePM,
		Debug:       true,
	}, settings)
	assert.Equal(t, filepath.Join(dir, "config.toml"), loader.ConfigFile())
}

func TestLoaderEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `open_timeout = "3s"
elevation = "su"
`)
	t.Setenv("RB_OPEN_TIMEOUT", "7s")
	t.Setenv("RB_ELEVATION", "local")
	t.Setenv("RB_ROOTS", "/data/a /data/b")

	loader, err := NewLoader(viper.New(), Options{ConfigDir: dir})
	require.NoError(t, err)

	settings, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, 7*time.Second, settings.OpenTimeout)
	assert.Equal(t, domain.ElevationLocal, settings.Elevation)
	assert.Equal(t, domain.ScopedRoots{"/data/a", "/data/b"}, settings.Roots)
}

func TestLoaderRejectsFutureSchemaVersion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "version = 2\n")

	loader, err := NewLoader(viper.New(), Options{ConfigDir: dir})
	require.NoError(t, err)

	_, err = loader.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedVersion)
}

func TestLoaderRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, "open_timout = \"3s\"\n")

	loader, err := NewLoader(viper.New(), Options{ConfigDir: dir})
	require.NoError(t, err)

	_, err = loader.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidSettings)
	assert.ErrorContains(t, err, "open_timout")
}

func TestLoaderRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "duration", body: "open_timeout = \"soon\"\n"},
		{name: "elevation", body: "elevation = \"pkexec\"\n"},
		{name: "relative root", body: "roots = [\"backup\"]\n"},
		{name: "filesystem root", body: "roots = [\"/\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.body)

			loader, err := NewLoader(viper.New(), Options{ConfigDir: dir})
			require.NoError(t, err)

			_, err = loader.Load()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidSettings)
		})
	}
}

func TestLoaderExplicitMissingFileFails(t *testing.T) {
	t.Parallel()

	loader, err := NewLoader(viper.New(), Options{ConfigFile: filepath.Join(t.TempDir(), "missing.toml")})
	require.NoError(t, err)

	_, err = loader.Load()
	require.Error(t, err)
	assert.ErrorContains(t, err, "read config file")
}

func TestEncodeRoundTripsThroughLoader(t *testing.T) {
	t.Parallel()

	want := domain.Settings{
		OpenTimeout: 4 * time.Second,
		GracePeriod: time.Second,
		Elevation:   domain.ElevationLocal,
		SuPath:      "su",
		Roots:       domain.ScopedRoots{"/data/backup"},
		UserSource:  domain.UserSourcePasswd,
	}

	data, err := Encode(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")

	dir := t.TempDir()
	writeConfig(t, dir, string(data))

	loader, err := NewLoader(viper.New(), Options{ConfigDir: dir})
	require.NoError(t, err)

	got, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoaderWatchPublishesChanges(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "open_timeout = \"3s\"\n")

	loader, err := NewLoader(viper.New(), Options{ConfigDir: dir})
	require.NoError(t, err)
	_, err = loader.Load()
	require.NoError(t, err)

	changes := make(chan domain.Settings, 8)
	loader.Watch(func(settings domain.Settings, err error) {
		if err == nil {
			changes <- settings
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("open_timeout = \"9s\"\n"), 0o600))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case settings := <-changes:
			if settings.OpenTimeout == 9*time.Second {
				return
			}
		case <-deadline:
			t.Fatal("config change was not published")
		}
	}
}
