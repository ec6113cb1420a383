package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyline93/mman/internal/errors"
	"github.com/skyline93/mman/internal/mman"
	"github.com/skyline93/mman/internal/repository"
)

// isolate makes sure no config file or environment of the user is used.
func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, key := range []string{"OS", "LANG", "ARCH", "RACE_TIMEOUT", "ROOT_SITES", "LOG_LEVEL"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+key))
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, mman.Identity{OS: "fb", Lang: "eng", Arch: "arm64"}, cfg.Identity())
	assert.Equal(t, 10*time.Second, cfg.RaceTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, uint64(2), cfg.MaxRetries)
	assert.Equal(t, repository.ModeHash, cfg.FilenameMode)
	assert.Equal(t, repository.DefaultRootSites, cfg.RootSites)
	assert.Equal(t, repository.DefaultAllowedHosts, cfg.AllowedHosts)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFile(t *testing.T) {
	dir := isolate(t)

	filename := filepath.Join(dir, "mman.toml")
	require.NoError(t, os.WriteFile(filename, []byte(`
lang = "jpn"
race_timeout = 3
http_timeout = "1m"
root_sites = ["https://miketurkey.com"]
`), 0600))

	cfg, err := Load(viper.New(), filename)
	require.NoError(t, err)
	assert.Equal(t, "jpn", cfg.Lang)
	assert.Equal(t, 3*time.Second, cfg.RaceTimeout)
	assert.Equal(t, time.Minute, cfg.HTTPTimeout)
	assert.Equal(t, []string{"https://miketurkey.com"}, cfg.RootSites)
}

func TestLoadDefaultFile(t *testing.T) {
	dir := isolate(t)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mman"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mman", "config.toml"), []byte(`os = "ob"`), 0600))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "enob", cfg.Identity().Suffix())
}

func TestLoadEnv(t *testing.T) {
	isolate(t)
	t.Setenv("MMAN_LANG", "jpn")
	t.Setenv("MMAN_RACE_TIMEOUT", "250ms")
	t.Setenv("MMAN_ROOT_SITES", "https://a.example,https://b.example")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "jpn", cfg.Lang)
	assert.Equal(t, 250*time.Millisecond, cfg.RaceTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.RootSites)
}

func TestLoadInvalid(t *testing.T) {
	dir := isolate(t)

	var tests = []string{
		`lang = "deu"`,
		`filename_mode = "plain"`,
		`race_timeout = "soon"`,
		`race_timeout = 0`,
		`log_level = "chatty"`,
		`root_sites = []`,
	}

	for i, content := range tests {
		filename := filepath.Join(dir, "invalid"+string(rune('a'+i))+".toml")
		require.NoError(t, os.WriteFile(filename, []byte(content), 0600))

		_, err := Load(viper.New(), filename)
		require.Error(t, err, content)
		assert.True(t, errors.Is(err, errors.ErrConfig), "%v: %v", content, err)
	}

	_, err := Load(viper.New(), filepath.Join(dir, "missing.toml"))
	assert.True(t, errors.Is(err, errors.ErrConfig))
}

func TestSetupLogging(t *testing.T) {
	defer func(level log.Level) {
		log.SetLevel(level)
		log.SetOutput(os.Stderr)
	}(log.GetLevel())

	var buf bytes.Buffer
	cfg := &Config{LogLevel: "info"}
	require.NoError(t, SetupLogging(cfg, &buf))

	log.Debugf("hidden")
	log.Infof("shown")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "hidden")

	logfile := filepath.Join(t.TempDir(), "logs", "mman.log")
	cfg = &Config{LogLevel: "debug", LogFile: logfile, LogMaxSize: 1, LogMaxBackups: 1}
	require.NoError(t, SetupLogging(cfg, &buf))
	log.Debugf("to file")

	data, err := os.ReadFile(logfile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")

	assert.Error(t, SetupLogging(&Config{LogLevel: "loud"}, &buf))
}
