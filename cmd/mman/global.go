package main

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/skyline93/mman/internal/backend"
	"github.com/skyline93/mman/internal/cache"
	"github.com/skyline93/mman/internal/config"
	"github.com/skyline93/mman/internal/mman"
	"github.com/skyline93/mman/internal/repository"
)

// GlobalOptions hold all settings that are not specific to one page.
type GlobalOptions struct {
	ConfigFile string

	v   *viper.Viper
	cfg *config.Config
}

var globalOptions = GlobalOptions{v: viper.New()}

func init() {
	f := cmdRoot.PersistentFlags()
	f.StringVar(&globalOptions.ConfigFile, "config", "", "read settings from `file` (default: "+config.DefaultFile()+")")
	f.String("os", "fb", "operating system of the pages, fb or ob ($MMAN_OS)")
	f.String("lang", "eng", "language of the pages, eng or jpn ($MMAN_LANG)")
	f.String("arch", "arm64", "architecture the pages were built for ($MMAN_ARCH)")
	f.String("cache-dir", "", "create the cache below `dir` (default: system temp directory)")
	f.Duration("race-timeout", 0, "time the mirrors get to announce a digest (default: 10s)")
	f.Uint64("max-retries", 0, "retry failed downloads `n` times (default: 2)")
	f.String("filename-mode", repository.ModeHash, "file names of the pages on the mirrors, hash or raw")
	f.String("log-level", "warn", "log level, one of debug, info, warn, error")
	f.String("log-file", "", "write log messages to `file` instead of stderr")

	err := bindFlags(globalOptions.v, f, "os", "lang", "arch", "cache-dir", "race-timeout", "max-retries", "filename-mode", "log-level", "log-file")
	if err != nil {
		panic(err)
	}
}

// bindFlags makes the flags override the config keys of the same name.
func bindFlags(v *viper.Viper, f *pflag.FlagSet, names ...string) error {
	for _, name := range names {
		if err := v.BindPFlag(flagKey(name), f.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// flagKey maps a flag name to its config key.
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// preset selects the dataset for the per-dataset command names.
func (opts *GlobalOptions) preset(id mman.Identity) {
	opts.v.Set("os", id.OS)
	opts.v.Set("lang", id.Lang)
	opts.v.Set("arch", id.Arch)
}

func (opts *GlobalOptions) load() error {
	cfg, err := config.Load(opts.v, opts.ConfigFile)
	if err != nil {
		return err
	}
	if err := config.SetupLogging(cfg, os.Stderr); err != nil {
		return err
	}
	opts.cfg = cfg
	return nil
}

// newLoader returns the transport used to reach the mirrors.
var newLoader = func(cfg *config.Config) repository.Loader {
	return backend.NewHTTP(cfg.BackendOptions())
}

// openRepository prepares the cache and the repository of the configured
// dataset. Nothing is downloaded yet.
func openRepository(gopts GlobalOptions, mopts ManOptions) (*repository.Repository, error) {
	cfg := gopts.cfg

	c, err := cache.New(cache.Options{
		Base:     cfg.CacheDir,
		Identity: cfg.Identity(),
	})
	if err != nil {
		return nil, err
	}

	return repository.New(newLoader(cfg), c, repository.Options{
		Identity:            cfg.Identity(),
		RootSites:           cfg.RootSites,
		RaceTimeout:         cfg.RaceTimeout,
		FilenameMode:        cfg.FilenameMode,
		AllowedHosts:        cfg.AllowedHosts,
		RootManifestPath:    mopts.RootTOML,
		ReleaseManifestPath: mopts.ManHash,
	})
}
