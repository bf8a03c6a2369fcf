package cli

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/ardnew/formula/pkg"
)

// Configuration files live in the config directory. The YAML file is written
// by the init command. The JSON file is read when present.
const (
	baseConfig = "config"
	yamlConfig = baseConfig + ".yaml"
	jsonConfig = baseConfig + ".json"
)

var defaultDirMode os.FileMode = 0o700

// Environment variables overriding the config and cache directories.
var (
	configDirVar = pkg.EnvPrefix() + "CONFIG_DIR"
	cacheDirVar  = pkg.EnvPrefix() + "CACHE_DIR"
)

// userDir returns the formula subdirectory of the per-user directory
// reported by base. If env is set, it is used as is. When base fails, the
// hidden directory of that name in the home directory is used, and the
// working directory as a last resort.
func userDir(env string, base func() (string, error), hidden string) string {
	if dir := os.Getenv(env); dir != "" {
		return dir
	}

	dir, err := base()
	if err != nil {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, pkg.Name)
}

var configDir = sync.OnceValue(func() string {
	return userDir(configDirVar, os.UserConfigDir, ".config")
})

// cacheDir holds transient files such as the REPL history and profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(cacheDirVar, os.UserCacheDir, ".cache")
})

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the config and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
