package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. PIMENU_COMMAND_TIMEOUT.
const EnvPrefix = "PIMENU_"

const (
	defaultConfigPath     = "~/.config/pimenu/config.yaml"
	defaultLogFile        = "~/.local/state/pimenu/pimenu.log"
	defaultSaveDir        = "~"
	defaultLogLevel       = "info"
	defaultShell          = "/bin/sh"
	defaultCommandTimeout = "300"
	defaultScriptTimeout  = "30"

	menuFileName   = "pimenu.yaml"
	iconDirName    = "ico"
	scriptFileName = "pimenu.sh"
)

// Config holds the runtime settings of pimenu.
type Config struct {
	InstallDir     string
	MenuFile       string
	IconDir        string
	ScriptPath     string
	SaveDir        string
	LogFile        string
	LogLevel       string
	Shell          string
	CommandTimeout time.Duration
	ScriptTimeout  time.Duration
}

type rawConfig struct {
	InstallDir     string `koanf:"install_dir"`
	MenuFile       string `koanf:"menu_file"`
	IconDir        string `koanf:"icon_dir"`
	ScriptPath     string `koanf:"script_path"`
	SaveDir        string `koanf:"save_dir"`
	LogFile        string `koanf:"log_file"`
	LogLevel       string `koanf:"log_level"`
	Shell          string `koanf:"shell"`
	CommandTimeout string `koanf:"command_timeout"`
	ScriptTimeout  string `koanf:"script_timeout"`
}

// Load resolves settings from defaults, the optional config file at path and
// PIMENU_* environment variables, in increasing precedence. An empty path means
// ~/.config/pimenu/config.yaml; a missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(map[string]any{
		"install_dir":     executableDir(),
		"save_dir":        defaultSaveDir,
		"log_file":        defaultLogFile,
		"log_level":       defaultLogLevel,
		"shell":           defaultShell,
		"command_timeout": defaultCommandTimeout,
		"script_timeout":  defaultScriptTimeout,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if _, err := os.Stat(resolved); err == nil {
		if err := k.Load(file.Provider(resolved), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("stat config: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var raw rawConfig
	if err := k.Unmarshal("", &raw); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return raw.resolve()
}

func (r rawConfig) resolve() (Config, error) {
	var cfg Config
	var err error

	if cfg.InstallDir, err = expandPath(orDefault(r.InstallDir, ".")); err != nil {
		return Config{}, fmt.Errorf("install_dir: %w", err)
	}
	paths := []struct {
		key  string
		dst  *string
		val  string
		dflt string
	}{
		{"menu_file", &cfg.MenuFile, r.MenuFile, filepath.Join(cfg.InstallDir, menuFileName)},
		{"icon_dir", &cfg.IconDir, r.IconDir, filepath.Join(cfg.InstallDir, iconDirName)},
		{"script_path", &cfg.ScriptPath, r.ScriptPath, filepath.Join(cfg.InstallDir, scriptFileName)},
		{"save_dir", &cfg.SaveDir, r.SaveDir, defaultSaveDir},
		{"log_file", &cfg.LogFile, r.LogFile, defaultLogFile},
	}
	for _, p := range paths {
		if *p.dst, err = expandPath(orDefault(p.val, p.dflt)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", p.key, err)
		}
	}

	cfg.Shell = orDefault(r.Shell, defaultShell)
	cfg.LogLevel = strings.ToLower(orDefault(r.LogLevel, defaultLogLevel))

	if cfg.CommandTimeout, err = parseTimeout(orDefault(r.CommandTimeout, defaultCommandTimeout)); err != nil {
		return Config{}, fmt.Errorf("command_timeout: %w", err)
	}
	if cfg.ScriptTimeout, err = parseTimeout(orDefault(r.ScriptTimeout, defaultScriptTimeout)); err != nil {
		return Config{}, fmt.Errorf("script_timeout: %w", err)
	}
	return cfg, nil
}

// parseTimeout accepts a bare number of seconds or a Go duration string.
func parseTimeout(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if secs, err := strconv.ParseFloat(value, 64); err == nil {
		if !(secs > 0) || math.IsInf(secs, 1) {
			return 0, fmt.Errorf("timeout must be positive, got %q", value)
		}
		if secs > math.MaxInt64/float64(time.Second) {
			return 0, fmt.Errorf("timeout too large, got %q", value)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", value)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %q", value)
	}
	return d, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

// executableDir is the directory holding the running binary, with symlinks
// resolved. It falls back to the working directory.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
