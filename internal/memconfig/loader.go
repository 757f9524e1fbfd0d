package memconfig

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

// LoadWithFile loads configuration with the teacher's precedence chain:
// hardcoded defaults, overridden by an optional YAML file, overridden by
// environment variables prefixed MEMSEARCH_.
//
// An empty configPath uses ~/.config/memsearch/config.yaml if present and
// is otherwise skipped (no config file is required to run).
func LoadWithFile(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structProvider(defaults()), nil); err != nil {
		return nil, fmt.Errorf("memconfig: loading defaults: %w", err)
	}

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			configPath = filepath.Join(home, ".config", "memsearch", "config.yaml")
		}
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := validateConfigPath(configPath); err != nil {
				return nil, fmt.Errorf("memconfig: config path validation failed: %w", err)
			}

			f, err := os.Open(configPath)
			if err != nil {
				return nil, fmt.Errorf("memconfig: opening config file: %w", err)
			}
			defer f.Close()

			info, err := f.Stat()
			if err != nil {
				return nil, fmt.Errorf("memconfig: stat config file: %w", err)
			}
			if err := validateConfigFileProperties(info); err != nil {
				return nil, fmt.Errorf("memconfig: config file validation failed: %w", err)
			}

			content, err := io.ReadAll(f)
			if err != nil {
				return nil, fmt.Errorf("memconfig: reading config file: %w", err)
			}

			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("memconfig: parsing config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider("MEMSEARCH_", ".", func(s string) string {
		trimmed := strings.TrimPrefix(s, "MEMSEARCH_")
		return strings.ReplaceAll(strings.ToLower(trimmed), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("memconfig: loading environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("memconfig: unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("memconfig: %w", err)
	}

	return &cfg, nil
}

// structProvider adapts a Config value into a koanf.Provider so the
// hardcoded defaults can be layered the same way as the file and env
// providers, instead of being merged in after unmarshal.
type literalProvider struct{ cfg Config }

func structProvider(cfg Config) *literalProvider { return &literalProvider{cfg: cfg} }

func (p *literalProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("structProvider does not support ReadBytes")
}

func (p *literalProvider) Read() (map[string]interface{}, error) {
	return map[string]interface{}{
		"index_dir":              p.cfg.IndexDir,
		"sessions_dir":           p.cfg.SessionsDir,
		"lock_timeout":           p.cfg.LockTimeout.String(),
		"debounce_interval":      p.cfg.DebounceInterval.String(),
		"cooldown_interval":      p.cfg.CooldownInterval.String(),
		"queue_capacity":         p.cfg.QueueCapacity,
		"max_results":            p.cfg.MaxResults,
		"coarse_candidate_limit": p.cfg.CoarseCandidateLimit,
		"concept_table_path":     p.cfg.ConceptTablePath,
		"usage_log_path":         p.cfg.UsageLogPath,
		"logging.level":          p.cfg.Logging.Level,
		"logging.format":         p.cfg.Logging.Format,
	}, nil
}

// validateConfigPath restricts config files to well-known directories,
// following the teacher's path-traversal defense in internal/config.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		resolvedPath = absPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	allowedDirs := []string{
		filepath.Join(home, ".config", "memsearch"),
		"/etc/memsearch",
	}

	for _, dir := range allowedDirs {
		if strings.HasPrefix(resolvedPath, dir) {
			return nil
		}
	}

	return fmt.Errorf("config file must be in ~/.config/memsearch/ or /etc/memsearch/")
}

// validateConfigFileProperties enforces the 0600-or-stricter permission
// requirement and a size cap, mirroring internal/config.
func validateConfigFileProperties(info os.FileInfo) error {
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	return nil
}

func defaultIndexDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "memsearch", "index")
	}
	return filepath.Join(home, ".config", "memsearch", "index")
}

func defaultSessionsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "memsearch", "sessions")
	}
	return filepath.Join(home, ".claude", "projects")
}
