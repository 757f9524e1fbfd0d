// Package memconfig loads memsearch's configuration, following the
// precedence and path-safety rules of the teacher's internal/config package:
// environment variables override a YAML file, which overrides hardcoded
// defaults.
package memconfig

import (
	"fmt"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/obslog"
)

// Config holds the complete engine configuration.
type Config struct {
	// IndexDir is the directory holding the inverted-index file, the
	// session-summary file, and the lock file.
	IndexDir string `koanf:"index_dir"`

	// SessionsDir is the directory of append-only transcript files.
	SessionsDir string `koanf:"sessions_dir"`

	// LockTimeout bounds how long an incremental update waits to acquire
	// the advisory index lock (§4.3.2). Default 30s.
	LockTimeout time.Duration `koanf:"lock_timeout"`

	// DebounceInterval is the refresh controller's debounce window (§4.5).
	// Default 5s.
	DebounceInterval time.Duration `koanf:"debounce_interval"`

	// CooldownInterval is the refresh controller's per-session cooldown
	// (§4.5). Default 30s.
	CooldownInterval time.Duration `koanf:"cooldown_interval"`

	// QueueCapacity bounds the refresh controller's pending-update queue.
	// Default 100.
	QueueCapacity int `koanf:"queue_capacity"`

	// MaxResults is the default cap on SearchResult.Results. Default 10.
	MaxResults int `koanf:"max_results"`

	// CoarseCandidateLimit is the Tier-2 cutoff: when the candidate set
	// exceeds this, only the top 40 by coarse score proceed to Tier 3
	// (§4.4.2). Default 30.
	CoarseCandidateLimit int `koanf:"coarse_candidate_limit"`

	// ConceptTablePath optionally overrides the built-in concept-expansion
	// table (see DESIGN.md Open Question 1). Empty uses the built-in table.
	ConceptTablePath string `koanf:"concept_table_path"`

	// UsageLogPath is the append-only usage log (§3 UsageLog). Empty
	// disables usage logging.
	UsageLogPath string `koanf:"usage_log_path"`

	Logging obslog.Config `koanf:"logging"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.IndexDir == "" {
		return fmt.Errorf("index_dir must not be empty")
	}
	if c.SessionsDir == "" {
		return fmt.Errorf("sessions_dir must not be empty")
	}
	if c.LockTimeout <= 0 {
		return fmt.Errorf("lock_timeout must be positive, got %s", c.LockTimeout)
	}
	if c.DebounceInterval <= 0 {
		return fmt.Errorf("debounce_interval must be positive, got %s", c.DebounceInterval)
	}
	if c.CooldownInterval <= 0 {
		return fmt.Errorf("cooldown_interval must be positive, got %s", c.CooldownInterval)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	if c.CoarseCandidateLimit <= 0 {
		return fmt.Errorf("coarse_candidate_limit must be positive, got %d", c.CoarseCandidateLimit)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// defaults returns the hardcoded baseline, applied before the YAML file and
// environment overrides are layered on top.
func defaults() Config {
	return Config{
		IndexDir:             defaultIndexDir(),
		SessionsDir:          defaultSessionsDir(),
		LockTimeout:          30 * time.Second,
		DebounceInterval:     5 * time.Second,
		CooldownInterval:     30 * time.Second,
		QueueCapacity:        100,
		MaxResults:           10,
		CoarseCandidateLimit: 30,
		Logging:              *obslog.NewDefaultConfig(),
	}
}
