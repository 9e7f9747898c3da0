package assetdb

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds settings for the engine's background behavior: a HotReload
// poll interval, a Deferred worker count, and a deadline for
// WaitUntilQuiescent. A validated, YAML-loadable settings struct rather
// than scattered constants. Database does not read a Config itself; the
// caller passes these values to NewHotReload, NewDeferred, and the
// context given to WaitUntilQuiescent.
type Config struct {
	// PollInterval is how often HotReload watchers coalesce filesystem
	// events into a reload.
	PollInterval time.Duration `yaml:"poll_interval" validate:"required,min=1000000"`

	// DeferredWorkers is a worker count for a Deferred wrapper's pool.
	DeferredWorkers int `yaml:"deferred_workers" validate:"required,min=1,max=256"`

	// QuiescenceTimeout is a deadline for the context passed to
	// WaitUntilQuiescent; zero means no deadline.
	QuiescenceTimeout time.Duration `yaml:"quiescence_timeout" validate:"omitempty,min=0"`
}

// DefaultConfig returns reasonable settings for local development.
func DefaultConfig() Config {
	return Config{
		PollInterval:      200 * time.Millisecond,
		DeferredWorkers:   4,
		QuiescenceTimeout: 30 * time.Second,
	}
}

var validate = validator.New()

// Validate checks c against its struct tags.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("assetdb: invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads and validates a YAML config file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("assetdb: read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("assetdb: parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
