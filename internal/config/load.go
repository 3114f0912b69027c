package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// Load reads and validates the daemon config. Bad cron specs and invalid
// job policies are rejected here, before the scheduler ever starts.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Jobs) == 0 {
		return fmt.Errorf("config has no jobs")
	}

	seen := map[string]bool{}
	for i, job := range c.Jobs {
		if job.Name == "" {
			return fmt.Errorf("job #%d has no name", i+1)
		}
		if seen[job.Name] {
			return fmt.Errorf("duplicate job name %q", job.Name)
		}
		seen[job.Name] = true

		if _, err := cron.ParseStandard(job.Schedule); err != nil {
			return fmt.Errorf("job %s: bad schedule %q: %w", job.Name, job.Schedule, err)
		}
		if job.Method != "" && job.Method != "mtime" && job.Method != "generation" {
			return fmt.Errorf("job %s: unknown staleness method %q", job.Name, job.Method)
		}
		if _, err := job.Policy(c.Logging.Quiet); err != nil {
			return fmt.Errorf("job %s: %w", job.Name, err)
		}
	}

	return nil
}
