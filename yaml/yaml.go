// Package yaml loads zalert configuration from YAML files.
package yaml

import (
	"os"

	"github.com/kmathews/zalert"
	"gopkg.in/yaml.v3"
)

// LoadScoringConfig reads and validates a scoring matrix from path.
func LoadScoringConfig(path string) (*zalert.ScoringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zalert.Errorf(zalert.EINVALID, "read scoring config %s: %v", path, err)
	}

	var cfg zalert.ScoringConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, zalert.Errorf(zalert.EINVALID, "parse scoring config %s: %v", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
