package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"github.com/specmint/specmint/types"
)

// loadSummary reads a descriptor collection from a JSON or YAML file and
// rebuilds its derived counts. The format is chosen by extension, with JSON
// as the fallback for unknown extensions.
func loadSummary(path string) (*types.APISummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor file %s: %w", path, err)
	}

	var summary types.APISummary
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &summary); err != nil {
			return nil, fmt.Errorf("failed to parse YAML descriptors in %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &summary); err != nil {
			return nil, fmt.Errorf("failed to parse JSON descriptors in %s: %w", path, err)
		}
	}

	summary.Recount()
	return &summary, nil
}
