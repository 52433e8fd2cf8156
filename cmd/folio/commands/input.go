package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/folioquant/backend/internal/contracts"
	"github.com/folioquant/backend/internal/policy"
	"github.com/folioquant/backend/pkg/config"
)

// assetFile is the on-disk input format shared by all commands.
type assetFile struct {
	Assets []contracts.Asset `json:"assets" yaml:"assets"`
}

// loadAssets reads an asset list from a YAML or JSON file (by extension).
func loadAssets(path string) ([]contracts.Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read asset file: %w", err)
	}

	var file assetFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if len(file.Assets) == 0 {
		return nil, fmt.Errorf("%s contains no assets", path)
	}
	return file.Assets, nil
}

// loadPolicy resolves the classification policy: the --policy flag wins,
// then POLICY_FILE from config, then the built-in default.
func loadPolicy(cfg *config.Config) (*policy.Policy, error) {
	path := policyFile
	if path == "" {
		path = cfg.Engine.PolicyFile
	}
	if path == "" {
		return policy.Default(), nil
	}
	return policy.Load(path)
}
