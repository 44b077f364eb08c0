package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
)

// LoadEnvFiles loads .env and .env.local from dir into the process environment.
// Variables already set are not overridden.
func LoadEnvFiles(dir string) {
	envFiles := []string{
		filepath.Join(dir, ".env"),
		filepath.Join(dir, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// LoadDeploymentOverrides reads extra chain registrations from a TOML file:
//
//	[[deployments]]
//	version = "1.3.0"
//	chains = ["31337", "${LOCAL_CHAIN_ID}"]
//
// Chain entries are expanded against the environment.
func LoadDeploymentOverrides(path string) ([]config.DeploymentOverride, error) {
	var file config.DeploymentsFile
	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deployments file %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in deployments file %s: %s", path, strings.Join(keys, ", "))
	}

	for i := range file.Deployments {
		d := &file.Deployments[i]
		if strings.TrimSpace(d.Version) == "" {
			return nil, fmt.Errorf("deployments file %s: entry %d has no version", path, i)
		}
		for j, chain := range d.Chains {
			d.Chains[j] = strings.TrimSpace(os.ExpandEnv(chain))
		}
	}

	return file.Deployments, nil
}
