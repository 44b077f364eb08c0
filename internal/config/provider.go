package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
)

// ConfigDir is the directory, relative to the working or home directory, searched for config.json
const ConfigDir = ".safe-replay"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	cfg := &config.RuntimeConfig{
		ChainID:         strings.TrimSpace(v.GetString("chain")),
		SafeVersion:     strings.TrimSpace(v.GetString("safe_version")),
		ServiceURL:      strings.TrimRight(v.GetString("service_url"), "/"),
		ServiceAPIKey:   v.GetString("service_api_key"),
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		JSON:            v.GetBool("json"),
		Timeout:         v.GetDuration("timeout"),
		DeploymentsFile: v.GetString("deployments_file"),
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout %q", v.GetString("timeout"))
	}

	if cfg.DeploymentsFile != "" {
		overrides, err := LoadDeploymentOverrides(cfg.DeploymentsFile)
		if err != nil {
			return nil, err
		}
		cfg.DeploymentOverrides = overrides
	}

	return cfg, nil
}

// SetupViper creates and configures a viper instance
func SetupViper(workDir string, cmd *cobra.Command) *viper.Viper {
	LoadEnvFiles(workDir)

	v := viper.New()

	// Set up config file
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(workDir, ConfigDir))
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ConfigDir))
	}

	// Set up environment variables
	v.SetEnvPrefix("SAFE_REPLAY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("chain", "1")
	v.SetDefault("timeout", "30s")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}
