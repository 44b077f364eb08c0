package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Context settings
	ChainID     string // decimal chain id, e.g. "1"
	SafeVersion string // empty lets the registry choose

	// Safe Transaction Service
	ServiceURL    string // overrides the per-chain default
	ServiceAPIKey string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool // Output in JSON format
	Timeout        time.Duration

	// Deployment registry extensions
	DeploymentsFile     string
	DeploymentOverrides []DeploymentOverride
}

// DeploymentOverride registers extra chains for a canonical Safe version
type DeploymentOverride struct {
	Version string   `toml:"version"`
	Chains  []string `toml:"chains"`
}

// DeploymentsFile is the TOML document holding deployment overrides
type DeploymentsFile struct {
	Deployments []DeploymentOverride `toml:"deployments"`
}
