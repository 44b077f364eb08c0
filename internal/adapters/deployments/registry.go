package deployments

import (
	_ "embed"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/safe-replay/internal/adapters/abi/bindings"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
	"gopkg.in/yaml.v3"
)

//go:embed deployments.yaml
var canonicalDeployments []byte

type versionEntry struct {
	Version           string   `yaml:"version"`
	Released          bool     `yaml:"released"`
	Singleton         string   `yaml:"singleton"`
	SingletonL2       string   `yaml:"singletonL2"`
	MultiSend         string   `yaml:"multiSend"`
	MultiSendCallOnly string   `yaml:"multiSendCallOnly"`
	Networks          []string `yaml:"networks"`
}

type deploymentTable struct {
	Versions []versionEntry `yaml:"versions"`
}

type deploymentKey struct {
	chainID string
	version string
}

// Registry is an in-memory table of canonical Safe deployments keyed by chain and version.
// It is read-only after construction.
type Registry struct {
	versions    []versionEntry
	deployments map[deploymentKey]*domain.SafeDeployment
	safeABI     *abi.ABI
	log         *slog.Logger
}

// NewRegistry loads the embedded deployment table and applies configured overrides
func NewRegistry(cfg *config.RuntimeConfig, log *slog.Logger) (*Registry, error) {
	r, err := Parse(canonicalDeployments, log)
	if err != nil {
		return nil, err
	}

	for _, override := range cfg.DeploymentOverrides {
		for _, chainID := range override.Chains {
			if err := r.register(chainID, override.Version); err != nil {
				return nil, fmt.Errorf("invalid deployment override in %s: %w", cfg.DeploymentsFile, err)
			}
			r.log.Debug("Registered deployment override", "chain", chainID, "version", override.Version)
		}
	}

	return r, nil
}

// Parse builds a registry from a YAML deployment table
func Parse(data []byte, log *slog.Logger) (*Registry, error) {
	var table deploymentTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse deployment table: %w", err)
	}

	safeABI, err := bindings.SafeMetaData.ParseABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse Safe ABI: %w", err)
	}

	r := &Registry{
		versions:    table.Versions,
		deployments: make(map[deploymentKey]*domain.SafeDeployment),
		safeABI:     safeABI,
		log:         log.With("component", "DeploymentRegistry"),
	}

	for _, entry := range table.Versions {
		for _, addr := range []string{entry.Singleton, entry.SingletonL2, entry.MultiSend, entry.MultiSendCallOnly} {
			if addr != "" && !common.IsHexAddress(addr) {
				return nil, fmt.Errorf("version %s: %w: %s", entry.Version, domain.ErrInvalidAddress, addr)
			}
		}
		for _, chainID := range entry.Networks {
			if err := r.register(chainID, entry.Version); err != nil {
				return nil, err
			}
		}
	}

	return r, nil
}

func (r *Registry) register(chainID, version string) error {
	chainID = strings.TrimSpace(chainID)
	if _, err := strconv.ParseUint(chainID, 10, 64); err != nil {
		return fmt.Errorf("invalid chain id %q", chainID)
	}

	version = normalizeVersion(version)
	idx := slices.IndexFunc(r.versions, func(v versionEntry) bool { return v.Version == version })
	if idx < 0 {
		return fmt.Errorf("%w: unknown Safe version %q", domain.ErrNotFound, version)
	}
	entry := r.versions[idx]

	r.deployments[deploymentKey{chainID: chainID, version: version}] = &domain.SafeDeployment{
		Version:           entry.Version,
		ChainID:           chainID,
		Released:          entry.Released,
		Singleton:         hexAddress(entry.Singleton),
		SingletonL2:       hexAddress(entry.SingletonL2),
		MultiSend:         hexAddress(entry.MultiSend),
		MultiSendCallOnly: hexAddress(entry.MultiSendCallOnly),
		ABI:               r.safeABI,
	}
	return nil
}

// Lookup returns the deployment for chainID and version. An empty version
// selects the newest released version deployed on the chain.
func (r *Registry) Lookup(chainID string, version string) (*domain.SafeDeployment, error) {
	chainID = strings.TrimSpace(chainID)
	version = normalizeVersion(version)

	if version == "" {
		for _, entry := range r.versions {
			if !entry.Released {
				continue
			}
			if d, ok := r.deployments[deploymentKey{chainID: chainID, version: entry.Version}]; ok {
				return d, nil
			}
		}
		return nil, domain.DeploymentNotFoundError{ChainID: chainID}
	}

	d, ok := r.deployments[deploymentKey{chainID: chainID, version: version}]
	if !ok {
		return nil, domain.DeploymentNotFoundError{ChainID: chainID, Version: version}
	}
	return d, nil
}

// List returns every deployment ordered by chain id, newest version first
func (r *Registry) List() []*domain.SafeDeployment {
	result := make([]*domain.SafeDeployment, 0, len(r.deployments))
	for _, d := range r.deployments {
		result = append(result, d)
	}

	rank := make(map[string]int, len(r.versions))
	for i, v := range r.versions {
		rank[v.Version] = i
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ChainID != result[j].ChainID {
			return chainLess(result[i].ChainID, result[j].ChainID)
		}
		return rank[result[i].Version] < rank[result[j].Version]
	})
	return result
}

// Versions returns the known Safe versions, newest first
func (r *Registry) Versions() []string {
	versions := make([]string, len(r.versions))
	for i, v := range r.versions {
		versions[i] = v.Version
	}
	return versions
}

// normalizeVersion strips the "+L2" build suffix and a leading "v"
func normalizeVersion(version string) string {
	version = strings.TrimSpace(version)
	version = strings.TrimPrefix(version, "v")
	if idx := strings.Index(version, "+"); idx != -1 {
		version = version[:idx]
	}
	return version
}

func chainLess(a, b string) bool {
	ai, errA := strconv.ParseUint(a, 10, 64)
	bi, errB := strconv.ParseUint(b, 10, 64)
	if errA != nil || errB != nil {
		return a < b
	}
	return ai < bi
}

func hexAddress(s string) common.Address {
	if s == "" {
		return common.Address{}
	}
	return common.HexToAddress(s)
}

// Ensure the registry implements the interface
var _ usecase.DeploymentRegistry = (*Registry)(nil)
