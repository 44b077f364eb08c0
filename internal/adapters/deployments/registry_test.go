package deployments

import (
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/domain/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRegistry(t *testing.T, overrides ...config.DeploymentOverride) *Registry {
	t.Helper()
	r, err := NewRegistry(&config.RuntimeConfig{DeploymentOverrides: overrides}, testLogger())
	require.NoError(t, err)
	return r
}

func TestRegistry_Lookup(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name        string
		chainID     string
		version     string
		wantVersion string
		wantErr     bool
	}{
		{name: "mainnet default picks newest", chainID: "1", wantVersion: "1.4.1"},
		{name: "mainnet explicit version", chainID: "1", version: "1.3.0", wantVersion: "1.3.0"},
		{name: "L2 suffix is ignored", chainID: "137", version: "1.3.0+L2", wantVersion: "1.3.0"},
		{name: "v prefix is ignored", chainID: "1", version: "v1.1.1", wantVersion: "1.1.1"},
		{name: "goerli falls back to 1.3.0", chainID: "5", wantVersion: "1.3.0"},
		{name: "unknown chain", chainID: "999999", wantErr: true},
		{name: "unknown version", chainID: "1", version: "9.9.9", wantErr: true},
		{name: "version not on chain", chainID: "8453", version: "1.1.1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := r.Lookup(tt.chainID, tt.version)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrDeploymentNotFound)
				assert.Nil(t, d)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantVersion, d.Version)
			assert.Equal(t, tt.chainID, d.ChainID)
			require.NotNil(t, d.ABI)
			assert.Contains(t, d.ABI.Methods, "swapOwner")
		})
	}
}

func TestRegistry_LookupErrorCarriesRequest(t *testing.T) {
	r := newTestRegistry(t)

	_, err := r.Lookup("999999", "1.3.0")
	var notFound domain.DeploymentNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "999999", notFound.ChainID)
	assert.Equal(t, "1.3.0", notFound.Version)
}

func TestRegistry_CanonicalAddresses(t *testing.T) {
	r := newTestRegistry(t)

	d, err := r.Lookup("1", "1.3.0")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552"), d.Singleton)
	assert.Equal(t, common.HexToAddress("0x40A2aCCbd92BCA938b02010E17A5b8929b49130D"), d.MultiSendCallOnly)
	assert.True(t, d.Released)
}

func TestRegistry_Overrides(t *testing.T) {
	r := newTestRegistry(t, config.DeploymentOverride{Version: "1.3.0", Chains: []string{"31337"}})

	d, err := r.Lookup("31337", "")
	require.NoError(t, err)
	assert.Equal(t, "1.3.0", d.Version)

	_, err = NewRegistry(&config.RuntimeConfig{
		DeploymentOverrides: []config.DeploymentOverride{{Version: "0.9.0", Chains: []string{"31337"}}},
	}, testLogger())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = NewRegistry(&config.RuntimeConfig{
		DeploymentOverrides: []config.DeploymentOverride{{Version: "1.3.0", Chains: []string{"anvil"}}},
	}, testLogger())
	assert.Error(t, err)
}

func TestRegistry_List(t *testing.T) {
	r := newTestRegistry(t)

	list := r.List()
	require.NotEmpty(t, list)
	assert.Equal(t, "1", list[0].ChainID)
	assert.Equal(t, "1.4.1", list[0].Version)
	assert.Equal(t, "1.3.0", list[1].Version)

	last := list[len(list)-1]
	assert.Equal(t, "11155111", last.ChainID)

	assert.Equal(t, []string{"1.4.1", "1.3.0", "1.2.0", "1.1.1"}, r.Versions())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("versions: [oops"), testLogger())
	assert.Error(t, err)

	_, err = Parse([]byte(`
versions:
  - version: "1.3.0"
    singleton: "0x1234"
    networks: ["1"]
`), testLogger())
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
}
