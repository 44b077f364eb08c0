package usecase_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/safe-replay/internal/domain"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// MockProgressSink records progress events
type MockProgressSink struct {
	events []usecase.ProgressEvent
	infos  []string
	done   int
}

func (m *MockProgressSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	m.events = append(m.events, event)
}

func (m *MockProgressSink) Info(message string)  { m.infos = append(m.infos, message) }
func (m *MockProgressSink) Error(message string) {}
func (m *MockProgressSink) Done()                { m.done++ }

func TestListDeployments(t *testing.T) {
	ctx := context.Background()
	f := newReplayFixture(t)

	t.Run("list all deployments", func(t *testing.T) {
		sink := &MockProgressSink{}
		uc := usecase.NewListDeployments(f.registry, sink)

		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{})
		require.NoError(t, err)

		assert.Equal(t, 35, result.Summary.Total)
		assert.Len(t, result.Deployments, 35)
		assert.Equal(t, 4, result.Summary.ByChain["1"])
		assert.Equal(t, 14, result.Summary.ByVersion["1.3.0"])
		assert.Equal(t, 1, sink.done)
	})

	t.Run("filter by chain", func(t *testing.T) {
		uc := usecase.NewListDeployments(f.registry, &MockProgressSink{})

		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{ChainID: "5"})
		require.NoError(t, err)

		versions := lo.Map(result.Deployments, func(d *domain.SafeDeployment, _ int) string { return d.Version })
		assert.Equal(t, []string{"1.3.0", "1.2.0", "1.1.1"}, versions)
		assert.Equal(t, map[string]int{"5": 3}, result.Summary.ByChain)
	})

	t.Run("filter by version", func(t *testing.T) {
		uc := usecase.NewListDeployments(f.registry, &MockProgressSink{})

		result, err := uc.Run(ctx, usecase.ListDeploymentsParams{Version: "v1.2.0"})
		require.NoError(t, err)

		chains := lo.Map(result.Deployments, func(d *domain.SafeDeployment, _ int) string { return d.ChainID })
		assert.Equal(t, []string{"1", "4", "5", "100"}, chains)
	})

	t.Run("unknown chain", func(t *testing.T) {
		uc := usecase.NewListDeployments(f.registry, &MockProgressSink{})

		_, err := uc.Run(ctx, usecase.ListDeploymentsParams{ChainID: "999999"})
		assert.ErrorIs(t, err, domain.ErrDeploymentNotFound)
	})
}
