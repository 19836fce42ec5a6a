package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/marcelsud/webhook-workflow/hook/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreCollector_GetHookCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("success - counts per type", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("List", mock.Anything, "generic").Return([]hook.Hook{{ID: "a"}, {ID: "b"}}, nil)
		repo.On("List", mock.Anything, "slack").Return([]hook.Hook{}, nil)

		counts, err := NewStoreCollector(repo, "generic", "slack").GetHookCounts(ctx)

		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"generic": 2, "slack": 0}, counts)
	})

	t.Run("error - store failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("List", mock.Anything, "generic").Return(nil, errors.New("connection refused"))

		_, err := NewStoreCollector(repo, "generic").GetHookCounts(ctx)

		assert.ErrorContains(t, err, "listing hooks of type generic")
	})
}

func TestStoreCollector_Collect(t *testing.T) {
	repo := mocks.NewRepository(t)
	repo.On("List", mock.Anything, "generic").Return([]hook.Hook{{ID: "a"}}, nil)

	snapshot, err := NewStoreCollector(repo, "generic").Collect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(1), snapshot.HookCounts["generic"])
	assert.Empty(t, snapshot.QueueLengths)
	assert.False(t, snapshot.Timestamp.IsZero())
}

func TestStoreCollector_WorkflowTypes(t *testing.T) {
	repo := mocks.NewRepository(t)
	repo.On("List", mock.Anything, "generic").Return([]hook.Hook{
		{ID: "a", WorkflowTypeID: "wf-1"},
		{ID: "b", WorkflowTypeID: "wf-2"},
	}, nil)
	repo.On("List", mock.Anything, "slack").Return([]hook.Hook{
		{ID: "c", WorkflowTypeID: "wf-1"},
	}, nil)

	types, err := NewStoreCollector(repo, "generic", "slack").workflowTypes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"wf-1", "wf-2"}, types)
}

type countingReader struct {
	*mocks.Repository
	counts map[string]int64
}

func (r countingReader) Count(_ context.Context, typeID string) (int64, error) {
	return r.counts[typeID], nil
}

func TestStoreCollector_UsesCounter(t *testing.T) {
	repo := countingReader{Repository: mocks.NewRepository(t), counts: map[string]int64{"generic": 7}}

	counts, err := NewStoreCollector(repo, "generic").GetHookCounts(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), counts["generic"])
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}
