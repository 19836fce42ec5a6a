//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()
	pg, cleanup := SetupPostgresContainer(t, ctx)
	defer cleanup()

	repo := CreateTestRepository(t, ctx, pg.ConnStr)
	defer repo.Close(ctx)

	t.Run("success - save, list ordered, update", func(t *testing.T) {
		CleanupDatabase(t, ctx, pg.DB)

		require.NoError(t, repo.Save(ctx, hook.Hook{ID: "b", TypeID: "generic", Order: 2, WorkflowTypeID: "wf-b"}))
		require.NoError(t, repo.Save(ctx, hook.Hook{ID: "a", TypeID: "generic", Order: 2, WorkflowTypeID: "wf-a",
			Attributes: map[string]string{"Owner": "ops"}}))
		require.NoError(t, repo.Save(ctx, hook.Hook{ID: "c", TypeID: "generic", Order: 1, URL: "^/c/.*$", WorkflowTypeID: "wf-c",
			Options: hook.Options{IncludeHeaders: true, IncludeCookies: true}}))

		hooks, err := repo.List(ctx, "generic")
		require.NoError(t, err)
		require.Len(t, hooks, 3)
		assert.Equal(t, []string{"c", "a", "b"}, []string{hooks[0].ID, hooks[1].ID, hooks[2].ID})
		assert.True(t, hooks[0].Options.IncludeCookies)
		assert.Equal(t, "ops", hooks[1].Attribute("Owner"))

		require.NoError(t, repo.Save(ctx, hook.Hook{ID: "b", TypeID: "generic", Order: 0, WorkflowTypeID: "wf-b2"}))
		h, err := repo.Get(ctx, "b")
		require.NoError(t, err)
		assert.Equal(t, "wf-b2", h.WorkflowTypeID)
		assert.Equal(t, 0, h.Order)
	})

	t.Run("success - delete", func(t *testing.T) {
		CleanupDatabase(t, ctx, pg.DB)
		require.NoError(t, repo.Save(ctx, hook.Hook{ID: "x", TypeID: "slack", WorkflowTypeID: "wf"}))

		require.NoError(t, repo.Delete(ctx, "x"))
		_, err := repo.Get(ctx, "x")
		assert.ErrorIs(t, err, hook.ErrNotFound)
	})

	t.Run("unknown type - empty list", func(t *testing.T) {
		hooks, err := repo.List(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, hooks)
	})
}
