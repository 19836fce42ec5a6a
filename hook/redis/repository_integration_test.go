//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/marcelsud/webhook-workflow/hook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()
	repo := startHookStore(t, ctx)

	t.Run("success - save and list in order", func(t *testing.T) {
		hooks := []hook.Hook{
			{ID: "late", TypeID: "generic", Order: 20, WorkflowTypeID: "wf-late"},
			{ID: "early", TypeID: "generic", Order: 10, Method: "POST", URL: "^/orders/.*$", WorkflowTypeID: "wf-early",
				Options: hook.Options{IncludeHeaders: true}, Attributes: map[string]string{"Team": "core"}},
			{ID: "slack-1", TypeID: "slack", Order: 1, Text: "deploy", WorkflowTypeID: "wf-slack", ResponseUsername: "Bot"},
		}
		for _, h := range hooks {
			require.NoError(t, repo.Save(ctx, h))
		}

		list, err := repo.List(ctx, "generic")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "early", list[0].ID)
		assert.Equal(t, "late", list[1].ID)
		assert.True(t, list[0].Options.IncludeHeaders)
		assert.False(t, list[0].Options.IncludeCookies)
		assert.Equal(t, "core", list[0].Attribute("Team"))

		count, err := repo.Count(ctx, "slack")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("success - changing type moves index entry", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, hook.Hook{ID: "late", TypeID: "slack", Order: 5, WorkflowTypeID: "wf-late"}))

		generic, err := repo.List(ctx, "generic")
		require.NoError(t, err)
		assert.Len(t, generic, 1)

		slack, err := repo.List(ctx, "slack")
		require.NoError(t, err)
		assert.Equal(t, "slack-1", slack[0].ID)
		assert.Equal(t, "late", slack[1].ID)
	})

	t.Run("success - delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "late"))

		_, err := repo.Get(ctx, "late")
		assert.ErrorIs(t, err, hook.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, "late"), hook.ErrNotFound)
	})

	t.Run("error - invalid hook rejected", func(t *testing.T) {
		err := repo.Save(ctx, hook.Hook{ID: "bad", TypeID: "generic"})
		assert.ErrorContains(t, err, "validating hook")
	})

	t.Run("unknown type - empty list", func(t *testing.T) {
		list, err := repo.List(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}
