package milestone_test

import (
	"context"
	"testing"

	"github.com/saulo-duarte/strive/internal/milestone"
	"github.com/saulo-duarte/strive/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMilestoneRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create then find round trips", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		g := testutil.SeedGoal(t, db, alice.ID, nil, "Run 5k", testutil.Date(30))
		repo := milestone.NewRepository(gw)

		m := &milestone.Milestone{GoalID: g.ID, Description: "Buy shoes", DueDate: testutil.Date(2), Status: "Pending"}
		require.NoError(t, repo.Create(ctx, m))
		require.NotZero(t, m.ID)

		got, err := repo.FindByID(ctx, m.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, g.ID, got.GoalID)
		assert.Equal(t, "Buy shoes", got.Description)
		assert.Equal(t, "Pending", got.Status)
		assert.True(t, got.DueDate.Equal(testutil.Date(2)))
	})

	t.Run("list orders by due date then id", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		g := testutil.SeedGoal(t, db, alice.ID, nil, "Run 5k", testutil.Date(30))
		other := testutil.SeedGoal(t, db, alice.ID, nil, "Read", testutil.Date(30))
		late := testutil.SeedMilestone(t, db, g.ID, "late", testutil.Date(9))
		tieA := testutil.SeedMilestone(t, db, g.ID, "tie a", testutil.Date(1))
		tieB := testutil.SeedMilestone(t, db, g.ID, "tie b", testutil.Date(1))
		testutil.SeedMilestone(t, db, other.ID, "elsewhere", testutil.Date(0))

		got, err := milestone.NewRepository(gw).ListByGoal(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []uint{tieA.ID, tieB.ID, late.ID}, []uint{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("writes are scoped to the parent goal", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		g := testutil.SeedGoal(t, db, alice.ID, nil, "Run 5k", testutil.Date(30))
		other := testutil.SeedGoal(t, db, alice.ID, nil, "Read", testutil.Date(30))
		m := testutil.SeedMilestone(t, db, g.ID, "Buy shoes", testutil.Date(1))
		repo := milestone.NewRepository(gw)

		ok, err := repo.Update(ctx, &milestone.Milestone{ID: m.ID, GoalID: other.ID, Description: "x", Status: "x", DueDate: testutil.Date(1)})
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.Delete(ctx, m.ID, other.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.Delete(ctx, m.ID, g.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, m.ID, g.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("deleting the goal removes its milestones", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		g := testutil.SeedGoal(t, db, alice.ID, nil, "Run 5k", testutil.Date(30))
		m := testutil.SeedMilestone(t, db, g.ID, "Buy shoes", testutil.Date(1))

		require.NoError(t, db.Delete(g).Error)

		got, err := milestone.NewRepository(gw).FindByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
