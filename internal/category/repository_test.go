package category_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/storage"
	"github.com/saulo-duarte/strive/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create then find round trips", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		repo := category.NewRepository(gw)

		c := &category.Category{UserID: alice.ID, Name: "Health"}
		require.NoError(t, repo.Create(ctx, c))
		require.NotZero(t, c.ID)

		got, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, alice.ID, got.UserID)
		assert.Equal(t, "Health", got.Name)
	})

	t.Run("missing id returns nil without error", func(t *testing.T) {
		gw, _ := testutil.NewGateway(t)
		got, err := category.NewRepository(gw).FindByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("list is ordered by name", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		bob := testutil.SeedUser(t, db, "bob")
		work := testutil.SeedCategory(t, db, alice.ID, "Work")
		health := testutil.SeedCategory(t, db, alice.ID, "Health")
		fitness := testutil.SeedCategory(t, db, alice.ID, "Fitness")
		testutil.SeedCategory(t, db, bob.ID, "Aardvark")

		got, err := category.NewRepository(gw).ListByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []uint{fitness.ID, health.ID, work.ID}, []uint{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("names are unique per user at the storage level", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		bob := testutil.SeedUser(t, db, "bob")
		testutil.SeedCategory(t, db, alice.ID, "Health")
		work := testutil.SeedCategory(t, db, alice.ID, "Work")
		repo := category.NewRepository(gw)

		err := repo.Create(ctx, &category.Category{UserID: alice.ID, Name: "Health"})
		assert.ErrorIs(t, err, category.ErrDuplicateName)

		ok, err := repo.Update(ctx, &category.Category{ID: work.ID, UserID: alice.ID, Name: "Health"})
		assert.ErrorIs(t, err, category.ErrDuplicateName)
		assert.False(t, ok)

		assert.NoError(t, repo.Create(ctx, &category.Category{UserID: bob.ID, Name: "Health"}))
	})

	t.Run("update and delete are scoped to the owner", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		bob := testutil.SeedUser(t, db, "bob")
		c := testutil.SeedCategory(t, db, alice.ID, "Health")
		repo := category.NewRepository(gw)

		ok, err := repo.Update(ctx, &category.Category{ID: c.ID, UserID: bob.ID, Name: "Hijacked"})
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.Delete(ctx, c.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		got, err := repo.FindByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "Health", got.Name)

		ok, err = repo.Update(ctx, &category.Category{ID: c.ID, UserID: alice.ID, Name: "Fitness"})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, c.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Delete(ctx, c.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, ok, "deleting twice reports not found")
	})

	t.Run("exists by name ignores the record being edited", func(t *testing.T) {
		gw, db := testutil.NewGateway(t)
		alice := testutil.SeedUser(t, db, "alice")
		c := testutil.SeedCategory(t, db, alice.ID, "Health")
		repo := category.NewRepository(gw)

		taken, err := repo.ExistsByName(ctx, alice.ID, "Health", 0)
		require.NoError(t, err)
		assert.True(t, taken)

		taken, err = repo.ExistsByName(ctx, alice.ID, "Health", c.ID)
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func newMockGateway(t *testing.T) (*storage.Gateway, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return storage.NewGateway(db), mock
}

func TestCategoryRepositoryWritePredicate(t *testing.T) {
	ctx := context.Background()

	t.Run("delete filters by id and owner", func(t *testing.T) {
		gw, mock := newMockGateway(t)
		mock.ExpectExec(`DELETE FROM "categories" WHERE .*id = \$1 AND user_id = \$2`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := category.NewRepository(gw).Delete(ctx, 4, 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("storage failure surfaces as an error", func(t *testing.T) {
		gw, mock := newMockGateway(t)
		mock.ExpectExec(`UPDATE "categories"`).WillReturnError(sql.ErrConnDone)

		ok, err := category.NewRepository(gw).Update(ctx, &category.Category{ID: 4, UserID: 2, Name: "x"})
		assert.False(t, ok)
		assert.True(t, errors.Is(err, sql.ErrConnDone))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
