package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uleam/univoz-service/internal/models"
	"github.com/uleam/univoz-service/internal/repositories"
	"github.com/uleam/univoz-service/internal/repositories/postgres"
	"github.com/uleam/univoz-service/internal/testutil"
)

func setupRepository(t *testing.T) repositories.Repository {
	t.Helper()

	db := testutil.SetupTestDB(t)
	require.NoError(t, postgres.Migrate(context.Background(), db))

	client, _ := testutil.SetupTestRedis(t)
	return postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: client,
		CacheTTL:    time.Minute,
	})
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, postgres.Migrate(ctx, db))
	require.NoError(t, postgres.Migrate(ctx, db))

	for _, table := range []string{"usuarios", "votos", "opiniones"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestUserRepository(t *testing.T) {
	repo := setupRepository(t)
	users := repo.User()
	ctx := context.Background()

	created, err := users.CreateIfAbsent(ctx, &models.User{Email: "a@x.com", Password: "hash", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = users.CreateIfAbsent(ctx, &models.User{Email: "a@x.com", Password: "other", Role: models.RoleStudent})
	require.NoError(t, err)
	assert.False(t, created, "second seed with the same email is ignored")

	err = users.Create(ctx, &models.User{Email: "a@x.com", Password: "hash"})
	assert.True(t, errors.Is(err, repositories.ErrDuplicateKey))

	require.NoError(t, users.Create(ctx, &models.User{Email: "b@x.com", Password: "hash"}))

	b, err := users.GetByEmail(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, b.Role, "rol defaults to estudiante")

	_, err = users.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, repositories.ErrRecordNotFound)

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a@x.com", list[0].Email)
	assert.Empty(t, list[0].Password)

	affected, err := users.UpdateRole(ctx, b.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	affected, err = users.Delete(ctx, 9999)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	affected, err = users.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)
}

func TestVoteRepository_OneVotePerEmail(t *testing.T) {
	repo := setupRepository(t)
	votes := repo.Vote()
	ctx := context.Background()

	inserted, err := votes.Create(ctx, &models.Vote{Email: "v@x.com", Candidate: "Lista A"})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = votes.Create(ctx, &models.Vote{Email: "v@x.com", Candidate: "Lista B"})
	require.NoError(t, err)
	assert.False(t, inserted)

	tally, err := votes.Tally(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CandidateTally{{Candidate: "Lista A", Total: 1}}, tally)

	exists, err := votes.ExistsByEmail(ctx, "v@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestVoteRepository_ConcurrentSubmissions(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	insertedCount := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := repo.Vote().Create(ctx, &models.Vote{Email: "race@x.com", Candidate: "Lista A"})
			assert.NoError(t, err)
			if inserted {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, insertedCount)
	list, err := repo.Vote().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVoteRepository_TallyCacheInvalidation(t *testing.T) {
	repo := setupRepository(t)
	votes := repo.Vote()
	ctx := context.Background()

	_, err := votes.Create(ctx, &models.Vote{Email: "1@x.com", Candidate: "Lista A"})
	require.NoError(t, err)

	tally, err := votes.Tally(ctx)
	require.NoError(t, err)
	require.Len(t, tally, 1)

	_, err = votes.Create(ctx, &models.Vote{Email: "2@x.com", Candidate: "Lista A"})
	require.NoError(t, err)

	tally, err = votes.Tally(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, tally[0].Total, "cached tally is dropped on write")
}

func TestVoteRepository_DeleteAllRestartsIdentity(t *testing.T) {
	repo := setupRepository(t)
	votes := repo.Vote()
	ctx := context.Background()

	for _, email := range []string{"1@x.com", "2@x.com"} {
		_, err := votes.Create(ctx, &models.Vote{Email: email, Candidate: "Lista A"})
		require.NoError(t, err)
	}

	require.NoError(t, votes.DeleteAll(ctx))

	tally, err := votes.Tally(ctx)
	require.NoError(t, err)
	assert.Empty(t, tally)

	vote := &models.Vote{Email: "3@x.com", Candidate: "Lista B"}
	_, err = votes.Create(ctx, vote)
	require.NoError(t, err)
	assert.EqualValues(t, 1, vote.ID)
}

func TestOpinionRepository(t *testing.T) {
	repo := setupRepository(t)
	opinions := repo.Opinion()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, opinions.Create(ctx, &models.Opinion{Email: "o@x.com", Category: models.CategoryCafeteria, Rating: 4}))
	}
	require.NoError(t, opinions.Create(ctx, &models.Opinion{Email: "o@x.com", Category: models.CategoryLabs, Rating: 2}))

	all, err := opinions.List(ctx, repositories.OpinionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3, "repeated submissions are all stored")
	assert.Equal(t, models.CategoryLabs, all[0].Category, "newest first")

	cafe, err := opinions.List(ctx, repositories.OpinionFilters{Category: models.CategoryCafeteria})
	require.NoError(t, err)
	assert.Len(t, cafe, 2)

	exists, err := opinions.ExistsByEmailAndCategory(ctx, "o@x.com", models.CategoryLabs)
	require.NoError(t, err)
	assert.True(t, exists)

	removed, err := opinions.DeleteByCategory(ctx, models.CategoryCafeteria)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	all, err = opinions.List(ctx, repositories.OpinionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	removed, err = opinions.Delete(ctx, all[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestRepository_FullResetInTransaction(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Vote().Create(ctx, &models.Vote{Email: "r@x.com", Candidate: "Lista A"})
	require.NoError(t, err)
	require.NoError(t, repo.Opinion().Create(ctx, &models.Opinion{Email: "r@x.com", Category: models.CategoryLabs, Rating: 5}))

	err = repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Vote().DeleteAll(ctx); err != nil {
			return err
		}
		return tx.Opinion().DeleteAll(ctx)
	})
	require.NoError(t, err)

	opinion := &models.Opinion{Email: "r@x.com", Category: models.CategoryLabs, Rating: 1}
	require.NoError(t, repo.Opinion().Create(ctx, opinion))
	assert.EqualValues(t, 1, opinion.ID)

	vote := &models.Vote{Email: "r@x.com", Candidate: "Lista B"}
	inserted, err := repo.Vote().Create(ctx, vote)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.EqualValues(t, 1, vote.ID)
}

func TestRepository_ResetDropsCacheAfterCommit(t *testing.T) {
	db := testutil.SetupFileTestDB(t)
	ctx := context.Background()
	require.NoError(t, postgres.Migrate(ctx, db))

	client, _ := testutil.SetupTestRedis(t)
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: client,
		CacheTTL:    time.Minute,
	})

	_, err := repo.Vote().Create(ctx, &models.Vote{Email: "s@x.com", Candidate: "Lista A"})
	require.NoError(t, err)
	require.NoError(t, repo.Opinion().Create(ctx, &models.Opinion{Email: "s@x.com", Category: models.CategoryLabs, Rating: 3}))

	err = repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Vote().DeleteAll(ctx); err != nil {
			return err
		}
		if err := tx.Opinion().DeleteAll(ctx); err != nil {
			return err
		}

		// A request outside the transaction still sees the committed rows
		// and caches them.
		tally, err := repo.Vote().Tally(ctx)
		require.NoError(t, err)
		assert.Len(t, tally, 1)

		opinions, err := repo.Opinion().List(ctx, repositories.OpinionFilters{})
		require.NoError(t, err)
		assert.Len(t, opinions, 1)
		return nil
	})
	require.NoError(t, err)

	tally, err := repo.Vote().Tally(ctx)
	require.NoError(t, err)
	assert.Empty(t, tally, "tally cached during the reset is dropped on commit")

	opinions, err := repo.Opinion().List(ctx, repositories.OpinionFilters{})
	require.NoError(t, err)
	assert.Empty(t, opinions, "opinion list cached during the reset is dropped on commit")
}

func TestRepository_RolledBackResetKeepsRows(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Vote().Create(ctx, &models.Vote{Email: "k@x.com", Candidate: "Lista A"})
	require.NoError(t, err)

	err = repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Vote().DeleteAll(ctx); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	tally, err := repo.Vote().Tally(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CandidateTally{{Candidate: "Lista A", Total: 1}}, tally)
}
