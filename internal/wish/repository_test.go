// File: internal/wish/repository_test.go
package wish

import (
	"context"
	"testing"

	"github.com/RulerDevansh/SecretSanta/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Wish{}))
	return db
}

func testWish(groupID, userID uuid.UUID) *Wish {
	return &Wish{
		GroupID:        groupID,
		UserID:         userID,
		DisplayName:    "Bob",
		FavoriteColor:  "green",
		FavoriteSnacks: "pretzels",
		Hobbies:        "chess",
		ThingsLove:     []string{"books", "coffee"},
		ThingsNoNeed:   []string{"candles"},
	}
}

func TestRepository_CreateEnforcesUniqueness(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	groupID, userID := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, testWish(groupID, userID)))

	err := repo.Create(ctx, testWish(groupID, userID))
	assert.ErrorIs(t, err, ErrDuplicateSubmission, "second insert for the same (group, user) must fail on the index")

	// Same user in a different group and a different user in the same group
	// are both fine.
	assert.NoError(t, repo.Create(ctx, testWish(uuid.New(), userID)))
	assert.NoError(t, repo.Create(ctx, testWish(groupID, uuid.New())))
}

func TestRepository_RoundTripPreservesLists(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	groupID, userID := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, testWish(groupID, userID)))

	got, err := repo.FindByGroupAndUser(ctx, groupID, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{"books", "coffee"}, got.ThingsLove)
	assert.Equal(t, []string{"candles"}, got.ThingsNoNeed)
	assert.False(t, got.Delivered)
}

func TestRepository_FindMissingReturnsNotFound(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))

	_, err := repo.FindByGroupAndUser(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestRepository_DeleteRemovesProvisionalRow(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	groupID, userID := uuid.New(), uuid.New()

	w := testWish(groupID, userID)
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.Delete(ctx, w.ID))

	_, err := repo.FindByGroupAndUser(ctx, groupID, userID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	// After the rollback the same pair can submit again.
	assert.NoError(t, repo.Create(ctx, testWish(groupID, userID)))
}

func TestRepository_MarkDelivered(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	groupID, userID := uuid.New(), uuid.New()

	w := testWish(groupID, userID)
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.MarkDelivered(ctx, w.ID))

	got, err := repo.FindByGroupAndUser(ctx, groupID, userID)
	require.NoError(t, err)
	assert.True(t, got.Delivered)
}

func TestRepository_StatusesByGroup(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	groupID := uuid.New()
	deliveredUser, pendingUser := uuid.New(), uuid.New()

	w1 := testWish(groupID, deliveredUser)
	require.NoError(t, repo.Create(ctx, w1))
	require.NoError(t, repo.MarkDelivered(ctx, w1.ID))
	require.NoError(t, repo.Create(ctx, testWish(groupID, pendingUser)))
	require.NoError(t, repo.Create(ctx, testWish(uuid.New(), uuid.New()))) // other group

	statuses, err := repo.StatusesByGroup(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, statuses, 2)
	assert.True(t, statuses[deliveredUser].Delivered)
	assert.True(t, statuses[pendingUser].Submitted)
	assert.False(t, statuses[pendingUser].Delivered)
}

func TestRepository_DeleteByGroupAndUser(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	groupID := uuid.New()
	leaving, staying := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, testWish(groupID, leaving)))
	require.NoError(t, repo.Create(ctx, testWish(groupID, staying)))
	require.NoError(t, repo.DeleteByGroupAndUser(ctx, groupID, leaving))

	statuses, err := repo.StatusesByGroup(ctx, groupID)
	require.NoError(t, err)
	assert.Len(t, statuses, 1)
	assert.Contains(t, statuses, staying)
}

func TestRepository_DeleteByGroup(t *testing.T) {
	repo := NewGORMRepository(newTestDB(t))
	ctx := context.Background()
	groupID, otherGroupID := uuid.New(), uuid.New()

	require.NoError(t, repo.Create(ctx, testWish(groupID, uuid.New())))
	require.NoError(t, repo.Create(ctx, testWish(groupID, uuid.New())))
	require.NoError(t, repo.Create(ctx, testWish(otherGroupID, uuid.New())))

	require.NoError(t, repo.DeleteByGroup(ctx, groupID))

	statuses, err := repo.StatusesByGroup(ctx, groupID)
	require.NoError(t, err)
	assert.Empty(t, statuses)

	otherStatuses, err := repo.StatusesByGroup(ctx, otherGroupID)
	require.NoError(t, err)
	assert.Len(t, otherStatuses, 1)
}
