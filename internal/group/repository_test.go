// File: internal/group/repository_test.go
package group

import (
	"context"
	"testing"

	"github.com/RulerDevansh/SecretSanta/internal/user"

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

	require.NoError(t, db.AutoMigrate(&user.User{}, &Group{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string) user.User {
	t.Helper()
	u := user.User{Name: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func seedGroup(t *testing.T, db *gorm.DB, repo Repository, host user.User) *Group {
	t.Helper()
	g := &Group{
		Title:   "Family",
		Code:    "AB12CD",
		HostID:  host.ID,
		Members: []user.User{host},
	}
	require.NoError(t, repo.Create(context.Background(), g))
	return g
}

func TestRepository_CreateInsertsHostMembership(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	host := seedUser(t, db, "alice")

	seedGroup(t, db, repo, host)

	found, err := repo.FindByCode(context.Background(), "ab12cd")
	require.NoError(t, err)
	require.Len(t, found.Members, 1)
	assert.Equal(t, host.ID, found.Members[0].ID)

	// The membership insert references the user row by ID; it must not
	// rewrite it.
	var reloaded user.User
	require.NoError(t, db.First(&reloaded, "id = ?", host.ID).Error)
	assert.Equal(t, "alice", reloaded.Name)
	assert.Equal(t, user.ProviderLocal, reloaded.AuthProvider)
}

func TestRepository_AddMemberToReloadedGroup(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	host := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	seedGroup(t, db, repo, host)

	// Join path: the group comes back from FindByCode with members
	// preloaded, then the new member is appended.
	found, err := repo.FindByCode(ctx, "AB12CD")
	require.NoError(t, err)
	require.NoError(t, repo.AddMember(ctx, found, bob.ID))

	found, err = repo.FindByCode(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Len(t, found.Members, 2)
	assert.True(t, found.IsMember(bob.ID))

	var reloaded user.User
	require.NoError(t, db.First(&reloaded, "id = ?", bob.ID).Error)
	assert.Equal(t, "bob", reloaded.Name)
}

func TestRepository_AddMemberIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	host := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	grp := seedGroup(t, db, repo, host)

	require.NoError(t, repo.AddMember(ctx, grp, bob.ID))
	require.NoError(t, repo.AddMember(ctx, grp, bob.ID))

	found, err := repo.FindByCode(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Len(t, found.Members, 2)
}

func TestRepository_RemoveMember(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	host := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	grp := seedGroup(t, db, repo, host)
	require.NoError(t, repo.AddMember(ctx, grp, bob.ID))

	require.NoError(t, repo.RemoveMember(ctx, grp, bob.ID))

	found, err := repo.FindByCode(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Len(t, found.Members, 1)
	assert.False(t, found.IsMember(bob.ID))

	// Leaving a group must not delete the user.
	var count int64
	require.NoError(t, db.Model(&user.User{}).Where("id = ?", bob.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRepository_MarkStartedIsOneWay(t *testing.T) {
	db := newTestDB(t)
	repo := NewGORMRepository(db)
	ctx := context.Background()
	host := seedUser(t, db, "alice")
	grp := seedGroup(t, db, repo, host)

	started, err := repo.MarkStarted(ctx, grp.ID)
	require.NoError(t, err)
	assert.True(t, started)

	started, err = repo.MarkStarted(ctx, grp.ID)
	require.NoError(t, err)
	assert.False(t, started, "second transition must report no rows affected")

	started, err = repo.MarkStarted(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, started)
}
