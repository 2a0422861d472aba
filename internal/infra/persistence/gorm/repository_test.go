package gormpersistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sj140497/SJ-InfloTechTest/internal/domain"
	gormpersistence "github.com/sj140497/SJ-InfloTechTest/internal/infra/persistence/gorm"
	"github.com/sj140497/SJ-InfloTechTest/internal/infra/setup"
	"github.com/sj140497/SJ-InfloTechTest/internal/repository"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	db, err := setup.InitDB(setup.DBConfig{Driver: setup.DriverSQLite, SQLitePath: ":memory:"}, log)
	require.NoError(t, err)
	require.NoError(t, setup.MigrateDB(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newUser(email string) *domain.User {
	return &domain.User{
		Forename:    "Test",
		Surname:     "User",
		Email:       email,
		DateOfBirth: time.Date(1990, time.May, 20, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
	}
}

func TestGormUserRepository_CreateAndGet(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := newUser("Mixed.Case@Example.com")
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)
	assert.Equal(t, "mixed.case@example.com", u.EmailKey)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mixed.Case@Example.com", got.Email)
	assert.Equal(t, "1990-05-20", got.DateOfBirth.Format(domain.DateLayout))
	assert.True(t, got.IsActive)
}

func TestGormUserRepository_GetByID_NotFound(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), 12345)

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGormUserRepository_UniqueEmailIgnoresCase(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("dup@example.com")))
	err := repo.Create(ctx, newUser("DUP@example.com"))

	assert.ErrorIs(t, err, repository.ErrDuplicateEntry)
}

func TestGormUserRepository_UpdateAndDelete(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	a := newUser("a@example.com")
	b := newUser("b@example.com")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	a.Forename = "Changed"
	a.IsActive = false // 零值也必须被写入
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Changed", got.Forename)
	assert.False(t, got.IsActive)

	b.Email = "A@EXAMPLE.COM"
	assert.ErrorIs(t, repo.Update(ctx, b), repository.ErrDuplicateEntry)

	require.NoError(t, repo.Delete(ctx, a))
	_, err = repo.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b@example.com", all[0].Email)
}

func TestGormUserRepository_UpdateMissingOrUnchanged(t *testing.T) {
	repo := gormpersistence.NewGormUserRepository(setupTestDB(t))
	ctx := context.Background()

	ghost := newUser("ghost@example.com")
	ghost.ID = 999
	assert.ErrorIs(t, repo.Update(ctx, ghost), repository.ErrNotFound)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "Update 不得插入新记录")

	// 值未变化的更新仍然成功
	u := newUser("same@example.com")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Update(ctx, u))
}

func TestGormUserLogRepository_Queries(t *testing.T) {
	db := setupTestDB(t)
	repo := gormpersistence.NewGormUserLogRepository(db)
	ctx := context.Background()
	base := time.Date(2024, time.February, 1, 10, 0, 0, 0, time.UTC)

	for i, userID := range []uint{1, 2, 1, 1, 2} {
		entry := &domain.UserLog{
			UserID:    userID,
			Action:    domain.UserActionViewed,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, entry))
	}

	logs, err := repo.FindByUserID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, []uint{4, 3, 1}, []uint{logs[0].ID, logs[1].ID, logs[2].ID})

	page, total, err := repo.FindPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page, 2)
	assert.Equal(t, uint(3), page[0].ID)
	assert.Equal(t, uint(2), page[1].ID)

	entry, err := repo.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(2), entry.UserID)
	assert.True(t, entry.Timestamp.Equal(base.Add(4*time.Minute)))
}
