package sqlite_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/sqlite"
	"github.com/phrazzld/taskman-api/internal/store"
	"github.com/phrazzld/taskman-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		if err := sqlite.Close(db); err != nil {
			t.Logf("Warning: failed to close database: %v", err)
		}
	})
	return db
}

func TestSQLiteStores(t *testing.T) {
	storetest.Run(t, func(t *testing.T) (store.UserStore, store.TaskStore) {
		db := setupTestDB(t)
		return sqlite.NewUserStore(db, nil), sqlite.NewTaskStore(db, nil)
	})
}

func TestTaskStore_CreateUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	tasks := sqlite.NewTaskStore(db, nil)

	err := tasks.Create(context.Background(), &domain.Task{
		UserID: uuid.New(),
		Name:   "orphan",
		Status: domain.TaskStatusToDo,
	})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestTaskStore_RejectsInvalidTask(t *testing.T) {
	db := setupTestDB(t)
	tasks := sqlite.NewTaskStore(db, nil)

	err := tasks.Create(context.Background(), &domain.Task{UserID: uuid.New(), Name: "x", Status: "Later"})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestMapError(t *testing.T) {
	assert.NoError(t, sqlite.MapError(nil))
	assert.ErrorIs(t, sqlite.MapError(gorm.ErrRecordNotFound), store.ErrNotFound)
	assert.ErrorIs(t, sqlite.MapError(gorm.ErrDuplicatedKey), store.ErrDuplicate)
	assert.ErrorIs(t, sqlite.MapError(gorm.ErrForeignKeyViolated), store.ErrInvalidEntity)
}
