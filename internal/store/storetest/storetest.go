// Package storetest holds behavioural tests shared by every store
// implementation. Each backend runs the same suite against its own
// UserStore and TaskStore.
package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns fresh, empty stores for one subtest.
type Factory func(t *testing.T) (store.UserStore, store.TaskStore)

// Run executes the full suite.
func Run(t *testing.T, newStores Factory) {
	t.Run("UserCreateAndGet", func(t *testing.T) { testUserCreateAndGet(t, newStores) })
	t.Run("UserDuplicateEmail", func(t *testing.T) { testUserDuplicateEmail(t, newStores) })
	t.Run("TaskCRUD", func(t *testing.T) { testTaskCRUD(t, newStores) })
	t.Run("TaskOwnership", func(t *testing.T) { testTaskOwnership(t, newStores) })
	t.Run("ListFilters", func(t *testing.T) { testListFilters(t, newStores) })
	t.Run("ListPagination", func(t *testing.T) { testListPagination(t, newStores) })
}

// MustCreateUser inserts a user with a placeholder hash.
func MustCreateUser(t *testing.T, users store.UserStore, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser("Test User", email, "$2a$04$placeholderplaceholderplaceholderpl")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

// MustCreateTask inserts a task with the given name and status.
func MustCreateTask(t *testing.T, tasks store.TaskStore, userID uuid.UUID, name string, status domain.TaskStatus, createdAt time.Time) *domain.Task {
	t.Helper()
	task := &domain.Task{
		UserID:    userID,
		Name:      name,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, tasks.Create(context.Background(), task))
	require.NotZero(t, task.ID)
	return task
}

func testUserCreateAndGet(t *testing.T, newStores Factory) {
	users, _ := newStores(t)
	ctx := context.Background()

	user := MustCreateUser(t, users, "john@example.com")

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byID.ID)
	assert.Equal(t, "Test User", byID.Name)
	assert.Equal(t, user.HashedPassword, byID.HashedPassword)

	byEmail, err := users.GetByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	err = users.Create(ctx, &domain.User{ID: uuid.New()})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func testUserDuplicateEmail(t *testing.T, newStores Factory) {
	users, _ := newStores(t)

	MustCreateUser(t, users, "dup@example.com")

	again, err := domain.NewUser("Other", "dup@example.com", "hash")
	require.NoError(t, err)
	err = users.Create(context.Background(), again)
	assert.ErrorIs(t, err, store.ErrEmailExists)
	assert.True(t, store.IsDuplicateError(err))
}

func testTaskCRUD(t *testing.T, newStores Factory) {
	users, tasks := newStores(t)
	ctx := context.Background()
	owner := MustCreateUser(t, users, "crud@example.com")

	desc := "two liters"
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{
		UserID:      owner.ID,
		Name:        "Buy milk",
		Description: &desc,
		Status:      domain.TaskStatusToDo,
		DueDate:     &due,
	}
	require.NoError(t, tasks.Create(ctx, task))
	require.NotZero(t, task.ID)
	assert.False(t, task.CreatedAt.IsZero())

	got, err := tasks.GetByIDForUser(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Name)
	assert.Equal(t, domain.TaskStatusToDo, got.Status)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-03-01", got.DueDate.Format(domain.DateLayout))

	got.Status = domain.TaskStatusDone
	got.Description = nil
	got.DueDate = nil
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, tasks.Update(ctx, got))

	updated, err := tasks.GetByIDForUser(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusDone, updated.Status)
	assert.Nil(t, updated.Description)
	assert.Nil(t, updated.DueDate)

	require.NoError(t, tasks.DeleteForUser(ctx, owner.ID, task.ID))
	_, err = tasks.GetByIDForUser(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	err = tasks.DeleteForUser(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound, "second delete must report absence")
}

func testTaskOwnership(t *testing.T, newStores Factory) {
	users, tasks := newStores(t)
	ctx := context.Background()
	alice := MustCreateUser(t, users, "alice@example.com")
	bob := MustCreateUser(t, users, "bob@example.com")

	task := MustCreateTask(t, tasks, alice.ID, "Alice's task", domain.TaskStatusToDo, time.Now().UTC())

	_, err := tasks.GetByIDForUser(ctx, bob.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	hijack := *task
	hijack.UserID = bob.ID
	hijack.Name = "Bob was here"
	assert.ErrorIs(t, tasks.Update(ctx, &hijack), store.ErrTaskNotFound)

	assert.ErrorIs(t, tasks.DeleteForUser(ctx, bob.ID, task.ID), store.ErrTaskNotFound)

	still, err := tasks.GetByIDForUser(ctx, alice.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's task", still.Name)

	items, total, err := tasks.ListByUser(ctx, bob.ID, mustFilter(t, domain.TaskQuery{}))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func testListFilters(t *testing.T, newStores Factory) {
	users, tasks := newStores(t)
	ctx := context.Background()
	owner := MustCreateUser(t, users, "filters@example.com")
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	seed := []struct {
		name   string
		status domain.TaskStatus
		due    string
	}{
		{"Buy MILK", domain.TaskStatusToDo, "2025-01-10"},
		{"milkshake recipe", domain.TaskStatusDone, "2025-01-20"},
		{"Walk dog", domain.TaskStatusDone, "2025-01-15"},
		{"50% discount", domain.TaskStatusInProgress, ""},
	}
	for i, s := range seed {
		task := &domain.Task{
			UserID:    owner.ID,
			Name:      s.name,
			Status:    s.status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base,
		}
		if s.due != "" {
			d, err := domain.ParseDate(s.due)
			require.NoError(t, err)
			task.DueDate = &d
		}
		require.NoError(t, tasks.Create(ctx, task))
	}

	names := func(q domain.TaskQuery) []string {
		items, total, err := tasks.ListByUser(ctx, owner.ID, mustFilter(t, q))
		require.NoError(t, err)
		assert.Equal(t, int64(len(items)), total)
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.Name)
		}
		return out
	}

	assert.Equal(t, []string{"50% discount", "Walk dog", "milkshake recipe", "Buy MILK"}, names(domain.TaskQuery{}))
	assert.Equal(t, []string{"Buy MILK", "milkshake recipe", "Walk dog", "50% discount"}, names(domain.TaskQuery{Sort: "asc"}))
	assert.Equal(t, []string{"milkshake recipe", "Buy MILK"}, names(domain.TaskQuery{Search: "milk"}))
	assert.Equal(t, []string{"milkshake recipe"}, names(domain.TaskQuery{Search: "milk", Status: "Done"}))
	assert.Equal(t, []string{"50% discount"}, names(domain.TaskQuery{Search: "%"}))
	assert.Equal(t, []string{"Walk dog", "Buy MILK"},
		names(domain.TaskQuery{DueDateFrom: "2025-01-10", DueDateTo: "2025-01-15"}))
	assert.Equal(t, []string{"milkshake recipe"},
		names(domain.TaskQuery{Search: "milk", DueDateFrom: "2025-01-11", DueDateTo: "2025-01-31"}))
	assert.Equal(t, []string{"Walk dog"}, names(domain.TaskQuery{Status: "Done", Search: "dog", DueDateTo: "2025-01-14"}),
		"a lone due-date bound is ignored")
	assert.Empty(t, names(domain.TaskQuery{Status: "Someday"}))

	// Stores apply the range only when both bounds are present, even when
	// handed a filter that skipped TaskQuery.Filter.
	from := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, filter := range []domain.TaskFilter{
		{DueDateFrom: &from, Sort: domain.SortDesc, Page: 1},
		{DueDateTo: &from, Sort: domain.SortDesc, Page: 1},
	} {
		items, total, err := tasks.ListByUser(ctx, owner.ID, filter)
		require.NoError(t, err)
		assert.Len(t, items, 4)
		assert.Equal(t, int64(4), total)
	}
}

func testListPagination(t *testing.T, newStores Factory) {
	users, tasks := newStores(t)
	ctx := context.Background()
	owner := MustCreateUser(t, users, "pages@example.com")

	// Identical timestamps force the insertion-order tie-break.
	created := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)
	const n = 23
	var want []int64
	for i := 0; i < n; i++ {
		task := MustCreateTask(t, tasks, owner.ID, fmt.Sprintf("task %02d", i), domain.TaskStatusToDo, created)
		want = append(want, task.ID)
	}

	var got []int64
	for page := 1; page <= 3; page++ {
		items, total, err := tasks.ListByUser(ctx, owner.ID, mustFilter(t, domain.TaskQuery{Page: page}))
		require.NoError(t, err)
		assert.Equal(t, int64(n), total)
		for _, it := range items {
			got = append(got, it.ID)
		}
	}
	assert.Equal(t, want, got, "pages must concatenate to the full set in insertion order")

	items, total, err := tasks.ListByUser(ctx, owner.ID, mustFilter(t, domain.TaskQuery{Page: 4}))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(n), total)
}

func mustFilter(t *testing.T, q domain.TaskQuery) domain.TaskFilter {
	t.Helper()
	f, err := q.Filter()
	require.NoError(t, err)
	return f
}
