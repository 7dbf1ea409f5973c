// Package mocks holds hand-written test doubles for the store, token and
// password interfaces, plus a testify-based ResultCache mock.
//
// Store and token mocks follow one pattern: every interface method has a
// matching function field (CreateFn, GetByIDForUserFn, ...). A nil field
// falls back to a simple default, usually backed by an in-memory map or the
// mock's Err field, and call counters record how often each method ran:
//
//	tasks := &mocks.MockTaskStore{
//	    GetByIDForUserFn: func(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
//	        return nil, store.ErrTaskNotFound
//	    },
//	}
//	svc, _ := service.NewTaskService(tasks, cache.NewMemoryCache(), service.TaskServiceOptions{}, nil)
//
// Service-level interfaces are not mocked here; tests exercise the real
// services over SQLite instead.
package mocks
