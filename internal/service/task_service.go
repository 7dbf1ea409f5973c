package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/cache"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/store"
	"golang.org/x/sync/singleflight"
)

// TaskService manages a user's tasks. Every method is scoped to userID:
// tasks owned by anyone else behave as if they did not exist.
type TaskService interface {
	// GetAllTasks returns one page of the user's tasks matching filter.
	// Listings are served from the cache when an entry is present.
	GetAllTasks(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) (*domain.TaskListing, error)

	// CreateTask validates input and stores a new task for the user.
	CreateTask(ctx context.Context, userID uuid.UUID, input domain.TaskInput) (*domain.Task, error)

	// GetTaskByID returns the task, or ErrTaskNotFound.
	GetTaskByID(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error)

	// UpdateTask applies the fields present in patch. Returns ErrTaskNotFound
	// when the task is absent.
	UpdateTask(ctx context.Context, userID uuid.UUID, taskID int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes the task. It reports false, with no error, when
	// there was nothing to delete.
	DeleteTask(ctx context.Context, userID uuid.UUID, taskID int64) (bool, error)
}

// TaskServiceOptions tunes listing caching.
type TaskServiceOptions struct {
	// CacheTTL is how long a listing stays cached. Zero or less disables caching.
	CacheTTL time.Duration

	// KeyByFilters caches each distinct filter/page under its own key.
	// When false every listing of a user shares one key, so a cached
	// listing is returned whatever filters the caller asks for.
	KeyByFilters bool
}

type taskServiceImpl struct {
	tasks   store.TaskStore
	cache   cache.ResultCache
	opts    TaskServiceOptions
	logger  *slog.Logger
	sfGroup singleflight.Group
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a TaskService.
func NewTaskService(
	tasks store.TaskStore,
	resultCache cache.ResultCache,
	opts TaskServiceOptions,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, errors.New("task store cannot be nil")
	}
	if resultCache == nil {
		return nil, errors.New("result cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskServiceImpl{
		tasks:  tasks,
		cache:  resultCache,
		opts:   opts,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

// ownedTask is the outcome of looking a task up on behalf of a user.
// found is false both when the task is missing and when another user owns it.
type ownedTask struct {
	task  *domain.Task
	found bool
}

// lookupOwnedTask is the single lookup-and-authorize step behind get,
// update and delete.
func (s *taskServiceImpl) lookupOwnedTask(ctx context.Context, userID uuid.UUID, taskID int64) (ownedTask, error) {
	task, err := s.tasks.GetByIDForUser(ctx, userID, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ownedTask{}, nil
		}
		return ownedTask{}, err
	}
	if task.UserID != userID {
		return ownedTask{}, nil
	}
	return ownedTask{task: task, found: true}, nil
}

// GetAllTasks implements TaskService.GetAllTasks
func (s *taskServiceImpl) GetAllTasks(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) (*domain.TaskListing, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	key := s.listingKey(userID, filter)

	var cached domain.TaskListing
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Warn("listing cache read failed",
			slog.String("error", err.Error()),
			slog.String("key", key))
	}
	if found {
		log.Debug("listing cache hit", slog.String("key", key))
		return &cached, nil
	}

	// The flight outlives any single caller, so it must not inherit
	// cancellation from whichever request happened to start it.
	flightCtx := context.WithoutCancel(ctx)
	sfKey := userID.String() + "|" + filter.Fingerprint()
	val, err, shared := s.sfGroup.Do(sfKey, func() (any, error) {
		listing, err := s.loadListing(flightCtx, userID, filter)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(flightCtx, key, listing, s.opts.CacheTTL); err != nil {
			log.Warn("listing cache write failed",
				slog.String("error", err.Error()),
				slog.String("key", key))
		}
		return listing, nil
	})
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, newTaskServiceError("list", err)
	}
	listing := val.(*domain.TaskListing)

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int64("total", listing.Pagination.Total),
		slog.Bool("shared", shared))

	// Callers sharing a flight get their own copy of the page.
	out := *listing
	out.Items = append([]domain.Task(nil), listing.Items...)
	return &out, nil
}

func (s *taskServiceImpl) loadListing(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) (*domain.TaskListing, error) {
	items, total, err := s.tasks.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Task{}
	}
	return &domain.TaskListing{
		Items:      items,
		Pagination: domain.NewPageInfo(filter.Page, domain.TaskPageSize, total),
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input domain.TaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, input)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, newTaskServiceError("create", err)
	}

	s.invalidateListings(ctx, userID)

	log.Info("task created",
		slog.String("user_id", userID.String()),
		slog.Int64("task_id", task.ID))
	return task, nil
}

// GetTaskByID implements TaskService.GetTaskByID
func (s *taskServiceImpl) GetTaskByID(ctx context.Context, userID uuid.UUID, taskID int64) (*domain.Task, error) {
	owned, err := s.lookupOwnedTask(ctx, userID, taskID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, newTaskServiceError("get", err)
	}
	if !owned.found {
		return nil, ErrTaskNotFound
	}
	return owned.task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID uuid.UUID,
	taskID int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	owned, err := s.lookupOwnedTask(ctx, userID, taskID)
	if err != nil {
		log.Error("failed to load task for update",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, newTaskServiceError("update", err)
	}
	if !owned.found {
		return nil, ErrTaskNotFound
	}

	task := owned.task
	if err := task.ApplyPatch(patch); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		// Deleted between the lookup and the write.
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return nil, newTaskServiceError("update", err)
	}

	s.invalidateListings(ctx, userID)

	log.Info("task updated",
		slog.String("user_id", userID.String()),
		slog.Int64("task_id", taskID))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID uuid.UUID, taskID int64) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	owned, err := s.lookupOwnedTask(ctx, userID, taskID)
	if err != nil {
		log.Error("failed to load task for delete",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return false, newTaskServiceError("delete", err)
	}
	if !owned.found {
		return false, nil
	}

	if err := s.tasks.DeleteForUser(ctx, userID, taskID); err != nil {
		if store.IsNotFoundError(err) {
			return false, nil
		}
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", taskID))
		return false, newTaskServiceError("delete", err)
	}

	s.invalidateListings(ctx, userID)

	log.Info("task deleted",
		slog.String("user_id", userID.String()),
		slog.Int64("task_id", taskID))
	return true, nil
}

func (s *taskServiceImpl) listingKey(userID uuid.UUID, filter domain.TaskFilter) string {
	if s.opts.KeyByFilters {
		return cache.FilteredListingKey(userID, filter.Fingerprint())
	}
	return cache.ListingKey(userID)
}

// invalidateListings evicts every cached listing of the user. The write has
// already succeeded, so a cache failure is logged rather than returned.
func (s *taskServiceImpl) invalidateListings(ctx context.Context, userID uuid.UUID) {
	key := cache.ListingKey(userID)

	var err error
	if s.opts.KeyByFilters {
		err = s.cache.DeletePrefix(ctx, key)
	} else {
		err = s.cache.Delete(ctx, key)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to invalidate task listings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
	}
}

// normalizeFilter applies listing defaults to a filter built without
// domain.TaskQuery and rejects values the stores cannot handle.
func normalizeFilter(f domain.TaskFilter) (domain.TaskFilter, error) {
	f.Page = domain.ClampPage(f.Page)
	if f.Sort == "" {
		f.Sort = domain.SortDesc
	}
	if f.DueDateFrom == nil || f.DueDateTo == nil {
		f.DueDateFrom, f.DueDateTo = nil, nil
	}

	verr := &domain.ValidationError{}
	if f.Sort != domain.SortAsc && f.Sort != domain.SortDesc {
		verr.Add("sort", domain.FieldMessage("sort", "in", ""))
	}
	if err := verr.ErrOrNil(); err != nil {
		return domain.TaskFilter{}, fmt.Errorf("invalid task filter: %w", err)
	}
	return f, nil
}
