package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/store"
	"gorm.io/gorm"
)

// TaskStore implements store.TaskStore with GORM.
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTaskStore creates a GORM-backed task store. If logger is nil, a
// default logger will be used.
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}

	rec := newTaskRecord(task)
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("user_id", task.UserID.String()))
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}
	task.ID = rec.ID

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// GetByIDForUser implements store.TaskStore.GetByIDForUser
func (s *TaskStore) GetByIDForUser(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var rec taskRecord
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID.String()).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Debug("task not found",
				slog.Int64("task_id", id),
				slog.String("user_id", userID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task", slog.String("error", err.Error()), slog.Int64("task_id", id))
		return nil, store.NewStoreError("task", "get", "query failed", MapError(err))
	}

	task, err := rec.toDomain()
	if err != nil {
		return nil, store.NewStoreError("task", "get", "corrupt row", err)
	}
	return task, nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = time.Now().UTC()
	}

	result := s.db.WithContext(ctx).
		Model(&taskRecord{}).
		Where("id = ? AND user_id = ?", task.ID, task.UserID.String()).
		Updates(map[string]any{
			"name":        task.Name,
			"description": task.Description,
			"status":      string(task.Status),
			"due_date":    formatDate(task.DueDate),
			"updated_at":  task.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		log.Error("failed to update task",
			slog.String("error", result.Error.Error()),
			slog.Int64("task_id", task.ID))
		return store.NewStoreError("task", "update", "update failed", MapError(result.Error))
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully", slog.Int64("task_id", task.ID))
	return nil
}

// DeleteForUser implements store.TaskStore.DeleteForUser
func (s *TaskStore) DeleteForUser(ctx context.Context, userID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID.String()).
		Delete(&taskRecord{})
	if result.Error != nil {
		log.Error("failed to delete task",
			slog.String("error", result.Error.Error()),
			slog.Int64("task_id", id))
		return store.NewStoreError("task", "delete", "delete failed", MapError(result.Error))
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}

// ListByUser implements store.TaskStore.ListByUser
func (s *TaskStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter domain.TaskFilter,
) ([]domain.Task, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int64
	if err := s.filtered(ctx, userID, filter).Count(&total).Error; err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("task", "list", "count failed", MapError(err))
	}

	direction := "DESC"
	if filter.Sort == domain.SortAsc {
		direction = "ASC"
	}

	var recs []taskRecord
	err := s.filtered(ctx, userID, filter).
		Order("created_at " + direction).
		Order("id ASC").
		Limit(domain.TaskPageSize).
		Offset(filter.Offset()).
		Find(&recs).Error
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("task", "list", "query failed", MapError(err))
	}

	tasks := make([]domain.Task, 0, len(recs))
	for i := range recs {
		task, err := recs[i].toDomain()
		if err != nil {
			return nil, 0, store.NewStoreError("task", "list", "corrupt row", err)
		}
		tasks = append(tasks, *task)
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)),
		slog.Int64("total", total))
	return tasks, total, nil
}

// filtered starts a fresh query restricted to userID's tasks matching filter.
func (s *TaskStore) filtered(ctx context.Context, userID uuid.UUID, filter domain.TaskFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&taskRecord{}).Where("user_id = ?", userID.String())

	if filter.Search != "" {
		q = q.Where(`name LIKE ? ESCAPE '\'`, "%"+escapeLike(filter.Search)+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.DueDateFrom != nil && filter.DueDateTo != nil {
		q = q.Where("due_date BETWEEN ? AND ?",
			filter.DueDateFrom.Format(domain.DateLayout), filter.DueDateTo.Format(domain.DateLayout))
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
