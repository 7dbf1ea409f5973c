package sqlite

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskman-api/internal/domain"
)

type userRecord struct {
	ID             string    `gorm:"primaryKey;size:36"`
	Name           string    `gorm:"size:255;not null"`
	Email          string    `gorm:"size:255;not null;uniqueIndex"`
	HashedPassword string    `gorm:"size:255;not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

type taskRecord struct {
	ID          int64       `gorm:"primaryKey;autoIncrement"`
	UserID      string      `gorm:"size:36;not null;index:idx_tasks_user_id_created_at,priority:1"`
	Owner       *userRecord `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Name        string      `gorm:"size:255;not null"`
	Description *string
	Status      string    `gorm:"size:20;not null"`
	DueDate     *string   `gorm:"size:10"` // YYYY-MM-DD, compares lexically
	CreatedAt   time.Time `gorm:"not null;index:idx_tasks_user_id_created_at,priority:2"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (taskRecord) TableName() string { return "tasks" }

func newUserRecord(u *domain.User) *userRecord {
	return &userRecord{
		ID:             u.ID.String(),
		Name:           u.Name,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		CreatedAt:      u.CreatedAt.UTC(),
		UpdatedAt:      u.UpdatedAt.UTC(),
	}
}

func (r *userRecord) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:             id,
		Name:           r.Name,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}, nil
}

func newTaskRecord(t *domain.Task) *taskRecord {
	return &taskRecord{
		ID:          t.ID,
		UserID:      t.UserID.String(),
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     formatDate(t.DueDate),
		CreatedAt:   t.CreatedAt.UTC(),
		UpdatedAt:   t.UpdatedAt.UTC(),
	}
}

func (r *taskRecord) toDomain() (*domain.Task, error) {
	userID, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, err
	}
	task := &domain.Task{
		ID:          r.ID,
		UserID:      userID,
		Name:        r.Name,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.DueDate != nil {
		d, err := time.Parse(domain.DateLayout, *r.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = &d
	}
	return task, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}
