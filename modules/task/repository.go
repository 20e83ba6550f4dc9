package task

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/vidhun05/To-Do/domain/task"
	"gorm.io/gorm"
)

// Repository provides access to task storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new task to the database.
func (r *Repository) Create(ctx context.Context, task *domain.Task) error {
	if task.Subtasks == nil {
		task.Subtasks = []domain.Subtask{}
	}
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, nil
}

// List returns the tasks whose completed flag matches, ordered by mode.
func (r *Repository) List(ctx context.Context, completed bool, mode domain.SortMode) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := r.db.WithContext(ctx).Where("completed = ?", completed).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	domain.Sort(tasks, mode)
	return tasks, nil
}

// Delete removes a task by ID. The row is gone for good.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// MarkComplete sets the completed flag on a task.
func (r *Repository) MarkComplete(ctx context.Context, id string) (*domain.Task, error) {
	return r.mutate(ctx, id, func(task *domain.Task) error {
		task.MarkComplete()
		return nil
	})
}

// Update applies a partial update and returns the task together with the
// names of the fields that changed.
func (r *Repository) Update(ctx context.Context, id string, changes domain.Changes) (*domain.Task, []string, error) {
	var applied []string
	task, err := r.mutate(ctx, id, func(task *domain.Task) error {
		applied = task.Apply(changes)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return task, applied, nil
}

// ToggleSubtask sets the completion flag of one subtask.
func (r *Repository) ToggleSubtask(ctx context.Context, id string, index int, completed bool) (*domain.Task, error) {
	return r.mutate(ctx, id, func(task *domain.Task) error {
		return task.ToggleSubtask(index, completed)
	})
}

// mutate loads a task, applies fn and writes the whole record back inside a
// single transaction. created_at is never written. If fn fails nothing is
// persisted.
func (r *Repository) mutate(ctx context.Context, id string, fn func(*domain.Task) error) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrTaskNotFound
			}
			return fmt.Errorf("failed to find task: %w", err)
		}

		if err := fn(&task); err != nil {
			return err
		}

		if err := tx.Model(&task).Select("*").Omit("CreatedAt").Updates(&task).Error; err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
