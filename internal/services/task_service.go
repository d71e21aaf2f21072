package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/models"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

// TaskService manages CRUD operations on tasks, enforcing per-resource
// ownership on every read and mutation. A nonexistent task and a task owned by
// someone else are reported as distinct failures.
type TaskService struct {
	db *gorm.DB
}

// NewTaskService constructs a task service once a database handle is supplied.
func NewTaskService(db *gorm.DB) (*TaskService, error) {
	if db == nil {
		return nil, errors.New("task service: db is required")
	}
	return &TaskService{db: db}, nil
}

// CreateTaskInput captures required fields when creating a task.
type CreateTaskInput struct {
	Title       string
	Description string
}

// UpdateTaskInput describes mutable task fields. A nil or empty value leaves
// the stored field unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
}

// List retrieves every task owned by the user, oldest first.
func (s *TaskService) List(ctx context.Context, userID uint) ([]models.Task, error) {
	ctx = ensureContext(ctx)

	var tasks []models.Task
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(err, "could not list tasks")
	}
	return tasks, nil
}

// Get retrieves a single task after the ownership check.
func (s *TaskService) Get(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	return s.loadOwned(ctx, userID, taskID)
}

// Create persists a new task owned by the user with done=false.
func (s *TaskService) Create(ctx context.Context, userID uint, input CreateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.ErrTitleRequired
	}

	task := models.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Done:        false,
	}

	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, apperrors.Wrap(err, "could not create task")
	}
	return &task, nil
}

// Update applies partial changes to a task the user owns. Provided non-empty
// fields overwrite the stored values; everything else is left as is.
func (s *TaskService) Update(ctx context.Context, userID, taskID uint, input UpdateTaskInput) (*models.Task, error) {
	ctx = ensureContext(ctx)

	task, err := s.loadOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			updates["title"] = title
		}
	}
	if input.Description != nil {
		if description := strings.TrimSpace(*input.Description); description != "" {
			updates["description"] = description
		}
	}

	if len(updates) == 0 {
		return task, nil
	}

	if err := s.db.WithContext(ctx).Model(task).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(err, "could not update task")
	}
	return task, nil
}

// SetDone marks a task the user owns as completed. There is no reverse
// operation; a completed task stays completed.
func (s *TaskService) SetDone(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	ctx = ensureContext(ctx)

	task, err := s.loadOwned(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(task).Update("done", true).Error; err != nil {
		return nil, apperrors.Wrap(err, "could not update task")
	}

	task.Done = true
	return task, nil
}

// Delete removes a task the user owns permanently.
func (s *TaskService) Delete(ctx context.Context, userID, taskID uint) error {
	ctx = ensureContext(ctx)

	task, err := s.loadOwned(ctx, userID, taskID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(task).Error; err != nil {
		return apperrors.Wrap(err, "could not delete task")
	}
	return nil
}

// loadOwned fetches a task by id and enforces the ownership check shared by
// every single-task operation: absent id → TaskNotFound, someone else's task →
// NotOwner.
func (s *TaskService) loadOwned(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	ctx = ensureContext(ctx)

	var task models.Task
	err := s.db.WithContext(ctx).First(&task, "id = ?", taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrTaskNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "could not load task")
	}

	if task.UserID != userID {
		return nil, apperrors.ErrNotOwner
	}

	return &task, nil
}
