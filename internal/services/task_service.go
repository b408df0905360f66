package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskdeck/taskdeck-api/internal/constants"
	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrTitleRequired  = errors.New("title is required")
	ErrTitleTooLong   = errors.New("title is too long")
	ErrDetailTooLong  = errors.New("detail is too long")
	ErrInvalidStatus  = errors.New("status must be todo, in-progress, or done")
	ErrInvalidDueDate = errors.New("date or time has an invalid format")
	ErrDueInPast      = errors.New("due date must be in the future")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	OwnerID uint64
	Title   string
	Detail  string
	Date    string
	Time    string
	Status  string
}

// UpdateTaskInput represents input for updating a task. Nil fields are left
// unchanged; Date and Time move together when either changes.
type UpdateTaskInput struct {
	Title  *string
	Detail *string
	Date   *string
	Time   *string
	Status *string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	OwnerID  uint64
	Status   string
	FromDate string
	ToDate   string
	Title    string
	Order    string
}

// TaskStats aggregates the owner's tasks by status.
type TaskStats struct {
	Total    int64                    `json:"total"`
	ByStatus []repository.StatusCount `json:"byStatus"`
}

// CreateTask validates and stores a new task for the owner.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return nil, ErrTitleTooLong
	}
	if utf8.RuneCountInString(input.Detail) > constants.MaxDetailLength {
		return nil, ErrDetailTooLong
	}

	status := models.TaskStatus(input.Status)
	if input.Status == "" {
		status = models.TaskStatusTodo
	} else if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	dueAt, err := combineDueAt(input.Date, input.Time)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:   title,
		Detail:  input.Detail,
		Date:    input.Date,
		Time:    input.Time,
		DueAt:   dueAt,
		Status:  status,
		OwnerID: input.OwnerID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// GetTask returns a task owned by ownerID.
func (s *TaskService) GetTask(id, ownerID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTask applies partial changes to a task owned by ownerID. The due
// instant is re-validated whenever the date or time changes.
func (s *TaskService) UpdateTask(id, ownerID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(id, ownerID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		if utf8.RuneCountInString(title) > constants.MaxTitleLength {
			return nil, ErrTitleTooLong
		}
		task.Title = title
	}
	if input.Detail != nil {
		if utf8.RuneCountInString(*input.Detail) > constants.MaxDetailLength {
			return nil, ErrDetailTooLong
		}
		task.Detail = *input.Detail
	}
	if input.Status != nil {
		status := models.TaskStatus(*input.Status)
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		task.Status = status
	}
	if input.Date != nil || input.Time != nil {
		date := task.Date
		clock := task.Time
		if input.Date != nil {
			date = *input.Date
		}
		if input.Time != nil {
			clock = *input.Time
		}
		dueAt, err := combineDueAt(date, clock)
		if err != nil {
			return nil, err
		}
		task.Date = date
		task.Time = clock
		task.DueAt = dueAt
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task owned by ownerID.
func (s *TaskService) DeleteTask(id, ownerID uint64) error {
	if err := s.taskRepo.Delete(id, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ListTasks returns the owner's tasks matching the optional filters.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, error) {
	filter := repository.TaskFilter{
		OwnerID:    input.OwnerID,
		Title:      strings.TrimSpace(input.Title),
		Descending: input.Order == "desc",
	}

	if input.Status != "" {
		status := input.Status
		filter.Status = &status
	}
	if input.FromDate != "" {
		from, err := time.ParseInLocation(constants.DateLayout, input.FromDate, time.Local)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		filter.DueFrom = &from
	}
	if input.ToDate != "" {
		to, err := time.ParseInLocation(constants.DateLayout, input.ToDate, time.Local)
		if err != nil {
			return nil, ErrInvalidDueDate
		}
		// Inclusive upper bound covering the whole calendar day.
		to = to.Add(24*time.Hour - time.Second)
		filter.DueTo = &to
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Stats aggregates the owner's tasks by status. The total is counted
// independently of the grouping.
func (s *TaskService) Stats(ownerID uint64) (*TaskStats, error) {
	byStatus, err := s.taskRepo.CountByStatus(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate tasks: %w", err)
	}

	total, err := s.taskRepo.CountAll(ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	return &TaskStats{
		Total:    total,
		ByStatus: byStatus,
	}, nil
}

// combineDueAt merges the date and time strings into the due instant, which
// must be strictly in the future.
func combineDueAt(date, clock string) (time.Time, error) {
	dueAt, err := time.ParseInLocation(constants.DateLayout+" "+constants.TimeLayout, date+" "+clock, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDueDate
	}
	if !dueAt.After(time.Now()) {
		return time.Time{}, ErrDueInPast
	}
	return dueAt, nil
}
