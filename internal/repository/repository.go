package repository

import (
	"time"

	"github.com/taskdeck/taskdeck-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByResetToken finds a user holding the given password-reset token
	FindByResetToken(token string) (*models.User, error)

	// Update persists changes to a user
	Update(user *models.User) error

	// Delete soft deletes a user
	Delete(id uint64) error
}

// TaskRepository defines the interface for task data access. Every method
// that touches an existing task is scoped by owner id; a task id alone never
// reaches the store.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task owned by ownerID
	FindByID(id, ownerID uint64) (*models.Task, error)

	// List retrieves the owner's tasks matching the filter
	List(filter TaskFilter) ([]models.Task, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// Delete soft deletes a task owned by ownerID
	Delete(id, ownerID uint64) error

	// CountByStatus groups the owner's tasks by status, most frequent first
	CountByStatus(ownerID uint64) ([]StatusCount, error)

	// CountAll counts the owner's tasks independently of any grouping
	CountAll(ownerID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks. OwnerID is always
// applied; the rest are optional.
type TaskFilter struct {
	OwnerID    uint64
	Status     *string
	DueFrom    *time.Time
	DueTo      *time.Time
	Title      string
	Descending bool
}

// StatusCount is one bucket of the per-status aggregation.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
