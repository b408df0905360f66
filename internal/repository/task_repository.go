package repository

import (
	"strings"

	"github.com/taskdeck/taskdeck-api/internal/models"
	"gorm.io/gorm"
)

// statusBucketExpr folds missing status values into a sentinel bucket for
// the stats aggregation.
const statusBucketExpr = "CASE WHEN status IS NULL OR status = '' THEN 'unset' ELSE status END"

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task owned by ownerID. A task owned by someone else is
// indistinguishable from a missing one.
func (r *GormTaskRepository) FindByID(id, ownerID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves the owner's tasks matching the filter
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("owner_id = ?", filter.OwnerID)

	// Apply filters. Status is passed through verbatim: an unknown value
	// simply matches nothing.
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_at >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_at <= ?", *filter.DueTo)
	}
	if filter.Title != "" {
		query = query.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(filter.Title)+"%")
	}

	if filter.Descending {
		query = query.Order("due_at DESC")
	} else {
		query = query.Order("due_at ASC")
	}

	if err := query.Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task owned by ownerID
func (r *GormTaskRepository) Delete(id, ownerID uint64) error {
	result := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByStatus groups the owner's tasks by status, most frequent first
func (r *GormTaskRepository) CountByStatus(ownerID uint64) ([]StatusCount, error) {
	counts := []StatusCount{}

	err := r.db.Model(&models.Task{}).
		Select(statusBucketExpr + " AS status, COUNT(*) AS count").
		Where("owner_id = ?", ownerID).
		Group(statusBucketExpr).
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}

// CountAll counts the owner's tasks independently of any grouping
func (r *GormTaskRepository) CountAll(ownerID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}
