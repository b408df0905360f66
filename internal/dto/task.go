package dto

import (
	"time"

	"github.com/taskdeck/taskdeck-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        uint64            `json:"id"`
	Title     string            `json:"title"`
	Detail    string            `json:"detail,omitempty"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	DueAt     time.Time         `json:"dueAt"`
	Status    models.TaskStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		Detail:    task.Detail,
		Date:      task.Date,
		Time:      task.Time,
		DueAt:     task.DueAt,
		Status:    task.Status,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// ToTaskListResponse converts a slice of tasks to the list response body.
// The result is never nil so an empty list serializes as [].
func ToTaskListResponse(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
