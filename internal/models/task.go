package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// Valid reports whether the status is one of the accepted values.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type Task struct {
	ID        uint64         `gorm:"primarykey" json:"id"`
	Title     string         `gorm:"type:varchar(100);not null" json:"title"`
	Detail    string         `gorm:"type:varchar(500)" json:"detail"`
	Date      string         `gorm:"type:varchar(10);not null" json:"date"`
	Time      string         `gorm:"type:varchar(5);not null" json:"time"`
	DueAt     time.Time      `gorm:"not null;index" json:"due_at"`
	Status    TaskStatus     `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	OwnerID   uint64         `gorm:"not null;index" json:"owner_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Owner User `gorm:"foreignKey:OwnerID" json:"-"`
}
