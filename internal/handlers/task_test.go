package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	"github.com/taskdeck/taskdeck-api/internal/dto"
	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"github.com/taskdeck/taskdeck-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db          *gorm.DB
	handler     *TaskHandler
	router      *gin.Engine
	currentUser uint64
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	suite.handler = NewTaskHandler(services.NewTaskService(taskRepo))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Router with a stub auth middleware attaching the suite's current user
	suite.router = gin.New()
	suite.router.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, suite.currentUser)
		c.Next()
	})
	suite.router.POST("/tasks", suite.handler.CreateTask)
	suite.router.GET("/tasks", suite.handler.ListTasks)
	suite.router.GET("/tasks/stats", suite.handler.GetStats)
	suite.router.GET("/tasks/:id", suite.handler.GetTask)
	suite.router.PUT("/tasks/:id", suite.handler.UpdateTask)
	suite.router.DELETE("/tasks/:id", suite.handler.DeleteTask)

	suite.currentUser = 1
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestTask(title string, ownerID uint64, status models.TaskStatus, dueAt time.Time) *models.Task {
	task := &models.Task{
		Title:   title,
		Date:    dueAt.Format(constants.DateLayout),
		Time:    dueAt.Format(constants.TimeLayout),
		DueAt:   dueAt,
		Status:  status,
		OwnerID: ownerID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) request(method, url string, payload interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		suite.Require().NoError(err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TaskHandlerTestSuite) TestCreateTask() {
	due := time.Now().Add(24 * time.Hour)
	w := suite.request(http.MethodPost, "/tasks", map[string]string{
		"title":  "Buy groceries",
		"detail": "Milk and bread",
		"date":   due.Format(constants.DateLayout),
		"time":   due.Format(constants.TimeLayout),
	})

	suite.Equal(http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Buy groceries", response.Title)
	suite.Equal(models.TaskStatusTodo, response.Status)
	suite.NotZero(response.ID)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskPastDue() {
	past := time.Now().Add(-time.Hour)
	w := suite.request(http.MethodPost, "/tasks", map[string]string{
		"title": "Too late",
		"date":  past.Format(constants.DateLayout),
		"time":  past.Format(constants.TimeLayout),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskInvalidStatus() {
	due := time.Now().Add(24 * time.Hour)
	w := suite.request(http.MethodPost, "/tasks", map[string]string{
		"title":  "Bad status",
		"date":   due.Format(constants.DateLayout),
		"time":   due.Format(constants.TimeLayout),
		"status": "blocked",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskTitleLimitCountsRunes() {
	due := time.Now().Add(24 * time.Hour)

	// 100 multibyte characters fit the limit even though the byte length
	// is double that.
	w := suite.request(http.MethodPost, "/tasks", map[string]string{
		"title": strings.Repeat("é", 100),
		"date":  due.Format(constants.DateLayout),
		"time":  due.Format(constants.TimeLayout),
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, "/tasks", map[string]string{
		"title": strings.Repeat("é", 101),
		"date":  due.Format(constants.DateLayout),
		"time":  due.Format(constants.TimeLayout),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskDetailLimitCountsRunes() {
	due := time.Now().Add(24 * time.Hour)

	w := suite.request(http.MethodPost, "/tasks", map[string]string{
		"title":  "Notes",
		"detail": strings.Repeat("ü", 500),
		"date":   due.Format(constants.DateLayout),
		"time":   due.Format(constants.TimeLayout),
	})
	suite.Equal(http.StatusCreated, w.Code)

	w = suite.request(http.MethodPost, "/tasks", map[string]string{
		"title":  "Notes",
		"detail": strings.Repeat("ü", 501),
		"date":   due.Format(constants.DateLayout),
		"time":   due.Format(constants.TimeLayout),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskMissingTitle() {
	due := time.Now().Add(24 * time.Hour)
	w := suite.request(http.MethodPost, "/tasks", map[string]string{
		"date": due.Format(constants.DateLayout),
		"time": due.Format(constants.TimeLayout),
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask() {
	task := suite.createTestTask("Mine", 1, models.TaskStatusTodo, time.Now().Add(time.Hour))

	w := suite.request(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(task.ID, response.ID)
}

func (suite *TaskHandlerTestSuite) TestGetTaskOwnedByAnotherUser() {
	task := suite.createTestTask("Not mine", 2, models.TaskStatusTodo, time.Now().Add(time.Hour))

	// A foreign task is indistinguishable from a missing one
	w := suite.request(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.NotContains(w.Body.String(), "Not mine")
}

func (suite *TaskHandlerTestSuite) TestUpdateTask() {
	task := suite.createTestTask("Report", 1, models.TaskStatusTodo, time.Now().Add(time.Hour))

	w := suite.request(http.MethodPut, fmt.Sprintf("/tasks/%d", task.ID), map[string]string{
		"status": "done",
	})
	suite.Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(models.TaskStatusDone, response.Status)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskPastDue() {
	task := suite.createTestTask("Report", 1, models.TaskStatusTodo, time.Now().Add(time.Hour))

	past := time.Now().Add(-24 * time.Hour)
	w := suite.request(http.MethodPut, fmt.Sprintf("/tasks/%d", task.ID), map[string]string{
		"date": past.Format(constants.DateLayout),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskOwnedByAnotherUser() {
	task := suite.createTestTask("Not mine", 2, models.TaskStatusTodo, time.Now().Add(time.Hour))

	w := suite.request(http.MethodPut, fmt.Sprintf("/tasks/%d", task.ID), map[string]string{
		"status": "done",
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTestTask("Old", 1, models.TaskStatusTodo, time.Now().Add(time.Hour))

	w := suite.request(http.MethodDelete, fmt.Sprintf("/tasks/%d", task.ID), nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.request(http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTaskOwnedByAnotherUser() {
	task := suite.createTestTask("Not mine", 2, models.TaskStatusTodo, time.Now().Add(time.Hour))

	w := suite.request(http.MethodDelete, fmt.Sprintf("/tasks/%d", task.ID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	now := time.Now()
	suite.createTestTask("Buy groceries", 1, models.TaskStatusTodo, now.Add(24*time.Hour))
	suite.createTestTask("Write report", 1, models.TaskStatusDone, now.Add(48*time.Hour))
	suite.createTestTask("Not mine", 2, models.TaskStatusTodo, now.Add(24*time.Hour))

	// The body is a bare JSON array of tasks
	w := suite.request(http.MethodGet, "/tasks", nil)
	suite.Equal(http.StatusOK, w.Code)

	var response []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response, 2)
	suite.Equal("Buy groceries", response[0].Title)

	// Status filter
	w = suite.request(http.MethodGet, "/tasks?status=done", nil)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response, 1)
	suite.Equal("Write report", response[0].Title)

	// Title filter, case-insensitive
	w = suite.request(http.MethodGet, "/tasks?title=REPORT", nil)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Len(response, 1)

	// Descending order
	w = suite.request(http.MethodGet, "/tasks?order=desc", nil)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal("Write report", response[0].Title)
}

func (suite *TaskHandlerTestSuite) TestListTasksEmpty() {
	w := suite.request(http.MethodGet, "/tasks", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq("[]", w.Body.String())
}

func (suite *TaskHandlerTestSuite) TestGetStats() {
	now := time.Now()
	suite.createTestTask("a", 1, models.TaskStatusTodo, now.Add(time.Hour))
	suite.createTestTask("b", 1, models.TaskStatusTodo, now.Add(time.Hour))
	suite.createTestTask("c", 1, models.TaskStatusDone, now.Add(time.Hour))
	suite.createTestTask("not mine", 2, models.TaskStatusDone, now.Add(time.Hour))

	w := suite.request(http.MethodGet, "/tasks/stats", nil)
	suite.Equal(http.StatusOK, w.Code)

	var response services.TaskStats
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Equal(int64(3), response.Total)
	suite.Require().Len(response.ByStatus, 2)
	suite.Equal("todo", response.ByStatus[0].Status)
	suite.Equal(int64(2), response.ByStatus[0].Count)
	suite.Equal("done", response.ByStatus[1].Status)
	suite.Equal(int64(1), response.ByStatus[1].Count)
}

func (suite *TaskHandlerTestSuite) TestGetStatsEmpty() {
	w := suite.request(http.MethodGet, "/tasks/stats", nil)
	suite.Equal(http.StatusOK, w.Code)

	var response services.TaskStats
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Zero(response.Total)
	suite.Empty(response.ByStatus)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
