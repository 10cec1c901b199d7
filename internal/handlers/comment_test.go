package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minhtran-dev/taskdesk/internal/cache"
	"github.com/minhtran-dev/taskdesk/internal/database"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"github.com/minhtran-dev/taskdesk/internal/services"
	"github.com/minhtran-dev/taskdesk/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// CommentHandlerTestSuite defines the test suite for CommentHandler
type CommentHandlerTestSuite struct {
	suite.Suite
	db         *gorm.DB
	storageDir string
	handler    *CommentHandler
}

// SetupTest runs before each test
func (suite *CommentHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.Profile{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
		&models.ReadStatus{},
	)
	suite.Require().NoError(err)

	// Set the test DB as the default database
	database.SetDB(suite.db)

	suite.storageDir = suite.T().TempDir()
	store, err := storage.NewLocalStore(suite.storageDir, "http://localhost:8080")
	suite.Require().NoError(err)

	taskRepo := repository.NewTaskRepository(suite.db)
	commentRepo := repository.NewCommentRepository(suite.db)
	profileRepo := repository.NewProfileRepository(suite.db)

	threadService := services.NewThreadService(taskRepo, commentRepo, profileRepo, store, cache.Noop{})
	suite.handler = NewCommentHandler(threadService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CommentHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *CommentHandlerTestSuite) createTestProfile(email string, role models.Role) *models.Profile {
	profile := &models.Profile{
		FullName:      email,
		Email:         email,
		PasswordHash:  "hashedpassword",
		Role:          role,
		AccountStatus: models.AccountActive,
	}
	suite.db.Create(profile)
	return profile
}

func (suite *CommentHandlerTestSuite) createTestTask(name string, assigneeID, creatorID uint64) *models.Task {
	task := &models.Task{
		Name:       name,
		Status:     models.TaskStatusTodo,
		Priority:   models.PriorityMedium,
		AssigneeID: assigneeID,
		CreatorID:  creatorID,
	}
	suite.db.Create(task)
	return task
}

// Helper function to build a multipart comment request
func (suite *CommentHandlerTestSuite) createCommentContext(taskID, userID uint64, content, filename string, fileData []byte) (*gin.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if content != "" {
		suite.Require().NoError(writer.WriteField("content", content))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("attachment", filename)
		suite.Require().NoError(err)
		_, err = part.Write(fileData)
		suite.Require().NoError(err)
	}
	suite.Require().NoError(writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/tasks/%d/comments", taskID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", taskID)}}

	return c, w
}

// TestListComments_NewestFirst tests comment listing order
func (suite *CommentHandlerTestSuite) TestListComments_NewestFirst() {
	manager := suite.createTestProfile("manager@example.com", models.RoleManager)
	an := suite.createTestProfile("an@example.com", models.RoleEmployee)
	task := suite.createTestTask("Task", an.ID, manager.ID)
	suite.db.Create(&models.Comment{TaskID: task.ID, AuthorID: manager.ID, Content: "first"})
	suite.db.Create(&models.Comment{TaskID: task.ID, AuthorID: an.ID, Content: "second"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/tasks/1/comments", nil)
	c.Set("user_id", an.ID)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", task.ID)}}

	suite.handler.ListComments(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)

	comments := response["comments"].([]interface{})
	suite.Require().Len(comments, 2)
	newest := comments[0].(map[string]interface{})
	assert.Equal(suite.T(), "second", newest["content"])
}

// TestListComments_TaskNotFound tests listing on a missing task
func (suite *CommentHandlerTestSuite) TestListComments_TaskNotFound() {
	an := suite.createTestProfile("an@example.com", models.RoleEmployee)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/tasks/999/comments", nil)
	c.Set("user_id", an.ID)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	suite.handler.ListComments(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCreateComment_TextOnly tests posting a plain text comment
func (suite *CommentHandlerTestSuite) TestCreateComment_TextOnly() {
	manager := suite.createTestProfile("manager@example.com", models.RoleManager)
	an := suite.createTestProfile("an@example.com", models.RoleEmployee)
	task := suite.createTestTask("Task", an.ID, manager.ID)

	c, w := suite.createCommentContext(task.ID, an.ID, "Looks good to me", "", nil)

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Looks good to me", response["content"])
	assert.Equal(suite.T(), float64(an.ID), response["author_id"])
}

// TestCreateComment_Empty tests posting without content or attachment
func (suite *CommentHandlerTestSuite) TestCreateComment_Empty() {
	manager := suite.createTestProfile("manager@example.com", models.RoleManager)
	an := suite.createTestProfile("an@example.com", models.RoleEmployee)
	task := suite.createTestTask("Task", an.ID, manager.ID)

	c, w := suite.createCommentContext(task.ID, an.ID, "   ", "", nil)

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestCreateComment_WithAttachment tests posting a file attachment. The
// stored object key is the sanitized filename under the task prefix, and the
// comment keeps the original name for display.
func (suite *CommentHandlerTestSuite) TestCreateComment_WithAttachment() {
	manager := suite.createTestProfile("manager@example.com", models.RoleManager)
	an := suite.createTestProfile("an@example.com", models.RoleEmployee)
	task := suite.createTestTask("Task", an.ID, manager.ID)

	c, w := suite.createCommentContext(task.ID, an.ID, "see attached", "Báo cáo (final) v2.docx", []byte("report body"))

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Báo cáo (final) v2.docx", response["attachment_name"])

	url := response["attachment_url"].(string)
	assert.Contains(suite.T(), url, fmt.Sprintf("/files/task_%d/", task.ID))
	assert.True(suite.T(), strings.HasSuffix(url, "_Bao-cao-final-v2.docx"))

	// The object must exist under the task prefix on disk
	entries, err := os.ReadDir(filepath.Join(suite.storageDir, fmt.Sprintf("task_%d", task.ID)))
	suite.Require().NoError(err)
	suite.Require().Len(entries, 1)
	assert.True(suite.T(), strings.HasSuffix(entries[0].Name(), "_Bao-cao-final-v2.docx"))
}

// TestCreateComment_TaskNotFound tests commenting on a missing task
func (suite *CommentHandlerTestSuite) TestCreateComment_TaskNotFound() {
	an := suite.createTestProfile("an@example.com", models.RoleEmployee)

	c, w := suite.createCommentContext(999, an.ID, "hello", "", nil)

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCreateComment_IdleSessionEchoesDraft tests that an idle-expired session
// rejects the comment but returns the typed draft
func (suite *CommentHandlerTestSuite) TestCreateComment_IdleSessionEchoesDraft() {
	manager := suite.createTestProfile("manager@example.com", models.RoleManager)
	an := suite.createTestProfile("an@example.com", models.RoleEmployee)
	task := suite.createTestTask("Task", an.ID, manager.ID)

	c, w := suite.createCommentContext(task.ID, an.ID, "my long draft", "", nil)
	c.Set("idle_expired", true)

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SESSION_IDLE", response["code"])

	details := response["details"].(map[string]interface{})
	assert.Equal(suite.T(), "my long draft", details["content"])
	assert.NotContains(suite.T(), details, "attachment_name")

	// Nothing was written
	var count int64
	suite.db.Model(&models.Comment{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestCreateComment_IdleSessionEchoesAttachmentName tests that the idle echo
// includes the name of the file the user had attached to the draft
func (suite *CommentHandlerTestSuite) TestCreateComment_IdleSessionEchoesAttachmentName() {
	manager := suite.createTestProfile("manager@example.com", models.RoleManager)
	an := suite.createTestProfile("an@example.com", models.RoleEmployee)
	task := suite.createTestTask("Task", an.ID, manager.ID)

	c, w := suite.createCommentContext(task.ID, an.ID, "my long draft", "report.pdf", []byte("pdf body"))
	c.Set("idle_expired", true)

	suite.handler.CreateComment(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "SESSION_IDLE", response["code"])

	details := response["details"].(map[string]interface{})
	assert.Equal(suite.T(), "my long draft", details["content"])
	assert.Equal(suite.T(), "report.pdf", details["attachment_name"])

	// Neither the comment row nor the object was written
	var count int64
	suite.db.Model(&models.Comment{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
	_, err = os.ReadDir(filepath.Join(suite.storageDir, fmt.Sprintf("task_%d", task.ID)))
	assert.True(suite.T(), os.IsNotExist(err))
}

// TestSuite runs the test suite
func TestCommentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CommentHandlerTestSuite))
}
