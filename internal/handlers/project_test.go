package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/minhtran-dev/taskdesk/internal/cache"
	"github.com/minhtran-dev/taskdesk/internal/database"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"github.com/minhtran-dev/taskdesk/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ProjectHandlerTestSuite defines the test suite for ProjectHandler
type ProjectHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *ProjectHandler
}

// SetupTest runs before each test
func (suite *ProjectHandlerTestSuite) SetupTest() {
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

	projectRepo := repository.NewProjectRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)

	projectService := services.NewProjectService(projectRepo, taskRepo, cache.Noop{})
	suite.handler = NewProjectHandler(projectService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *ProjectHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ProjectHandlerTestSuite) createContext(method, url string, body map[string]interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		data, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", uint64(1))
	c.Set("role", models.RoleManager)

	return c, w
}

// TestCreateProject_Success tests successful project creation
func (suite *ProjectHandlerTestSuite) TestCreateProject_Success() {
	c, w := suite.createContext("POST", "/api/projects", map[string]interface{}{
		"name":        "Website Redesign",
		"description": "Q3 initiative",
	})

	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Website Redesign", response["name"])
}

// TestCreateProject_MissingName tests creation without a name
func (suite *ProjectHandlerTestSuite) TestCreateProject_MissingName() {
	c, w := suite.createContext("POST", "/api/projects", map[string]interface{}{
		"description": "no name",
	})

	suite.handler.CreateProject(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestSyncLegacyProject_CreatesOnFirstSight tests the legacy sync path
func (suite *ProjectHandlerTestSuite) TestSyncLegacyProject_CreatesOnFirstSight() {
	c, w := suite.createContext("POST", "/api/projects/sync", map[string]interface{}{
		"legacy_ref":    "QT-1234",
		"customer_name": "Cong ty ABC",
		"project_type":  "Consulting",
	})

	suite.handler.SyncLegacyProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Cong ty ABC - Consulting", response["name"])
	assert.Equal(suite.T(), "QT-1234", response["legacy_ref"])
}

// TestSyncLegacyProject_Idempotent tests that re-syncing the same reference
// returns the existing project instead of a duplicate
func (suite *ProjectHandlerTestSuite) TestSyncLegacyProject_Idempotent() {
	body := map[string]interface{}{
		"legacy_ref":    "QT-1234",
		"customer_name": "Cong ty ABC",
		"project_type":  "Consulting",
	}

	c1, w1 := suite.createContext("POST", "/api/projects/sync", body)
	suite.handler.SyncLegacyProject(c1)
	assert.Equal(suite.T(), http.StatusOK, w1.Code)

	c2, w2 := suite.createContext("POST", "/api/projects/sync", body)
	suite.handler.SyncLegacyProject(c2)
	assert.Equal(suite.T(), http.StatusOK, w2.Code)

	var count int64
	suite.db.Model(&models.Project{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestDeleteProject_BlockedByTasks tests the referential integrity pre-check
func (suite *ProjectHandlerTestSuite) TestDeleteProject_BlockedByTasks() {
	project := &models.Project{Name: "Busy"}
	suite.db.Create(project)
	suite.db.Create(&models.Task{
		Name:       "Remaining task",
		Status:     models.TaskStatusTodo,
		Priority:   models.PriorityMedium,
		AssigneeID: 1,
		CreatorID:  1,
		ProjectID:  &project.ID,
	})

	c, w := suite.createContext("DELETE", "/api/projects/1", nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}

	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "INTEGRITY_ERROR", response["code"])

	var count int64
	suite.db.Model(&models.Project{}).Count(&count)
	assert.Equal(suite.T(), int64(1), count)
}

// TestDeleteProject_Success tests deletion of an empty project
func (suite *ProjectHandlerTestSuite) TestDeleteProject_Success() {
	project := &models.Project{Name: "Empty"}
	suite.db.Create(project)

	c, w := suite.createContext("DELETE", "/api/projects/1", nil)
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", project.ID)}}

	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.Project{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

// TestDeleteProject_NotFound tests deletion of a missing project
func (suite *ProjectHandlerTestSuite) TestDeleteProject_NotFound() {
	c, w := suite.createContext("DELETE", "/api/projects/999", nil)
	c.Params = gin.Params{{Key: "id", Value: "999"}}

	suite.handler.DeleteProject(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestSuite runs the test suite
func TestProjectHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectHandlerTestSuite))
}
