package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/minhtran-dev/taskdesk/internal/database"
	"github.com/minhtran-dev/taskdesk/internal/models"
	"github.com/minhtran-dev/taskdesk/internal/repository"
	"github.com/minhtran-dev/taskdesk/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AuthHandlerTestSuite defines the test suite for AuthHandler
type AuthHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *AuthHandler
	router  *gin.Engine
}

// SetupTest runs before each test
func (suite *AuthHandlerTestSuite) SetupTest() {
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

	profileRepo := repository.NewProfileRepository(suite.db)
	suite.handler = NewAuthHandler(services.NewAuthService(profileRepo))

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)

	// Create router with cookie sessions for tests
	suite.router = gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	suite.router.Use(sessions.Sessions("test_session", store))
	suite.router.POST("/api/auth/login", suite.handler.Login)
	suite.router.POST("/api/auth/logout", suite.handler.Logout)
}

// TearDownTest runs after each test
func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *AuthHandlerTestSuite) createTestProfile(email, password string, role models.Role, status models.AccountStatus) *models.Profile {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	suite.Require().NoError(err)

	profile := &models.Profile{
		FullName:      "Test User",
		Email:         email,
		PasswordHash:  string(hashed),
		Role:          role,
		AccountStatus: status,
	}
	suite.db.Create(profile)
	return profile
}

func (suite *AuthHandlerTestSuite) postJSON(url string, body map[string]interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	suite.router.ServeHTTP(w, req)
	return w
}

// TestLogin_Success tests successful login
func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	suite.createTestProfile("an@example.com", "password123", models.RoleEmployee, models.AccountActive)

	w := suite.postJSON("/api/auth/login", map[string]interface{}{
		"email":    "an@example.com",
		"password": "password123",
	})

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "an@example.com", response["email"])
	assert.NotContains(suite.T(), response, "password_hash")

	// Session cookie must be issued
	assert.NotEmpty(suite.T(), w.Result().Cookies())
}

// TestLogin_WrongPassword tests login with wrong password
func (suite *AuthHandlerTestSuite) TestLogin_WrongPassword() {
	suite.createTestProfile("an@example.com", "password123", models.RoleEmployee, models.AccountActive)

	w := suite.postJSON("/api/auth/login", map[string]interface{}{
		"email":    "an@example.com",
		"password": "wrong",
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestLogin_UnknownEmail tests login with an unknown email
func (suite *AuthHandlerTestSuite) TestLogin_UnknownEmail() {
	w := suite.postJSON("/api/auth/login", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "password123",
	})

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestLogin_InactiveAccount tests that a banned account is denied even with
// correct credentials
func (suite *AuthHandlerTestSuite) TestLogin_InactiveAccount() {
	suite.createTestProfile("banned@example.com", "password123", models.RoleEmployee, models.AccountInactive)

	w := suite.postJSON("/api/auth/login", map[string]interface{}{
		"email":    "banned@example.com",
		"password": "password123",
	})

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestLogin_InvalidBody tests login with a malformed request
func (suite *AuthHandlerTestSuite) TestLogin_InvalidBody() {
	w := suite.postJSON("/api/auth/login", map[string]interface{}{
		"email": "an@example.com",
	})

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestChangePassword_Success tests a successful password change
func (suite *AuthHandlerTestSuite) TestChangePassword_Success() {
	profile := suite.createTestProfile("an@example.com", "password123", models.RoleEmployee, models.AccountActive)

	body, _ := json.Marshal(map[string]interface{}{
		"new_password":     "newpassword",
		"confirm_password": "newpassword",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/auth/password", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", profile.ID)

	suite.handler.ChangePassword(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// New password must verify against the stored hash
	var updated models.Profile
	suite.db.First(&updated, profile.ID)
	assert.NoError(suite.T(), bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("newpassword")))
}

// TestChangePassword_Mismatch tests a confirmation mismatch
func (suite *AuthHandlerTestSuite) TestChangePassword_Mismatch() {
	profile := suite.createTestProfile("an@example.com", "password123", models.RoleEmployee, models.AccountActive)

	body, _ := json.Marshal(map[string]interface{}{
		"new_password":     "newpassword",
		"confirm_password": "different",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/auth/password", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", profile.ID)

	suite.handler.ChangePassword(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestChangePassword_TooShort tests the minimum password length
func (suite *AuthHandlerTestSuite) TestChangePassword_TooShort() {
	profile := suite.createTestProfile("an@example.com", "password123", models.RoleEmployee, models.AccountActive)

	body, _ := json.Marshal(map[string]interface{}{
		"new_password":     "abc",
		"confirm_password": "abc",
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/auth/password", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("user_id", profile.ID)

	suite.handler.ChangePassword(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestLogout tests that logout clears the session
func (suite *AuthHandlerTestSuite) TestLogout() {
	w := suite.postJSON("/api/auth/logout", map[string]interface{}{})

	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

// TestSuite runs the test suite
func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
