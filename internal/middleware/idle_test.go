package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/minhtran-dev/taskdesk/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idleTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("test_session", store))

	// Seeds a session whose last activity is already past the idle timeout
	r.GET("/seed-stale", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.SessionKeyLastActivity, time.Now().Unix()-int64(constants.IdleTimeoutSeconds)-60)
		_ = session.Save()
		c.Status(http.StatusOK)
	})

	// Seeds a session with recent activity
	r.GET("/seed-fresh", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(constants.SessionKeyLastActivity, time.Now().Unix())
		_ = session.Save()
		c.Status(http.StatusOK)
	})

	guarded := r.Group("", IdleGuard())
	guarded.GET("/read", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"idle": IsIdleExpired(c)})
	})
	guarded.POST("/mutate", RejectWhenIdle(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return r
}

func sessionCookies(t *testing.T, r *gin.Engine, seedPath string) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", seedPath, nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func requestWithCookies(r *gin.Engine, method, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestIdleGuardFreshSessionAllowsMutations(t *testing.T) {
	r := idleTestRouter()
	cookies := sessionCookies(t, r, "/seed-fresh")

	w := requestWithCookies(r, "POST", "/mutate", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestIdleGuardExpiredSessionBlocksMutations(t *testing.T) {
	r := idleTestRouter()
	cookies := sessionCookies(t, r, "/seed-stale")

	w := requestWithCookies(r, "POST", "/mutate", cookies)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIdleGuardExpiredSessionStillAllowsReads(t *testing.T) {
	r := idleTestRouter()
	cookies := sessionCookies(t, r, "/seed-stale")

	w := requestWithCookies(r, "GET", "/read", cookies)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"idle":true`)
}

func TestIdleGuardExpiryIsSticky(t *testing.T) {
	r := idleTestRouter()
	cookies := sessionCookies(t, r, "/seed-stale")

	// First guarded request flags the session expired
	first := requestWithCookies(r, "POST", "/mutate", cookies)
	require.Equal(t, http.StatusConflict, first.Code)
	if updated := first.Result().Cookies(); len(updated) > 0 {
		cookies = updated
	}

	// The flag persists even though the request itself was recent activity
	second := requestWithCookies(r, "POST", "/mutate", cookies)
	assert.Equal(t, http.StatusConflict, second.Code)
}
