package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestCORSPolicyUpdateTakesEffect(t *testing.T) {
	policy := NewCORSPolicy([]string{"https://a.example"})
	r := newRouter(policy.Middleware())

	do := func(origin string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, "https://a.example", do("https://a.example").Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, do("https://b.example").Header().Get("Access-Control-Allow-Origin"))

	policy.Update([]string{"https://b.example"})

	assert.Empty(t, do("https://a.example").Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "https://b.example", do("https://b.example").Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterUpdateTakesEffect(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	r := newRouter(limiter.Middleware())

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())

	// 上调限额后立即生效，旧条目不再携带旧限额
	limiter.Update(100, time.Minute)
	assert.Equal(t, http.StatusOK, do())
}
