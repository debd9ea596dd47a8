package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(origins []string, method, origin string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/agenda", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/agenda", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsListedOrigin(t *testing.T) {
	rec := serve([]string{"https://admin.example.com/"}, http.MethodGet, "https://admin.example.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://admin.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	rec := serve([]string{"https://admin.example.com"}, http.MethodGet, "https://evil.example.com")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	rec := serve(nil, http.MethodOptions, "https://parent-app.example.com")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://parent-app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
