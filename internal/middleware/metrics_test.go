package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type observedRequest struct {
	method, path string
	status       int
}

type fakeObserver struct {
	requests []observedRequest
}

func (f *fakeObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.requests = append(f.requests, observedRequest{method, path, status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &fakeObserver{}
	r := gin.New()
	r.Use(Metrics(observer))
	r.GET("/branches/:id/agenda", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/branches/B1/agenda", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))

	assert.Equal(t, []observedRequest{
		{http.MethodGet, "/branches/:id/agenda", http.StatusOK},
		{http.MethodGet, "unmatched", http.StatusNotFound},
	}, observer.requests)
}
