package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestGinMiddlewareLabelsUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinMiddleware())
	engine.GET("/api/artists/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "unmatched", "404"))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-login.php", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "unmatched", "404")))

	before = testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/api/artists/:id", "200"))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/artists/42", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/api/artists/:id", "200")))
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(contractTransitions.WithLabelValues("Draft", "Send"))
	ObserveContractTransition("Draft", "Send")
	assert.Equal(t, before+1, testutil.ToFloat64(contractTransitions.WithLabelValues("Draft", "Send")))

	before = testutil.ToFloat64(loginAttempts.WithLabelValues("Admin", OutcomeThrottled))
	ObserveLogin("Admin", OutcomeThrottled)
	assert.Equal(t, before+1, testutil.ToFloat64(loginAttempts.WithLabelValues("Admin", OutcomeThrottled)))
}

func TestAsynqMetricsMiddlewareRecordsOutcome(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		outcome string
	}{
		{"success", nil, TaskSucceeded},
		{"retryable failure", errors.New("minio unavailable"), TaskRetried},
		{"bad payload", fmt.Errorf("decode payload: %w", asynq.SkipRetry), TaskSkipRetry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskType := "test:" + tt.outcome
			handler := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
				return tt.err
			}))

			before := testutil.ToFloat64(taskProcessedTotal.WithLabelValues(taskType, tt.outcome))
			err := handler.ProcessTask(context.Background(), asynq.NewTask(taskType, nil))
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, before+1, testutil.ToFloat64(taskProcessedTotal.WithLabelValues(taskType, tt.outcome)))
			assert.Equal(t, float64(0), testutil.ToFloat64(taskInProgress.WithLabelValues(taskType)))
		})
	}
}

func TestGinMiddlewareSkipsHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinMiddleware())
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, float64(0), testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/health", "200")))
}
