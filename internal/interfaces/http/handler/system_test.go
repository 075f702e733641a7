package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemTestRouter(h *SystemHandler) *gin.Engine {
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/api/v1/system/info", h.GetSystemInfo)
	return r
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("actor-registry", "1.2.3", nil)
	h.startTime = time.Now().Add(-90 * time.Second)

	w := doRequest(newSystemTestRouter(h), http.MethodGet, "/api/v1/system/info", nil)

	require.Equal(t, http.StatusOK, w.Code)
	info := decode[SystemInfoResponse](t, w).Data
	assert.Equal(t, "actor-registry", info.Name)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.Uptime)
}

func TestSystemHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("no checks", func(t *testing.T) {
		w := doRequest(newSystemTestRouter(NewSystemHandler("r", "v", nil)), http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[HealthResponse](t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "ok", resp.Data.Status)
		assert.Empty(t, resp.Data.Checks)
	})

	t.Run("all healthy", func(t *testing.T) {
		h := NewSystemHandler("r", "v", map[string]HealthCheck{"database": ok, "redis": ok})

		w := doRequest(newSystemTestRouter(h), http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[HealthResponse](t, w).Data
		assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, resp.Checks)
	})

	t.Run("a failing check degrades the service", func(t *testing.T) {
		h := NewSystemHandler("r", "v", map[string]HealthCheck{
			"database": ok,
			"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
		})

		w := doRequest(newSystemTestRouter(h), http.MethodGet, "/health", nil)

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode[HealthResponse](t, w)
		assert.False(t, resp.Success)
		assert.Equal(t, "degraded", resp.Data.Status)
		assert.Equal(t, "ok", resp.Data.Checks["database"])
		assert.Contains(t, resp.Data.Checks["redis"], "connection refused")
	})

	t.Run("checks share a deadline", func(t *testing.T) {
		h := NewSystemHandler("r", "v", map[string]HealthCheck{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		})
		h.timeout = 10 * time.Millisecond

		w := doRequest(newSystemTestRouter(h), http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, decode[HealthResponse](t, w).Data.Checks["slow"], "deadline exceeded")
	})
}
