package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", p.err)
}

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body HealthResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthServer_Healthy(t *testing.T) {
	h := NewHealthServer(0, fakePinger{}, true, zap.NewNop()).Handler()

	rec, body := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "healthy", body.Checks["redis"])

	rec, body = get(t, h, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", body.Status)
}

func TestHealthServer_RedisDown(t *testing.T) {
	h := NewHealthServer(0, fakePinger{err: errors.New("dial tcp: refused")}, true, zap.NewNop()).Handler()

	rec, body := get(t, h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Contains(t, body.Checks["redis"], "refused")

	rec, body = get(t, h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "not ready", body.Status)
}

func TestHealthServer_Metrics(t *testing.T) {
	rec, _ := get(t, NewHealthServer(0, fakePinger{}, true, zap.NewNop()).Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = get(t, NewHealthServer(0, fakePinger{}, false, zap.NewNop()).Handler(), "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthServer_StopWithoutStart(t *testing.T) {
	hs := NewHealthServer(0, fakePinger{}, false, zap.NewNop())
	assert.NoError(t, hs.Stop(context.Background()))
}
