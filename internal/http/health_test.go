package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/eldercare/internal/entities"
)

func getHealth(t *testing.T, controller *HealthController) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", controller.Status)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w.Code, response
}

func TestHealthController_Status(t *testing.T) {
	t.Run("reports care state when the store is healthy", func(t *testing.T) {
		api := setupAPI(t)
		_, err := api.svc.Alerts.TriggerFall(nil, nil)
		require.NoError(t, err)
		require.NoError(t, api.svc.Repos.Guardians.Insert(&entities.PairedGuardian{GuardianID: "g-1", GuardianName: "Son"}))
		_, cancel := api.svc.Hub.Subscribe("g-1")
		defer cancel()

		code, response := getHealth(t, NewHealthController(api.db, api.svc, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "1.0.0", response.Version)
		assert.Equal(t, "ok", response.Checks["database"])
		assert.Equal(t, "ok", response.Checks["schema"])
		assert.Equal(t, api.db.IdentityHash(), response.Checks["schema_identity"])
		assert.Equal(t, "1", response.Checks["unresolved_alerts"])
		assert.Equal(t, "1", response.Checks["paired_guardians"])
		assert.Equal(t, "1", response.Checks["guardian_streams"])
		assert.Contains(t, response.Time, "T")
	})

	t.Run("healthy without a store", func(t *testing.T) {
		code, response := getHealth(t, NewHealthController(nil, nil, "1.0.0"))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "not configured", response.Checks["database"])
	})

	t.Run("degraded when a table drifted", func(t *testing.T) {
		api := setupAPI(t)
		require.NoError(t, api.db.DB.Exec("ALTER TABLE notes ADD COLUMN color TEXT").Error)

		code, response := getHealth(t, NewHealthController(api.db, nil, ""))

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", response.Status)
		assert.Contains(t, response.Checks["schema"], "mismatch")
	})

	t.Run("unhealthy when the store is closed", func(t *testing.T) {
		api := setupAPI(t)
		require.NoError(t, api.db.Close())

		code, response := getHealth(t, NewHealthController(api.db, api.svc, ""))

		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", response.Status)
		assert.Contains(t, response.Checks["database"], "error")
		assert.NotContains(t, response.Checks, "unresolved_alerts")
	})
}

func TestHealthResponse_OmitsEmptyVersion(t *testing.T) {
	jsonBytes, err := json.Marshal(HealthResponse{Status: "healthy", Checks: map[string]string{}})
	require.NoError(t, err)
	assert.NotContains(t, string(jsonBytes), "version")
}
