package http

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/eldercare/internal/database"
	"github.com/mrlokans/eldercare/internal/entities"
	"github.com/mrlokans/eldercare/internal/guardian"
	"github.com/mrlokans/eldercare/internal/scheduler"
	"github.com/mrlokans/eldercare/internal/services"
	"github.com/mrlokans/eldercare/internal/tasks"
)

// Friday 2026-05-01, 10:00 UTC.
var routerNow = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

type testAPI struct {
	router *gin.Engine
	svc    *services.Services
	db     *database.Database
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "api.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := services.New(db, services.Options{
		Location: time.UTC,
		Now:      func() time.Time { return routerNow },
	})
	t.Cleanup(svc.Close)

	return &testAPI{
		router: NewRouter(RouterConfig{Database: db, Services: svc, Version: "test"}),
		svc:    svc,
		db:     db,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestRouter_Ping(t *testing.T) {
	api := setupAPI(t)
	w := api.do(t, http.MethodGet, "/ping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestRouter_MedicationLifecycle(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPost, "/api/medications", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/medications", gin.H{
		"name":      "Metformin",
		"dosage":    "500mg",
		"frequency": "DAILY",
		"schedules": []gin.H{{"hour": 8, "minute": 0}, {"hour": 20, "minute": 0}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[MedicationResponse](t, w)
	require.NotZero(t, created.ID)
	require.Len(t, created.Schedules, 2)

	path := "/api/medications/" + itoa(created.ID)
	w = api.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	fetched := decode[MedicationResponse](t, w)
	assert.Equal(t, "Metformin", fetched.Name)
	assert.Len(t, fetched.Schedules, 2)

	w = api.do(t, http.MethodPost, path+"/logs", gin.H{"action": "EATEN"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, path+"/logs", gin.H{"action": "TAKEN"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, path+"/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	logs := decode[[]entities.MedicationLog](t, w)
	require.Len(t, logs, 1)
	assert.Equal(t, entities.ActionTaken, logs[0].Action)

	w = api.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/medications/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_ContactsPrimary(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodGet, "/api/contacts/primary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/contacts", gin.H{"name": "Anna", "phone_number": "+100", "is_primary": true})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	anna := decode[entities.EmergencyContact](t, w)
	assert.True(t, anna.IsPrimary)

	w = api.do(t, http.MethodPost, "/api/contacts", gin.H{"name": "Ben", "phone_number": "+200"})
	require.Equal(t, http.StatusCreated, w.Code)
	ben := decode[entities.EmergencyContact](t, w)

	w = api.do(t, http.MethodPost, "/api/contacts/"+itoa(ben.ID)+"/primary", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/contacts/primary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ben.ID, decode[entities.EmergencyContact](t, w).ID)

	w = api.do(t, http.MethodGet, "/api/contacts/"+itoa(anna.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[entities.EmergencyContact](t, w).IsPrimary)

	w = api.do(t, http.MethodPost, "/api/contacts/999/primary", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/contacts", gin.H{"name": "", "phone_number": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SpeedDial(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPut, "/api/speed-dial/5", gin.H{"name": "Anna", "phone_number": "+100"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/speed-dial/0", gin.H{"name": "Anna", "phone_number": "+100"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(t, http.MethodPut, "/api/speed-dial/0", gin.H{"name": "Ben", "phone_number": "+200"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/speed-dial", nil)
	require.Equal(t, http.StatusOK, w.Code)
	slots := decode[[]entities.SpeedDialContact](t, w)
	require.Len(t, slots, 1)
	assert.Equal(t, "Ben", slots[0].Name)
}

func TestRouter_Hydration(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPost, "/api/hydration/decrement", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/hydration/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, decode[HydrationResponse](t, w).GlassesCount)

	for i := 0; i < 2; i++ {
		w = api.do(t, http.MethodPost, "/api/hydration/increment", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	assert.Equal(t, 2, decode[HydrationResponse](t, w).GlassesCount)

	w = api.do(t, http.MethodPost, "/api/hydration/decrement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[HydrationResponse](t, w).GlassesCount)

	w = api.do(t, http.MethodGet, "/api/hydration", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.HydrationLog](t, w), 1)
}

func TestRouter_CheckIns(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodGet, "/api/checkins/today", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/checkins", gin.H{"mood": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/checkins", gin.H{"mood": 4, "symptoms": []string{"cough"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/checkins/today", nil)
	require.Equal(t, http.StatusOK, w.Code)
	today := decode[entities.HealthCheckIn](t, w)
	require.NotNil(t, today.Mood)
	assert.Equal(t, 4, *today.Mood)
	assert.Equal(t, []string{"cough"}, today.Symptoms)
}

func TestRouter_NotesAndAppointments(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPost, "/api/notes", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(t, http.MethodPost, "/api/notes", gin.H{"title": "Groceries", "content": "milk"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/notes?q=milk", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.Note](t, w), 1)

	w = api.do(t, http.MethodPost, "/api/appointments", gin.H{"title": "Dentist"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(t, http.MethodPost, "/api/appointments", gin.H{
		"title":     "Dentist",
		"date_time": routerNow.Add(48 * time.Hour),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/appointments?upcoming=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]entities.Appointment](t, w), 1)
}

func TestRouter_AlertsTriggerAndResolve(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPost, "/api/alerts/sos", gin.H{"latitude": 48.85, "longitude": 2.35})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var triggered struct {
		Alert entities.Alert `json:"alert"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &triggered))
	assert.Equal(t, entities.AlertSOS, triggered.Alert.Type)

	w = api.do(t, http.MethodPost, "/api/alerts/fall", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/alerts?type=BOGUS", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/alerts/"+itoa(triggered.Alert.ID)+"/resolve", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decode[entities.Alert](t, w).Resolved)

	w = api.do(t, http.MethodGet, "/api/alerts?unresolved=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	unresolved := decode[[]entities.Alert](t, w)
	require.Len(t, unresolved, 1)
	assert.Equal(t, entities.AlertFall, unresolved[0].Type)

	w = api.do(t, http.MethodPost, "/api/alerts/404/resolve", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_DeviceBattery(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPost, "/api/device/battery", gin.H{"level": 150})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/device/battery", gin.H{"level": 80})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"alert"`)

	w = api.do(t, http.MethodPost, "/api/device/battery", gin.H{"level": 5})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Device battery is low: 5%")

	w = api.do(t, http.MethodGet, "/api/settings/"+entities.SettingKeyBatteryLevel, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", decode[entities.Setting](t, w).Value)
}

func TestRouter_Settings(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodGet, "/api/settings/theme", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPut, "/api/settings/theme", gin.H{"value": "dark"})
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodGet, "/api/settings/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dark", decode[entities.Setting](t, w).Value)

	w = api.do(t, http.MethodPut, "/api/settings/"+entities.SettingKeyElderID, gin.H{"value": "elder_x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodDelete, "/api/settings/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodGet, "/api/settings/theme", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_GuardianMessages(t *testing.T) {
	api := setupAPI(t)

	w := api.do(t, http.MethodPost, "/api/guardian/messages", gin.H{
		"type": "NOT_A_TYPE", "from": "g-1", "requestId": "r-1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	reply := decode[guardian.Message](t, w)
	assert.Equal(t, guardian.TypeError, reply.Type)
	assert.Equal(t, "g-1", reply.To)
	assert.Equal(t, "r-1", reply.RequestID)

	w = api.do(t, http.MethodPost, "/api/guardian/messages", gin.H{
		"type": guardian.TypeGuardianPaired, "from": "g-1", "requestId": "r-2",
		"payload": gin.H{"guardianId": "g-1", "guardianName": "Daughter"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/guardians", nil)
	require.Equal(t, http.StatusOK, w.Code)
	paired := decode[[]entities.PairedGuardian](t, w)
	require.Len(t, paired, 1)
	assert.Equal(t, "g-1", paired[0].GuardianID)

	w = api.do(t, http.MethodPost, "/api/guardian/messages", gin.H{
		"type": guardian.TypeGetState, "from": "g-1", "requestId": "r-3",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, guardian.TypeStateResponse, decode[guardian.Message](t, w).Type)

	w = api.do(t, http.MethodDelete, "/api/guardians/g-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(t, http.MethodDelete, "/api/guardians/g-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	api.svc.Audit.Wait()
	w = api.do(t, http.MethodGet, "/api/audit?type=pairing", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data  []entities.AuditEvent `json:"data"`
		Total int64                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
}

func TestRouter_GuardianMessagesLockout(t *testing.T) {
	api := setupAPI(t)

	for i := 0; i < 10; i++ {
		w := api.do(t, http.MethodPost, "/api/guardian/messages", gin.H{"type": "NOT_A_TYPE", "from": "g-" + strconv.Itoa(i)})
		require.Equal(t, http.StatusBadRequest, w.Code)
		if i == 4 {
			w = api.do(t, http.MethodPost, "/api/guardian/messages", gin.H{"type": guardian.TypeGetState, "from": "g-ok"})
			require.Equal(t, http.StatusOK, w.Code, "accepted messages do not clear failures")
		}
	}

	w := api.do(t, http.MethodPost, "/api/guardian/messages", gin.H{"type": guardian.TypeGetState, "from": "g-new"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "changing the sender id does not lift the lockout")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRouter_MaintenanceWithoutScheduler(t *testing.T) {
	api := setupAPI(t)
	w := api.do(t, http.MethodPost, "/api/maintenance/check_missed_doses/run", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRouter_MaintenanceRun(t *testing.T) {
	api := setupAPI(t)
	inline := tasks.NewInline(api.svc.Alerts, api.svc.Audit)
	sched := scheduler.NewMaintenanceScheduler(inline, scheduler.Config{AlertRetentionDays: 90, AuditRetentionDays: 30})
	router := NewRouter(RouterConfig{Database: api.db, Services: api.svc, Scheduler: sched})

	req := httptest.NewRequest(http.MethodPost, "/api/maintenance/cleanup_resolved_alerts/run", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/api/maintenance/reindex/run", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// readEvent returns the next "data:" payload of a server-sent event stream.
func readEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if data, ok := strings.CutPrefix(strings.TrimRight(line, "\n"), "data:"); ok {
			return data
		}
	}
}

func TestRouter_WatchContactsStreamsChanges(t *testing.T) {
	api := setupAPI(t)
	server := httptest.NewServer(api.router)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/api/watch/contacts", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	var contacts []entities.EmergencyContact
	require.NoError(t, json.Unmarshal([]byte(readEvent(t, reader)), &contacts))
	assert.Empty(t, contacts)

	_, err = api.svc.Repos.Contacts.Insert(&entities.EmergencyContact{Name: "Anna", PhoneNumber: "+100"})
	require.NoError(t, err)

	contacts = nil
	require.NoError(t, json.Unmarshal([]byte(readEvent(t, reader)), &contacts))
	require.Len(t, contacts, 1)
	assert.Equal(t, "Anna", contacts[0].Name)

	cancel()
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
