package routes

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/domain/booking/bookingtest"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notify"
	"github.com/BruksfildServices01/barber-booking/internal/otp"
	pay "github.com/BruksfildServices01/barber-booking/internal/payment"
	"github.com/BruksfildServices01/barber-booking/internal/ratelimit"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const tuesday = "2026-10-20"

type app struct {
	router *gin.Engine
	store  *bookingtest.Store
	audit  *audit.Dispatcher
	tokens *middleware.Tokens

	stylist *models.User
	staff   *models.User
	admin   *models.User
	haircut *models.Service
}

func newApp(t *testing.T, limit int) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := bookingtest.New()
	log := zap.NewNop()
	m := metrics.NewNop()
	dispatcher := audit.NewDispatcher(store, log)
	t.Cleanup(dispatcher.Close)

	a := &app{
		router:  gin.New(),
		store:   store,
		audit:   dispatcher,
		tokens:  middleware.NewTokens("test-secret", time.Hour),
		stylist: store.AddUser(models.RoleStylist, "Carlos Barber"),
		staff:   store.AddUser(models.RoleStaff, "Desk"),
		admin:   store.AddUser(models.RoleAdmin, "Root"),
		haircut: store.AddService("Haircut", 45, "50.00"),
	}

	RegisterRoutes(a.router, Deps{
		Bookings:  store,
		Payments:  store,
		Reviews:   store,
		Accounts:  store,
		Catalog:   store,
		Schedules: store,
		AuditLogs: store,
		Audit:     dispatcher,
		Notifier:  notify.NewLogNotifier(log),
		Gateway:   pay.NewSimulatedGateway(1, rand.NewSource(1)),
		OTP:       otp.NewService(otp.NewMemoryStore(), otp.DefaultTTL),
		Tokens:    a.tokens,
		Limiter:   ratelimit.New(ratelimit.NewMemoryStore(), limit, time.Minute, log, m),
		Clock:     timezone.Fixed{At: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)},
		Policy:    domain.DefaultSchedulePolicy(),
		Metrics:   m,
		Log:       log,
	})
	return a
}

func (a *app) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := a.tokens.Issue(u.ID, u.Role)
	require.NoError(t, err)
	return tok
}

func (a *app) call(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	}
	return w.Code, out
}

// register cria um cliente pela API e devolve o token.
func (a *app) register(t *testing.T, email string) string {
	t.Helper()
	status, body := a.call(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     "Ana Souza",
		"email":    email,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status, body)
	return body["token"].(string)
}

func (a *app) book(t *testing.T, token, at string) (int, map[string]any) {
	t.Helper()
	return a.call(t, http.MethodPost, "/api/bookings", token, gin.H{
		"stylist_id": a.stylist.ID,
		"service_id": a.haircut.ID,
		"date":       tuesday,
		"time":       at,
	})
}

func TestBookingLifecycleOverHTTP(t *testing.T) {
	a := newApp(t, 1000)
	customer := a.register(t, "ana@example.com")
	staff := a.token(t, a.staff)

	status, b := a.book(t, customer, "10:00")
	require.Equal(t, http.StatusCreated, status, b)
	assert.Equal(t, "pending", b["status"])
	assert.Equal(t, "10:45:00", b["end_time"])
	assert.Equal(t, "50.00", b["total_amount"])
	id := b["id"].(string)

	status, body := a.book(t, customer, "10:30")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "time_conflict", body["error_code"])

	for _, next := range []string{"confirmed", "in_progress", "completed"} {
		status, body = a.call(t, http.MethodPatch, "/api/bookings/"+id+"/status", staff, gin.H{"status": next})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, next, body["status"])
	}

	status, body = a.call(t, http.MethodPatch, "/api/bookings/"+id+"/status", staff, gin.H{"status": "pending"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "invalid_transition", body["error_code"])

	status, body = a.call(t, http.MethodGet, "/api/bookings/"+id+"/history", customer, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 4, body["total"])

	// pagamento e avaliação
	status, body = a.call(t, http.MethodPost, "/api/bookings/"+id+"/payments", customer, gin.H{"method": "pix"})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "paid", body["status"])

	status, body = a.call(t, http.MethodPost, "/api/bookings/"+id+"/payments", customer, gin.H{"method": "pix"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_paid", body["error_code"])

	status, body = a.call(t, http.MethodPost, "/api/bookings/"+id+"/review", customer, gin.H{"rating": 5, "comment": "great"})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = a.call(t, http.MethodGet, "/api/stylists/"+a.stylist.ID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 5, body["average_rating"])
}

func TestRescheduleOverHTTP(t *testing.T) {
	a := newApp(t, 1000)
	ana := a.register(t, "ana@example.com")
	bruno := a.register(t, "bruno@example.com")

	status, b := a.book(t, ana, "10:00")
	require.Equal(t, http.StatusCreated, status, b)
	id := b["id"].(string)

	status, other := a.book(t, bruno, "12:00")
	require.Equal(t, http.StatusCreated, status, other)

	t.Run("notes only keeps date and time", func(t *testing.T) {
		status, body := a.call(t, http.MethodPatch, "/api/bookings/"+id, ana, gin.H{"notes": "  beard too  "})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, "beard too", body["notes"])
		assert.Equal(t, tuesday, body["appointment_date"])
		assert.Equal(t, "10:00:00", body["start_time"])
		assert.Equal(t, "10:45:00", body["end_time"])
	})

	t.Run("time only may overlap its own interval", func(t *testing.T) {
		status, body := a.call(t, http.MethodPatch, "/api/bookings/"+id, ana, gin.H{"time": "10:30"})
		require.Equal(t, http.StatusOK, status, body)
		assert.Equal(t, tuesday, body["appointment_date"])
		assert.Equal(t, "10:30:00", body["start_time"])
		assert.Equal(t, "11:15:00", body["end_time"])
		assert.Equal(t, "beard too", body["notes"])
	})

	t.Run("other bookings still conflict", func(t *testing.T) {
		status, body := a.call(t, http.MethodPatch, "/api/bookings/"+id, ana, gin.H{"time": "11:30"})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "time_conflict", body["error_code"])
	})

	t.Run("empty body", func(t *testing.T) {
		status, body := a.call(t, http.MethodPatch, "/api/bookings/"+id, ana, gin.H{})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "nothing_to_update", body["error_code"])
	})

	status, body := a.call(t, http.MethodGet, "/api/bookings/"+id+"/history", ana, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, body["total"])
}

func TestCancelAndVisibility(t *testing.T) {
	a := newApp(t, 1000)
	ana := a.register(t, "ana@example.com")
	bruno := a.register(t, "bruno@example.com")

	status, b := a.book(t, ana, "14:00")
	require.Equal(t, http.StatusCreated, status, b)
	id := b["id"].(string)

	// outro cliente não enxerga
	status, _ = a.call(t, http.MethodGet, "/api/bookings/"+id, bruno, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body := a.call(t, http.MethodGet, "/api/bookings", bruno, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body["total"])

	status, body = a.call(t, http.MethodPost, "/api/bookings/"+id+"/cancel", ana, gin.H{})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cancel_reason_required", body["error_code"])

	status, body = a.call(t, http.MethodPost, "/api/bookings/"+id+"/cancel", ana, gin.H{"reason": "sick"})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "cancelled", body["status"])

	// o horário volta a ficar livre
	status, _ = a.book(t, bruno, "14:00")
	assert.Equal(t, http.StatusCreated, status)
}

func TestAvailabilityEndpoint(t *testing.T) {
	a := newApp(t, 1000)

	status, body := a.call(t, http.MethodGet, "/api/stylists/"+a.stylist.ID+"/availability?date="+tuesday+"&service_id="+a.haircut.ID, "", nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["open"])
	assert.Len(t, body["slots"], 34)

	window := body["working_window"].(map[string]any)
	assert.Equal(t, string(domain.WindowFromDefault), window["source"])

	status, body = a.call(t, http.MethodGet, "/api/stylists/"+a.stylist.ID+"/availability?date=2026-10-25", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["open"])
	assert.Empty(t, body["slots"])

	status, body = a.call(t, http.MethodGet, "/api/stylists/"+a.stylist.ID+"/availability", "", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "missing_date", body["error_code"])
}

func TestStaffRoutes(t *testing.T) {
	a := newApp(t, 1000)
	customer := a.register(t, "ana@example.com")
	staff := a.token(t, a.staff)
	admin := a.token(t, a.admin)

	status, _ := a.call(t, http.MethodGet, "/api/bookings/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := a.call(t, http.MethodGet, "/api/bookings/stats", customer, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["error_code"])

	status, _ = a.call(t, http.MethodGet, "/api/bookings/stats", staff, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = a.call(t, http.MethodPut, "/api/stylists/"+a.stylist.ID+"/schedule", staff, gin.H{
		"days": []gin.H{
			{"weekday": 2, "start_time": "10:00", "end_time": "12:00", "is_available": true},
		},
	})
	require.Equal(t, http.StatusOK, status, body)

	status, body = a.call(t, http.MethodGet, "/api/stylists/"+a.stylist.ID+"/availability?date="+tuesday, "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["slots"], 5)

	status, body = a.call(t, http.MethodPost, "/api/users", staff, gin.H{
		"name": "Bia", "email": "bia@example.com", "password": "secret123", "role": "stylist",
	})
	assert.Equal(t, http.StatusForbidden, status, body)

	status, body = a.call(t, http.MethodPost, "/api/users", admin, gin.H{
		"name": "Bia", "email": "bia@example.com", "password": "secret123", "role": "stylist",
	})
	require.Equal(t, http.StatusCreated, status, body)

	status, body = a.call(t, http.MethodGet, "/api/customers", staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])

	a.audit.Close()
	status, body = a.call(t, http.MethodGet, "/api/audit-logs?action=schedule_updated", staff, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body["total"])
}

func TestLoginAndPasswordReset(t *testing.T) {
	a := newApp(t, 1000)
	a.register(t, "ana@example.com")

	status, body := a.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)

	status, body = a.call(t, http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ana@example.com", body["user"].(map[string]any)["email"])

	status, body = a.call(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ana@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credentials", body["error_code"])

	known, knownBody := a.call(t, http.MethodPost, "/api/auth/password/forgot", "", gin.H{"email": "ana@example.com"})
	unknown, unknownBody := a.call(t, http.MethodPost, "/api/auth/password/forgot", "", gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusAccepted, known)
	assert.Equal(t, known, unknown)
	assert.Equal(t, knownBody, unknownBody)
}

func TestRateLimit(t *testing.T) {
	a := newApp(t, 2)

	for i := 0; i < 2; i++ {
		status, _ := a.call(t, http.MethodGet, "/api/services", "", nil)
		require.Equal(t, http.StatusOK, status)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/services", nil)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
