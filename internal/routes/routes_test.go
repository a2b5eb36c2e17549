package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/config"
	dbpkg "github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/db"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/infra/locker"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/logging"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/metrics"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/middleware"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/models"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/seed"
	"github.com/wellingtonmacedos/sistema-agendamentos-feminino/internal/timezone"
)

const secret = "test-secret"

type server struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	salon  *models.Salon
	carla  models.Professional
	cut    models.Service
	brush  models.Service
	token  string
	day    string
}

func init() {
	gin.SetMode(gin.TestMode)
	metrics.Register()
}

func newServer(t *testing.T) *server {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db, "America/Sao_Paulo"))

	salon, err := seed.Demo(context.Background(), db)
	require.NoError(t, err)

	s := &server{t: t, db: db, salon: salon}
	require.NoError(t, db.Preload("Services", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		Where("name = ?", "Carla").First(&s.carla).Error)
	s.cut, s.brush = s.carla.Services[0], s.carla.Services[1]

	s.token, err = seed.ConsoleToken(secret, 1, salon.ID, time.Hour)
	require.NoError(t, err)

	// two days ahead keeps clear of the notice, skipping the short Saturday and closed Sunday
	day := timezone.NowIn(salon.Timezone).AddDate(0, 0, 2)
	for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		day = day.AddDate(0, 0, 1)
	}
	s.day = day.Format(timezone.DateLayout)

	s.router = gin.New()
	RegisterRoutes(s.router, Deps{
		DB:     db,
		Config: &config.Config{JWTSecret: secret},
		Log:    logging.Nop(),
		Locker: locker.NewLocalLocker(2 * time.Second),
	})
	return s
}

func (s *server) do(method, path string, body any, console bool) *httptest.ResponseRecorder {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if console {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *server) publicPath(format string, args ...any) string {
	return fmt.Sprintf("/api/public/salons/%d", s.salon.ID) + fmt.Sprintf(format, args...)
}

func (s *server) availability(serviceIDs ...uint) *httptest.ResponseRecorder {
	ids := make([]string, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return s.do(http.MethodGet, s.publicPath("/availability?professional_id=%d&date=%s&services=%s",
		s.carla.ID, s.day, strings.Join(ids, ",")), nil, false)
}

func (s *server) slots(serviceIDs ...uint) []string {
	s.t.Helper()
	w := s.availability(serviceIDs...)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Slots []string `json:"slots"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Slots
}

func (s *server) book(clock string, serviceIDs ...uint) *httptest.ResponseRecorder {
	return s.do(http.MethodPost, s.publicPath("/bookings"), gin.H{
		"professional_id": s.carla.ID,
		"date":            s.day,
		"time":            clock,
		"service_ids":     serviceIDs,
		"customer_name":   "Ana",
		"customer_phone":  "(11) 98888-7777",
	}, false)
}

// ======================================================
// PUBLIC
// ======================================================

func TestPublic_AvailabilityAndBooking(t *testing.T) {
	s := newServer(t)

	before := s.slots(s.cut.ID)
	assert.Equal(t, "09:00", before[0])
	assert.Contains(t, before, "10:00")
	assert.NotContains(t, before, "11:30", "would run into lunch")

	w := s.book("10:00", s.cut.ID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.NotEmpty(t, created["reference"])
	assert.EqualValues(t, s.cut.Price, created["total_price"])

	after := s.slots(s.cut.ID)
	assert.Contains(t, after, "09:00")
	assert.NotContains(t, after, "09:30")
	assert.NotContains(t, after, "10:00")
	assert.NotContains(t, after, "10:30", "inside the buffer after the booking")
	assert.Contains(t, after, "11:00")

	w = s.book("10:00", s.cut.ID)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "slot_unavailable", decode(t, w)["error_code"])

	m := s.do(http.MethodGet, "/metrics", nil, false)
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "salon_scheduler_bookings_total")
}

func TestPublic_BookingErrors(t *testing.T) {
	s := newServer(t)

	far := timezone.NowIn(s.salon.Timezone).AddDate(0, 0, 60).Format(timezone.DateLayout)
	w := s.do(http.MethodPost, s.publicPath("/bookings"), gin.H{
		"professional_id": s.carla.ID,
		"date":            far,
		"time":            "10:00",
		"service_ids":     []uint{s.cut.ID},
		"customer_name":   "Ana",
		"customer_phone":  "11988887777",
	}, false)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "policy_violation", decode(t, w)["error_code"])

	w = s.book("10:00", 9999)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "service_not_found", decode(t, w)["error_code"])

	w = s.do(http.MethodPost, s.publicPath("/bookings"), gin.H{"professional_id": s.carla.ID}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_input", decode(t, w)["error_code"])

	w = s.do(http.MethodGet, s.publicPath("/availability?professional_id=%d&date=%s&services=a,b", s.carla.ID, s.day), nil, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/public/salons/999/services", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "salon_not_found", decode(t, w)["error_code"])
}

func TestPublic_ArrivalOrderDay(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/me/closures", gin.H{
		"professional_id": s.carla.ID,
		"start_date":      s.day,
		"kind":            "arrival_order",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.availability(s.cut.ID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(middleware.ArrivalOrderHeader))
	assert.JSONEq(t, fmt.Sprintf(`{"date":%q,"slots":[],"arrival_order":true}`, s.day), w.Body.String())

	assert.Equal(t, http.StatusConflict, s.book("10:00", s.cut.ID).Code)
}

func TestPublic_Catalogue(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, s.publicPath("/services"), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, decode(t, w)["total"])

	w = s.do(http.MethodGet, s.publicPath("/professionals?service_id=%d", s.cut.ID), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.EqualValues(t, 1, body["total"])
	assert.Equal(t, "Carla", body["data"].([]any)[0].(map[string]any)["name"])

	w = s.do(http.MethodGet, s.publicPath("/professionals"), nil, false)
	assert.EqualValues(t, 2, decode(t, w)["total"])
}

func TestPublic_CustomerSelfService(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, s.publicPath("/customers/check?phone=11988887777"), nil, false)
	assert.JSONEq(t, `{"found":false}`, w.Body.String())

	w = s.book("14:00", s.cut.ID, s.brush.ID)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reference := decode(t, w)["reference"].(string)

	w = s.do(http.MethodGet, s.publicPath("/customers/check?%s", url.Values{"phone": {"(11) 98888-7777"}}.Encode()), nil, false)
	assert.JSONEq(t, `{"found":true,"name":"Ana"}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/public/appointments?phone=11988887777", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = s.do(http.MethodDelete, "/api/public/appointments/"+reference, gin.H{"phone": "11900000000"}, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodDelete, "/api/public/appointments/"+reference, gin.H{"phone": "11988887777"}, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", decode(t, w)["status"])

	assert.Equal(t, http.StatusCreated, s.book("14:00", s.cut.ID).Code, "cancelled appointments free their slot")
}

// ======================================================
// CONSOLE
// ======================================================

func TestConsole_RequiresToken(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/me/salon", nil, false).Code)

	w := s.do(http.MethodGet, "/api/me", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner", decode(t, w)["user"].(map[string]any)["role"])
}

func TestConsole_StaffCannotManageSalon(t *testing.T) {
	s := newServer(t)

	staff, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.ConsoleClaims{
		UserID:  2,
		SalonID: s.salon.ID,
		Role:    middleware.RoleStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	s.token = staff

	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/me/appointments?date="+s.day, nil, true).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/me/salon", nil, true).Code)

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, "/api/me/salon", gin.H{"max_future_days": 5}, true).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/me/closures", gin.H{"start_date": s.day}, true).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/me/audit-logs", nil, true).Code)

	var stored models.Salon
	require.NoError(t, s.db.First(&stored, s.salon.ID).Error)
	assert.Equal(t, 30, stored.MaxFutureDays)
}

func TestConsole_SalonSettings(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPatch, "/api/me/salon", gin.H{"appointment_buffer_minutes": 0, "slot_interval_minutes": 15}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.Salon
	require.NoError(t, s.db.First(&stored, s.salon.ID).Error)
	assert.Equal(t, 0, stored.AppointmentBufferMinutes)
	assert.Equal(t, 15, stored.SlotIntervalMinutes)

	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, "/api/me/salon", gin.H{"timezone": "Mars/Olympus"}, true).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(http.MethodPatch, "/api/me/salon", gin.H{"max_future_days": 0}, true).Code)

	slots := s.slots(s.cut.ID)
	assert.Contains(t, slots, "09:15")
}

func TestConsole_ProfessionalWorkingHours(t *testing.T) {
	s := newServer(t)
	path := fmt.Sprintf("/api/me/professionals/%d/working-hours", s.carla.ID)

	day, err := timezone.ParseDate(s.salon.Timezone, s.day)
	require.NoError(t, err)

	w := s.do(http.MethodPut, path, gin.H{"days": []gin.H{
		{"weekday": int(day.Weekday()), "is_open": true, "open_time": "15:00", "close_time": "10:00"},
	}}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, path, gin.H{"days": []gin.H{
		{"weekday": int(day.Weekday()), "is_open": true, "open_time": "15:00", "close_time": "17:00"},
	}}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, []string{"15:00", "15:30", "16:00"}, s.slots(s.cut.ID))

	w = s.do(http.MethodGet, path, nil, true)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = s.do(http.MethodGet, "/api/me/professionals/999/working-hours", nil, true)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConsole_AppointmentLifecycle(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/me/appointments", gin.H{
		"professional_id": s.carla.ID,
		"service_ids":     []uint{s.cut.ID},
		"customer_name":   "Bia",
		"customer_phone":  "11977776666",
		"date":            s.day,
		"time":            "09:00",
	}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := uint(decode(t, w)["appointment_id"].(float64))

	w = s.do(http.MethodGet, "/api/me/appointments?date="+s.day, nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "panel", list[0].(map[string]any)["origin"])

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/complete", id), gin.H{"final_price": 70}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 70, decode(t, w)["final_price"])

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/me/appointments/%d/cancel", id), nil, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_state", decode(t, w)["error_code"])

	day, err := timezone.ParseDate(s.salon.Timezone, s.day)
	require.NoError(t, err)
	w = s.do(http.MethodGet, fmt.Sprintf("/api/me/appointments/month?year=%d&month=%d", day.Year(), int(day.Month())), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["appointments"], 1)

	w = s.do(http.MethodGet, "/api/me/customers?query=bia", nil, true)
	assert.EqualValues(t, 1, decode(t, w)["total"])
}

func TestConsole_Catalogue(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/me/services", gin.H{"name": "Hidratação", "duration_min": 60, "price": 120, "category": "Cabelo"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	serviceID := uint(decode(t, w)["id"].(float64))

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/me/services/%d", serviceID), gin.H{"duration_min": 0}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/me/professionals", gin.H{"name": "Renata", "service_ids": []uint{serviceID, 9999}}, true)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/me/professionals", gin.H{"name": "Renata", "service_ids": []uint{serviceID}}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	renata := uint(decode(t, w)["id"].(float64))

	w = s.do(http.MethodGet, s.publicPath("/professionals?service_id=%d", serviceID), nil, false)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = s.do(http.MethodPatch, fmt.Sprintf("/api/me/professionals/%d", renata), gin.H{"service_ids": []uint{s.cut.ID}, "active": false}, true)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, decode(t, w)["active"])

	w = s.do(http.MethodGet, s.publicPath("/professionals?service_id=%d", serviceID), nil, false)
	assert.EqualValues(t, 0, decode(t, w)["total"])
}

func TestConsole_ClosuresAndAuditLogs(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodPost, "/api/me/closures", gin.H{"start_date": s.day, "start_time": "13:00", "end_time": "18:00", "reason": "treinamento"}, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	closureID := uint(decode(t, w)["id"].(float64))

	for _, slot := range s.slots(s.cut.ID) {
		assert.Less(t, slot, "13:00")
	}

	w = s.do(http.MethodGet, fmt.Sprintf("/api/me/closures?from=%s&to=%s", s.day, s.day), nil, true)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	assert.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, fmt.Sprintf("/api/me/closures/%d", closureID), nil, true).Code)
	assert.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, fmt.Sprintf("/api/me/closures/%d", closureID), nil, true).Code)
	assert.Contains(t, s.slots(s.cut.ID), "15:00")

	require.NoError(t, s.db.Create(&models.AuditLog{SalonID: s.salon.ID, Action: "booking_created", Entity: "appointment"}).Error)
	require.NoError(t, s.db.Create(&models.AuditLog{SalonID: s.salon.ID + 1, Action: "booking_created"}).Error)

	w = s.do(http.MethodGet, "/api/me/audit-logs?action=booking_created", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["count"])
	assert.EqualValues(t, 1, body["page"])
}

func TestHealth(t *testing.T) {
	s := newServer(t)

	w := s.do(http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
