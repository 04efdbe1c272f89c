package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serenenow/scheduling/internal/booking"
	"github.com/serenenow/scheduling/internal/bookingflow"
	"github.com/serenenow/scheduling/internal/calendar"
)

func newSessionRouter(t *testing.T, api *fakeSlotAPI, policy bookingflow.Policy, public bool) *chi.Mux {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := bookingflow.NewSessionStore(client, 30*time.Minute)
	svc := booking.NewService(api, nil, 0, nil, nil)
	h := NewSessionHandler(store, svc, policy, public, "Asia/Kolkata", nil)

	r := chi.NewRouter()
	r.Post("/booking/sessions", h.Create)
	r.Get("/booking/sessions/{sessionID}", h.Get)
	r.Post("/booking/sessions/{sessionID}/steps/{step}/complete", h.CompleteStep)
	r.Post("/booking/sessions/{sessionID}/steps/{step}/edit", h.EditStep)
	r.Post("/booking/sessions/{sessionID}/slots", h.LoadSlots)
	r.Post("/booking/sessions/{sessionID}/select-time", h.SelectTime)
	r.Post("/booking/sessions/{sessionID}/timezone", h.SetTimezone)
	return r
}

func createSession(t *testing.T, router *chi.Mux, body string) SessionResponse {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/booking/sessions", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.SessionID)
	return resp
}

func postSession(t *testing.T, router *chi.Mux, path, body string) (*httptest.ResponseRecorder, SessionResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp SessionResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec, resp
}

func TestCreateSessionSingleServiceSkipsServiceStep(t *testing.T) {
	router := newSessionRouter(t, &fakeSlotAPI{}, bookingflow.PolicyPreserve, false)

	resp := createSession(t, router, `{"serviceCount":1,"timezone":"Asia/Kolkata"}`)
	assert.Equal(t, bookingflow.StepDate, resp.Stepper.Current)
	assert.True(t, resp.Stepper.States[bookingflow.StepService].Completed)
}

func TestCreateSessionPublicFlowHasClientStep(t *testing.T) {
	router := newSessionRouter(t, &fakeSlotAPI{}, bookingflow.PolicyPreserve, true)

	resp := createSession(t, router, `{"serviceCount":3}`)
	assert.Equal(t, []bookingflow.Step{
		bookingflow.StepService, bookingflow.StepDate, bookingflow.StepTime,
		bookingflow.StepClient, bookingflow.StepPayment,
	}, resp.Stepper.Steps)
	assert.Equal(t, "Asia/Kolkata", resp.Stepper.Timezone)
}

func TestGetSessionNotFound(t *testing.T) {
	router := newSessionRouter(t, &fakeSlotAPI{}, bookingflow.PolicyPreserve, false)

	req := httptest.NewRequest(http.MethodGet, "/booking/sessions/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteAndEditStepPersists(t *testing.T) {
	router := newSessionRouter(t, &fakeSlotAPI{}, bookingflow.PolicyPreserve, false)
	sess := createSession(t, router, `{"serviceCount":3}`)

	rec, resp := postSession(t, router, "/booking/sessions/"+sess.SessionID+"/steps/service/complete", `{"data":{"serviceId":"svc-1"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingflow.StepDate, resp.Stepper.Current)

	rec, resp = postSession(t, router, "/booking/sessions/"+sess.SessionID+"/steps/service/edit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bookingflow.StepService, resp.Stepper.Current)
	assert.False(t, resp.Stepper.States[bookingflow.StepService].Completed)

	// The mutated state survives a reload.
	req := httptest.NewRequest(http.MethodGet, "/booking/sessions/"+sess.SessionID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)
	require.Equal(t, http.StatusOK, getRec.Code)
	var loaded SessionResponse
	require.NoError(t, json.NewDecoder(getRec.Body).Decode(&loaded))
	assert.Equal(t, bookingflow.StepService, loaded.Stepper.Current)
}

func TestCompleteUnknownStep(t *testing.T) {
	router := newSessionRouter(t, &fakeSlotAPI{}, bookingflow.PolicyPreserve, false)
	sess := createSession(t, router, `{"serviceCount":3}`)

	rec, _ := postSession(t, router, "/booking/sessions/"+sess.SessionID+"/steps/checkout/complete", "{}")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoadSlotsAndSelectTime(t *testing.T) {
	api := &fakeSlotAPI{windows: []calendar.SlotWindow{
		{StartUTC: "2025-03-20T08:30:00", EndUTC: "2025-03-20T09:30:00"},
		{StartUTC: "2025-03-20T10:30:00", EndUTC: "2025-03-20T11:30:00"},
	}}
	router := newSessionRouter(t, api, bookingflow.PolicyPreserve, false)
	sess := createSession(t, router, `{"serviceCount":1}`)

	rec, resp := postSession(t, router, "/booking/sessions/"+sess.SessionID+"/slots",
		`{"expertId":"exp-1","serviceId":"svc-1","date":"2025-03-20"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Stepper.Display, 2)
	assert.Equal(t, "14:00", resp.Stepper.Display[0].Start, "rendered in IST")

	rec, resp = postSession(t, router, "/booking/sessions/"+sess.SessionID+"/select-time",
		`{"startUtc":"2025-03-20T08:30:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, resp.Stepper.Selected)
	assert.Equal(t, "2025-03-20T08:30:00", resp.Stepper.Selected.StartUTC)
	assert.True(t, resp.Stepper.States[bookingflow.StepTime].Completed)
}

func TestSelectTimeUnknownSlot(t *testing.T) {
	router := newSessionRouter(t, &fakeSlotAPI{}, bookingflow.PolicyPreserve, false)
	sess := createSession(t, router, `{"serviceCount":1}`)

	rec, _ := postSession(t, router, "/booking/sessions/"+sess.SessionID+"/select-time",
		`{"startUtc":"2025-03-20T08:30:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetTimezoneResetsSelection(t *testing.T) {
	api := &fakeSlotAPI{windows: []calendar.SlotWindow{
		{StartUTC: "2025-03-20T08:30:00", EndUTC: "2025-03-20T09:30:00"},
	}}
	router := newSessionRouter(t, api, bookingflow.PolicyPreserve, false)
	sess := createSession(t, router, `{"serviceCount":1}`)

	_, _ = postSession(t, router, "/booking/sessions/"+sess.SessionID+"/slots",
		`{"expertId":"exp-1","serviceId":"svc-1","date":"2025-03-20"}`)
	rec, _ := postSession(t, router, "/booking/sessions/"+sess.SessionID+"/select-time",
		`{"startUtc":"2025-03-20T08:30:00"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp := postSession(t, router, "/booking/sessions/"+sess.SessionID+"/timezone",
		`{"timezone":"America/New_York"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, resp.Stepper.Selected)
	assert.False(t, resp.Stepper.States[bookingflow.StepTime].Completed)
	require.Len(t, resp.Stepper.Display, 1)
	assert.Equal(t, "04:30", resp.Stepper.Display[0].Start)
	assert.Equal(t, "2025-03-20T08:30:00", resp.Stepper.Display[0].StartUTC, "UTC instants untouched by zone change")
}

func TestLoadSlotsMissingFields(t *testing.T) {
	router := newSessionRouter(t, &fakeSlotAPI{}, bookingflow.PolicyPreserve, false)
	sess := createSession(t, router, `{"serviceCount":1}`)

	rec, _ := postSession(t, router, "/booking/sessions/"+sess.SessionID+"/slots", `{"expertId":"exp-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
