package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddroy9090-ind/reliant-page-access/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLogStore struct {
	rows      []models.AccessEvent
	fetchErr  error
	insertErr error

	gotStart time.Time
	gotEnd   time.Time
	gotLimit int
	inserted []models.AccessLogRecord
}

func (s *stubLogStore) FetchRows(_ context.Context, start, end time.Time, limit int) ([]models.AccessEvent, error) {
	s.gotStart = start
	s.gotEnd = end
	s.gotLimit = limit
	return s.rows, s.fetchErr
}

func (s *stubLogStore) InsertAccessEvents(_ context.Context, records []models.AccessLogRecord) error {
	s.inserted = append(s.inserted, records...)
	return s.insertErr
}

func newTestRouter(s *stubLogStore, rowLimit int) *gin.Engine {
	h := NewAnalyticsHandlers(s, rowLimit)
	r := gin.New()
	r.GET("/api/analytics", h.GetPageAnalytics)
	r.POST("/api/track", h.TrackAccess)
	return r
}

func TestGetPageAnalytics(t *testing.T) {
	uri := "/home"
	stub := &stubLogStore{rows: []models.AccessEvent{
		{RequestURI: &uri, AccessedAt: time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC), IPAddress: "203.0.113.9"},
		{RequestURI: &uri, AccessedAt: time.Date(2026, 8, 10, 9, 1, 0, 0, time.UTC), IPAddress: "203.0.113.9"},
	}}
	r := newTestRouter(stub, 500)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics?start=2026-08-01&end=2026-08-31", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 500, stub.gotLimit)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local), stub.gotStart)
	assert.Equal(t, time.Date(2026, 8, 31, 23, 59, 59, 0, time.Local), stub.gotEnd)

	var payload struct {
		RowsProcessed int `json:"rowsProcessed"`
		Popularity    struct {
			Pages []struct {
				Page   string `json:"page"`
				Visits int    `json:"visits"`
			} `json:"pages"`
		} `json:"popularity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, 2, payload.RowsProcessed)
	require.Len(t, payload.Popularity.Pages, 1)
	assert.Equal(t, "/home", payload.Popularity.Pages[0].Page)
	assert.Equal(t, 2, payload.Popularity.Pages[0].Visits)
}

func TestGetPageAnalyticsInvalidDatesFallBack(t *testing.T) {
	stub := &stubLogStore{}
	r := newTestRouter(stub, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics?start=garbage&end=2026-08-31", nil)
	r.ServeHTTP(w, req)

	// Malformed dates are corrected to the trailing 30-day window, never an
	// error response.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "00:00:00", stub.gotStart.Format("15:04:05"))
	assert.Equal(t, "23:59:59", stub.gotEnd.Format("15:04:05"))
	wantStartDay := stub.gotEnd.AddDate(0, 0, -29)
	assert.Equal(t, wantStartDay.Format("2006-01-02"), stub.gotStart.Format("2006-01-02"))
}

func TestGetPageAnalyticsStoreFailure(t *testing.T) {
	stub := &stubLogStore{fetchErr: errors.New("connection refused")}
	r := newTestRouter(stub, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	// Internal detail stays in the server log.
	assert.Equal(t, "Failed to compute analytics", payload["error"])
}

func TestTrackAccess(t *testing.T) {
	stub := &stubLogStore{}
	r := newTestRouter(stub, 0)

	body := `[{"requestUri": "/market-reports", "sessionId": "abc123"}]`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0)")
	req.RemoteAddr = "203.0.113.7:52814"
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, stub.inserted, 1)
	record := stub.inserted[0]
	assert.Equal(t, "/market-reports", record.RequestURI)
	assert.Equal(t, "abc123", record.SessionID)
	assert.Equal(t, "203.0.113.7", record.IPAddress)
	assert.Equal(t, "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0)", record.UserAgent)
	assert.NotEmpty(t, record.RecordID)
	assert.False(t, record.AccessedAt.IsZero())
}

func TestTrackAccessEmptyBatch(t *testing.T) {
	stub := &stubLogStore{}
	r := newTestRouter(stub, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader(`[]`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, stub.inserted)
}

func TestTrackAccessInvalidBody(t *testing.T) {
	stub := &stubLogStore{}
	r := newTestRouter(stub, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader(`{"not": "an array"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackAccessStoreFailure(t *testing.T) {
	stub := &stubLogStore{insertErr: errors.New("copy failed")}
	r := newTestRouter(stub, 0)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/track", strings.NewReader(`[{"requestUri": "/home"}]`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "Failed to record page access", payload["error"])
}
