package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/justHusniddin/Antikorbot/internal/config"
	"github.com/justHusniddin/Antikorbot/internal/models"
	"github.com/justHusniddin/Antikorbot/internal/storage"
)

func newTestHandler(st *storage.MockStorage) *Handler {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:     "test-secret",
		AdminUser:     "admin",
		AdminPassword: "password123",
	}
	return NewHandler(st, nil, cfg, zap.NewNop().Sugar())
}

func login(t *testing.T, h *Handler) string {
	t.Helper()
	body := `{"username":"admin","password":"password123"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	h.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["token"])
	return resp["token"]
}

func doJSON(h *Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)
	return w
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := newTestHandler(new(storage.MockStorage))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"wrong"}`))
	h.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestHandler(new(storage.MockStorage))

	w := doJSON(h, http.MethodGet, "/api/complaints", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(h, http.MethodGet, "/api/complaints", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListComplaintsParsesFilters(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	var got storage.ComplaintFilter
	st.On("ListComplaints", mock.AnythingOfType("storage.ComplaintFilter")).
		Run(func(args mock.Arguments) { got = args.Get(0).(storage.ComplaintFilter) }).
		Return([]models.Complaint{{ID: 1}}, int64(1), nil)

	w := doJSON(h, http.MethodGet,
		"/api/complaints?status=new&region_id=3&is_anonymous=true&from=2025-06-01&to=2025-06-30&q=взятка&limit=10&offset=20",
		token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusNew, got.Status)
	assert.Equal(t, 3, got.RegionID)
	require.NotNil(t, got.IsAnonymous)
	assert.True(t, *got.IsAnonymous)
	require.NotNil(t, got.From)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *got.To, "to is inclusive")
	assert.Equal(t, "взятка", got.Query)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, 20, got.Offset)
}

func TestListComplaintsRejectsUnknownStatus(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	w := doJSON(h, http.MethodGet, "/api/complaints?status=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	st.AssertNotCalled(t, "ListComplaints", mock.Anything)
}

func TestGetComplaintNotFound(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	st.On("GetComplaintByID", uint(9)).Return(nil, storage.ErrNotFound)

	w := doJSON(h, http.MethodGet, "/api/complaints/9", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateComplaintStatus(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	updated := &models.Complaint{ID: 5, Status: models.StatusInProgress}
	st.On("UpdateComplaint", uint(5), mock.Anything, mock.Anything).Return(updated, nil)

	w := doJSON(h, http.MethodPatch, "/api/complaints/5", token,
		gin.H{"status": "in_progress"})

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.Complaint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusInProgress, resp.Status)
}

func TestUpdateResolvedComplaintConflicts(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	st.On("UpdateComplaint", uint(5), mock.Anything, mock.Anything).
		Return(nil, storage.ErrComplaintResolved)

	w := doJSON(h, http.MethodPatch, "/api/complaints/5", token, gin.H{"status": "new"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBulkUpdateStatus(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	st.On("BulkUpdateStatus", []uint{1, 2, 3}, models.StatusResolved).Return(int64(3), nil)

	w := doJSON(h, http.MethodPost, "/api/complaints/bulk-status", token,
		gin.H{"ids": []uint{1, 2, 3}, "status": "resolved"})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":3`)
}

func TestExportCSV(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	st.On("AllComplaints").Return([]models.Complaint{
		{ID: 1, RegionName: "Ташкент", DistrictName: "Чиланзар", ComplaintText: "текст", Status: models.StatusNew},
	}, nil)

	w := doJSON(h, http.MethodGet, "/api/exports/complaints.csv", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "complaints.csv")
	assert.Contains(t, w.Body.String(), "Ташкент")
}

func TestListUsers(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	st.On("ListUsers", 50, 0).Return([]models.TelegramUser{{ID: 1, TelegramID: 100}}, int64(1), nil)

	w := doJSON(h, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}

func TestBlockUser(t *testing.T) {
	st := new(storage.MockStorage)
	h := newTestHandler(st)
	token := login(t, h)

	st.On("SetUserBlocked", int64(100), true).Return(nil)

	w := doJSON(h, http.MethodPatch, "/api/users/100/block", token, gin.H{"blocked": true})
	require.Equal(t, http.StatusOK, w.Code)
	st.AssertExpectations(t)

	w = doJSON(h, http.MethodPatch, "/api/users/100/block", token, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebSocketFeedRequiresToken(t *testing.T) {
	h := newTestHandler(new(storage.MockStorage))

	w := doJSON(h, http.MethodGet, "/api/ws/complaints", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
