package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"groundwater-backend/internal/catalog"
	"groundwater-backend/internal/interpreter"
	"groundwater-backend/internal/shared/auth"
	"groundwater-backend/internal/shared/metrics"
	"groundwater-backend/internal/shared/server/middleware"
	"groundwater-backend/internal/shared/telemetry"
)

type fixture struct {
	router  *gin.Engine
	log     *MemoryLog
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	restore := telemetry.SetOutput(io.Discard)
	t.Cleanup(restore)

	cat, err := catalog.Default()
	require.NoError(t, err)
	clock := clockwork.NewFakeClockAt(time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC))
	interp, err := interpreter.New(cat, interpreter.WithClock(clock))
	require.NoError(t, err)

	log := NewMemoryLog(10)
	m := metrics.NewForTesting()
	h := NewHandler(interp, log, m, 0)
	h.Clock = clock

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Auth())
	h.RegisterRoutes(api)
	return fixture{router: r, log: log, metrics: m}
}

func (f fixture) post(path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

var guest = map[string]string{"X-Guest-Id": "g-1"}

func TestChatReturnsResultVerbatim(t *testing.T) {
	f := newFixture(t)

	resp := f.post("/api/v1/chat", `{"message":"Show Punjab groundwater data"}`, guest)
	require.Equal(t, http.StatusOK, resp.Code)

	var got interpreter.Result
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, interpreter.IntentLocation, got.Intent)
	assert.Equal(t, "over-exploited", got.GroundwaterStatus)
	assert.True(t, got.HasData)
	assert.Equal(t, interpreter.DataSources, got.DataSources)
	assert.Contains(t, got.Message, "Punjab")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &raw))
	for _, key := range []string{"message", "intent", "confidence", "processing_time_ms", "has_data",
		"requires_clarification", "suggestions", "data_sources", "groundwater_status"} {
		assert.Contains(t, raw, key)
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ChatQueries.WithLabelValues("location_query")))
}

func TestChatRecordsHistory(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.post("/api/v1/chat", `{"message":"help"}`, guest).Code)
	require.Equal(t, http.StatusOK, f.post("/api/v1/chat", `{"message":"what is the weather"}`, guest).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history?limit=5", nil)
	req.Header.Set("X-Guest-Id", "g-1")
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var body struct {
		Entries []Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Entries, 2)
	assert.Equal(t, interpreter.IntentUnknown, body.Entries[0].Intent)
	assert.True(t, body.Entries[0].RequiresClarification)
	assert.Equal(t, interpreter.IntentHelp, body.Entries[1].Intent)
	assert.Equal(t, "guest:g-1", body.Entries[1].UserID)
	assert.Equal(t, "guest", body.Entries[1].Role)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ChatClarifications))

	bad := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history?limit=zero", nil)
	bad.Header.Set("X-Guest-Id", "g-1")
	badResp := httptest.NewRecorder()
	f.router.ServeHTTP(badResp, bad)
	assert.Equal(t, http.StatusBadRequest, badResp.Code)
}

func TestChatHistoryClampsLimit(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusOK, f.post("/api/v1/chat", `{"message":"help"}`, guest).Code)
	require.Equal(t, http.StatusOK, f.post("/api/v1/chat", `{"message":"show critical areas"}`, guest).Code)

	tests := []struct {
		limit string
		want  int
	}{
		{"0", 1},
		{"-3", 1},
		{"1", 1},
		{"500", 2},
	}
	for _, tt := range tests {
		t.Run("limit="+tt.limit, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/chat/history?limit="+tt.limit, nil)
			req.Header.Set("X-Guest-Id", "g-1")
			resp := httptest.NewRecorder()
			f.router.ServeHTTP(resp, req)
			require.Equal(t, http.StatusOK, resp.Code)

			var body struct {
				Entries []Entry `json:"entries"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Len(t, body.Entries, tt.want)
		})
	}
}

func TestChatRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		body   string
		reason string
		text   string
	}{
		{"malformed", `{"message":`, "malformed", "invalid JSON body"},
		{"missing", `{}`, "empty", "Message is required"},
		{"too long", `{"message":"` + strings.Repeat("x", 1001) + `"}`, "too_long", "Message too long"},
		{"script", `{"message":"<script>alert(1)</script>"}`, "content", "Invalid input content"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.post("/api/v1/chat", tt.body, guest)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.text)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ChatRejected.WithLabelValues(tt.reason)))
		})
	}

	history, err := f.log.Recent(context.Background(), "guest:g-1", 10)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestChatRequiresIdentity(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, http.StatusUnauthorized, f.post("/api/v1/chat", `{"message":"help"}`, nil).Code)
}

func TestExplainRequiresAnalyst(t *testing.T) {
	f := newFixture(t)
	t.Setenv("ENV", "dev")
	t.Setenv("JWT_SECRET", "chat-test-secret")

	body := `{"message":"compare punjab and haryana trend"}`
	assert.Equal(t, http.StatusForbidden, f.post("/api/v1/chat/explain", body, guest).Code)

	token, err := auth.SignJWT(auth.Claims{Sub: "user-9", Username: "analyst", Role: auth.RoleAnalyst})
	require.NoError(t, err)
	resp := f.post("/api/v1/chat/explain", body, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, resp.Code)

	var exp interpreter.Explanation
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &exp))
	assert.True(t, exp.ComparisonMatched)
	assert.Equal(t, []string{"punjab", "haryana"}, exp.ComparisonRegions)
	assert.Equal(t, interpreter.IntentHistorical, exp.CascadeBranch)
	assert.True(t, exp.Overwritten)
	assert.Equal(t, interpreter.IntentHistorical, exp.Result.Intent)
}
