package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dementia-probability-mcp/internal/domain"
	"github.com/dementia-probability-mcp/internal/service"
)

type stubConfig struct {
	cfg domain.Config
}

func (s *stubConfig) GetConfig() *domain.Config               { return &s.cfg }
func (s *stubConfig) GetServerConfig() *domain.ServerConfig   { return &s.cfg.Server }
func (s *stubConfig) GetMCPConfig() *domain.MCPConfig         { return &s.cfg.MCP }
func (s *stubConfig) GetLoggingConfig() *domain.LoggingConfig { return &s.cfg.Logging }
func (s *stubConfig) Reload() error                           { return nil }
func (s *stubConfig) Validate() error                         { return nil }
func (s *stubConfig) IsProduction() bool                      { return false }
func (s *stubConfig) IsDevelopment() bool                     { return true }

func newTestServer(t *testing.T, rps float64, burst int) *Server {
	t.Helper()
	logger, _ := test.NewNullLogger()
	cfg := &stubConfig{cfg: domain.Config{
		Server: domain.ServerConfig{
			Host:          "127.0.0.1",
			Port:          0,
			RateLimit:     rps,
			RateBurst:     burst,
			RateLimitIdle: time.Minute,
		},
		Logging: domain.LoggingConfig{Level: "info", Format: "json"},
	}}
	return NewServer(cfg, logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, 100, 100)

	w := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, Version, body["version"])
	assert.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}

func TestCalculate_POST(t *testing.T) {
	s := newTestServer(t, 100, 100)

	w := do(t, s, http.MethodPost, "/api/v1/calculate",
		`{"gender":"Female","age_bracket":"90+","mmse_result":"MMSE 0-24"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.480, resp.Prevalence)
	assert.Equal(t, 6.30, resp.LikelihoodRatio)
	assert.InDelta(t, 0.923077, resp.PreTestOdds, 1e-6)
	assert.InDelta(t, 0.8532, resp.Probability, 1e-4)
	assert.Equal(t, "48.00%", resp.Formatted.Prevalence)
	assert.Equal(t, "6.3", resp.Formatted.LikelihoodRatio)
	assert.Equal(t, "85.33%", resp.Formatted.Probability)
	assert.Equal(t, domain.Age90Plus, resp.Selection.AgeBracket)
}

func TestCalculate_GET(t *testing.T) {
	s := newTestServer(t, 100, 100)

	w := do(t, s, http.MethodGet, "/api/v1/calculate?gender=male&age_bracket=70-74&mmse_result=high", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp CalculateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0.037, resp.Prevalence)
	assert.Equal(t, 0.19, resp.LikelihoodRatio)
	assert.Equal(t, "0.72%", resp.Formatted.Probability)
	assert.Equal(t, service.FormatReport(resp.DementiaStats), resp.Report)
}

func TestCalculate_Errors(t *testing.T) {
	s := newTestServer(t, 100, 100)

	tests := []struct {
		name    string
		method  string
		target  string
		body    string
		status  int
		code    string
		message string
		details string
	}{
		{
			name:    "missing gender",
			method:  http.MethodPost,
			target:  "/api/v1/calculate",
			body:    `{"age_bracket":"60-64","mmse_result":"low"}`,
			status:  http.StatusUnprocessableEntity,
			code:    domain.ErrIncompleteSelection,
			message: "Please select a gender",
			details: domain.FieldGender,
		},
		{
			name:    "missing mmse via query",
			method:  http.MethodGet,
			target:  "/api/v1/calculate?gender=female&age_bracket=85-89",
			status:  http.StatusUnprocessableEntity,
			code:    domain.ErrIncompleteSelection,
			message: "Please select an MMSE result",
		},
		{
			name:    "unknown gender",
			method:  http.MethodPost,
			target:  "/api/v1/calculate",
			body:    `{"gender":"x","age_bracket":"60-64","mmse_result":"low"}`,
			status:  http.StatusBadRequest,
			code:    domain.ErrInvalidInput,
			details: domain.FieldGender,
		},
		{
			name:   "malformed body",
			method: http.MethodPost,
			target: "/api/v1/calculate",
			body:   `{"gender":`,
			status: http.StatusBadRequest,
			code:   domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, tt.method, tt.target, tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())

			var mcpErr domain.MCPError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mcpErr))
			assert.Equal(t, tt.code, mcpErr.Code)
			assert.Equal(t, w.Header().Get("X-Correlation-ID"), mcpErr.RequestID)
			if tt.message != "" {
				assert.Equal(t, tt.message, mcpErr.Message)
			}
			if tt.details != "" {
				assert.Equal(t, tt.details, mcpErr.Details)
			}
		})
	}
}

func TestReference(t *testing.T) {
	s := newTestServer(t, 100, 100)

	w := do(t, s, http.MethodGet, "/api/v1/reference", "")
	require.Equal(t, http.StatusOK, w.Code)

	var ref service.ReferenceTables
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ref))
	assert.Len(t, ref.Prevalence, 7)
	assert.Equal(t, 0.334, ref.Prevalence[6].Male)
	assert.Equal(t, []domain.MMSEResult{domain.MMSELow, domain.MMSEHigh}, ref.MMSEResults)
}

func TestPanicRecovery(t *testing.T) {
	s := newTestServer(t, 100, 100)
	s.router.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(t, s, http.MethodGet, "/boom", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var mcpErr domain.MCPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mcpErr))
	assert.Equal(t, domain.ErrInternalServer, mcpErr.Code)
	assert.Equal(t, w.Header().Get("X-Correlation-ID"), mcpErr.RequestID)
}

func TestRateLimitExceeded(t *testing.T) {
	s := newTestServer(t, 0.001, 1)

	first := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	var mcpErr domain.MCPError
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &mcpErr))
	assert.Equal(t, domain.ErrRateLimit, mcpErr.Code)
}

func TestStart_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, 100, 100)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
