package middleware_test

import (
	"bytes"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/mongo-viewer/internal/api/dto"
	"github.com/unifiedui/mongo-viewer/internal/api/middleware"
	domainerrors "github.com/unifiedui/mongo-viewer/internal/domain/errors"
	"github.com/unifiedui/mongo-viewer/internal/testutil"
)

func TestRequestLogger_AssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	mw := middleware.NewLoggingMiddlewareWithLogger(zerolog.New(&buf))

	router := testutil.SetupTestRouter()
	router.Use(mw.RequestLogger(), mw.Logger())
	router.GET("/ping", func(c *gin.Context) {
		logger := middleware.GetRequestLogger(c)
		logger.Info().Msg("inside handler")
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	w := testutil.PerformRequest(router, http.MethodGet, "/ping", nil, nil)

	testutil.AssertStatusCode(t, http.StatusOK, w)
	id := w.Header().Get(middleware.RequestIDHeader)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())
	assert.Contains(t, buf.String(), `"request_id":"`+id+`"`)
	assert.Contains(t, buf.String(), "request completed")
}

func TestRequestLogger_KeepsIncomingRequestID(t *testing.T) {
	mw := middleware.NewLoggingMiddlewareWithLogger(zerolog.Nop())

	router := testutil.SetupTestRouter()
	router.Use(mw.RequestLogger())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := testutil.PerformRequest(router, http.MethodGet, "/ping", nil, map[string]string{
		middleware.RequestIDHeader: "abc-123",
	})

	assert.Equal(t, "abc-123", w.Header().Get(middleware.RequestIDHeader))
}

func TestLogger_QuietPaths(t *testing.T) {
	var buf bytes.Buffer
	mw := middleware.NewLoggingMiddlewareWithLogger(zerolog.New(&buf)).Quiet("/live")

	router := testutil.SetupTestRouter()
	router.Use(mw.RequestLogger(), mw.Logger())
	router.GET("/live", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	testutil.PerformRequest(router, http.MethodGet, "/live", nil, nil)
	assert.Contains(t, buf.String(), `"level":"debug"`)

	buf.Reset()
	testutil.PerformRequest(router, http.MethodGet, "/fail", nil, nil)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"route":"/fail"`)
}

func TestRecovery(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.Use(middleware.NewErrorMiddleware().Recovery())
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := testutil.PerformRequest(router, http.MethodGet, "/boom", nil, nil)

	testutil.AssertStatusCode(t, http.StatusInternalServerError, w)
	var body dto.ErrorResponse
	testutil.ParseJSONResponse(t, w, &body)
	assert.Equal(t, "Internal server error", body.Error)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		wantCode   string
	}{
		{"not connected", domainerrors.NewNotConnectedError(), http.StatusBadRequest, "Not connected to MongoDB", domainerrors.ErrCodeNotConnected},
		{"validation", domainerrors.NewValidationError("Connection string is required", ""), http.StatusBadRequest, "Connection string is required", domainerrors.ErrCodeValidation},
		{"wrapped domain error", fmt.Errorf("outer: %w", domainerrors.NewInternalError("ns not found", nil)), http.StatusInternalServerError, "ns not found", domainerrors.ErrCodeInternal},
		{"plain error", fmt.Errorf("socket closed"), http.StatusInternalServerError, "socket closed", domainerrors.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := testutil.SetupTestRouter()
			router.GET("/", func(c *gin.Context) {
				middleware.HandleError(c, tt.err)
			})

			w := testutil.PerformRequest(router, http.MethodGet, "/", nil, nil)

			testutil.AssertStatusCode(t, tt.wantStatus, w)
			var body map[string]interface{}
			testutil.ParseJSONResponse(t, w, &body)
			assert.Equal(t, tt.wantError, body["error"])
			assert.Equal(t, tt.wantCode, body["code"])
			assert.NotContains(t, body, "success")
		})
	}
}

func TestHandleFailure_SetsSuccessFalse(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.POST("/", func(c *gin.Context) {
		middleware.HandleFailure(c, domainerrors.NewInternalError("Failed to connect: refused", nil))
	})

	w := testutil.PerformRequest(router, http.MethodPost, "/", nil, nil)

	testutil.AssertStatusCode(t, http.StatusInternalServerError, w)
	var body map[string]interface{}
	testutil.ParseJSONResponse(t, w, &body)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to connect: refused", body["error"])
}

func TestNotFound(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.NoRoute(middleware.NotFound())

	w := testutil.PerformRequest(router, http.MethodGet, "/nope", nil, nil)

	testutil.AssertStatusCode(t, http.StatusNotFound, w)
	var body dto.ErrorResponse
	testutil.ParseJSONResponse(t, w, &body)
	assert.Equal(t, "resource not found", body.Error)
	assert.Equal(t, domainerrors.ErrCodeNotFound, body.Code)
}

func TestCORS_Wildcard(t *testing.T) {
	router := testutil.SetupTestRouter()
	router.Use(middleware.NewCORSMiddleware(middleware.DefaultCORSConfig()))
	router.GET("/api/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := testutil.PerformRequest(router, http.MethodGet, "/api/health", nil, map[string]string{
		"Origin": "http://localhost:5173",
	})

	testutil.AssertStatusCode(t, http.StatusOK, w)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	cfg := middleware.DefaultCORSConfig()
	router := testutil.SetupTestRouter()
	middleware.SetupCORSRoutes(router, cfg)

	w := testutil.PerformRequest(router, http.MethodOptions, "/api/connect", nil, map[string]string{
		"Origin": "http://example.com",
	})

	testutil.AssertStatusCode(t, http.StatusNoContent, w)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORS_AllowList(t *testing.T) {
	cfg := middleware.DefaultCORSConfig()
	cfg.AllowOrigins = []string{"http://localhost:5173"}

	router := testutil.SetupTestRouter()
	router.Use(middleware.NewCORSMiddleware(cfg))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	allowed := testutil.PerformRequest(router, http.MethodGet, "/", nil, map[string]string{
		"Origin": "http://localhost:5173",
	})
	require.Equal(t, http.StatusOK, allowed.Code)
	assert.Equal(t, "http://localhost:5173", allowed.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", allowed.Header().Get("Vary"))

	denied := testutil.PerformRequest(router, http.MethodGet, "/", nil, map[string]string{
		"Origin": "http://evil.example",
	})
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}
