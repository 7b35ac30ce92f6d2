package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces/mock"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminEcho(directory *mock.ServiceDirectoryMock, metrics http.Handler) *echo.Echo {
	e := echo.New()
	RegisterAdminHandlers(e, NewAdminServer(directory, log.NewNopLogger()), metrics)
	service.RegisterErrorHandler(e, log.NewNopLogger())
	return e
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

var liveService = domain.Service{
	ID:            100,
	Meta:          "echo",
	Host:          net.IPv4(127, 0, 0, 1),
	ServicePort:   21000,
	HeartbeatPort: 25000,
	RegisteredAt:  helpers.TestNow(),
}

func TestAdminServer_GetServices(t *testing.T) {
	tests := []struct {
		name      string
		services  []domain.Service
		wantCount int
	}{
		{name: "empty", services: nil, wantCount: 0},
		{name: "one", services: []domain.Service{liveService}, wantCount: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAdminEcho(&mock.ServiceDirectoryMock{
				ServicesFunc: func() []domain.Service { return tt.services },
			}, nil)

			rec := serve(e, http.MethodGet, "/v1/services")
			require.Equal(t, http.StatusOK, rec.Code)

			var body map[string][]map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.Contains(t, body, "services")
			require.Len(t, body["services"], tt.wantCount)
			if tt.wantCount > 0 {
				got := body["services"][0]
				assert.Equal(t, float64(100), got["service_id"])
				assert.Equal(t, "127.0.0.1", got["host"])
				assert.Equal(t, float64(21000), got["service_port"])
				assert.Equal(t, float64(25000), got["heartbeat_port"])
				assert.Equal(t, "2026-02-11T12:00:00Z", got["registered_at"])
			}
		})
	}
}

func TestAdminServer_GetService(t *testing.T) {
	directory := &mock.ServiceDirectoryMock{
		LookupFunc: func(serviceID domain.ServiceID) []domain.Service {
			if serviceID == 100 {
				return []domain.Service{liveService}
			}
			return nil
		},
	}
	e := newAdminEcho(directory, nil)

	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedCode   string
	}{
		{name: "found", target: "/v1/services/100", expectedStatus: http.StatusOK},
		{name: "no instances", target: "/v1/services/7", expectedStatus: http.StatusNotFound, expectedCode: service.ErrEntityNotFound},
		{name: "malformed id", target: "/v1/services/abc", expectedStatus: http.StatusBadRequest, expectedCode: service.ErrBadParameter},
		{name: "negative id", target: "/v1/services/-1", expectedStatus: http.StatusBadRequest, expectedCode: service.ErrBadParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, http.MethodGet, tt.target)
			require.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode == "" {
				var body ServicesResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Len(t, body.Services, 1)
				assert.Equal(t, uint16(21000), body.Services[0].ServicePort)
				return
			}
			var errBody service.ErrResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
			require.NotNil(t, errBody.Error)
			assert.Equal(t, tt.expectedCode, errBody.Error.Code)
		})
	}
}

func TestAdminServer_HealthAndMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("heartbeat_targets_current 0\n"))
	})
	e := newAdminEcho(&mock.ServiceDirectoryMock{}, metrics)

	rec := serve(e, http.MethodGet, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = serve(e, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "heartbeat_targets_current")

	rec = serve(e, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminServer_NoMetricsRoute(t *testing.T) {
	e := newAdminEcho(&mock.ServiceDirectoryMock{}, nil)
	rec := serve(e, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
