package handlers

import (
	"net/http"
	"strconv"

	"myregistry/domain"
	"myregistry/helpers"
	"myregistry/interfaces"
	"myregistry/service"

	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
)

// ServicesResponse lists live services.
type ServicesResponse struct {
	Services []domain.Service `json:"services"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// AdminServer serves the read-only admin API over the live service directory.
type AdminServer struct {
	directory interfaces.ServiceDirectory
	logger    log.Logger
}

// NewAdminServer creates a new AdminServer.
func NewAdminServer(directory interfaces.ServiceDirectory, logger log.Logger) *AdminServer {
	logger = log.WithPrefix(helpers.NilPanic(logger, "handlers.http.go: logger is required"), "component", "AdminServer")
	return &AdminServer{
		directory: helpers.NilPanic(directory, "handlers.http.go: directory is required"),
		logger:    logger,
	}
}

// RegisterAdminHandlers mounts the admin routes on e. metrics may be nil, then /metrics is not served.
func RegisterAdminHandlers(e *echo.Echo, server *AdminServer, metrics http.Handler) {
	e.GET("/v1/services", server.GetServices)
	e.GET("/v1/services/:service_id", server.GetService)
	e.GET("/healthz", server.Health)
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// GetServices (GET /v1/services) returns every live service.
func (h *AdminServer) GetServices(ectx echo.Context) error {
	services := h.directory.Services()
	if services == nil {
		services = []domain.Service{}
	}
	return ectx.JSON(http.StatusOK, ServicesResponse{Services: services})
}

// GetService (GET /v1/services/{service_id}) returns the live instances of one service.
// Returns 400 for a malformed id and 404 when no instance is live.
func (h *AdminServer) GetService(ectx echo.Context) error {
	raw := ectx.Param("service_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return service.NewBadParameterError("service_id must be an unsigned integer", err)
	}

	services := h.directory.Lookup(domain.ServiceID(id))
	if len(services) == 0 {
		return service.NewEntityNotFoundError("service "+raw+" has no live instances", nil)
	}
	return ectx.JSON(http.StatusOK, ServicesResponse{Services: services})
}

// Health (GET /healthz) reports that the admin API is up.
func (h *AdminServer) Health(ectx echo.Context) error {
	return ectx.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}
