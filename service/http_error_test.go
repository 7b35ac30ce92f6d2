package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/go-kit/log"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(method string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/services/7", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestNewErrorCodeToStatusCodeMaps(t *testing.T) {
	m := NewErrorCodeToStatusCodeMaps()
	assert.Equal(t, http.StatusBadRequest, m[ErrBadParameter])
	assert.Equal(t, http.StatusNotFound, m[ErrEntityNotFound])
	assert.Equal(t, http.StatusServiceUnavailable, m[ErrRegistryStopped])
	assert.Equal(t, http.StatusInternalServerError, m[ErrInternalServerError])
}

func TestHTTPErrorHandler_RegistryError(t *testing.T) {
	c, rec := newTestContext(http.MethodGet)
	handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger())

	handler.Handler(NewEntityNotFoundError("service 7 is not registered", nil), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrEntityNotFound, body.Error.Code)
	assert.Equal(t, "service 7 is not registered", body.Error.Message)
}

func TestHTTPErrorHandler_PlainError(t *testing.T) {
	c, rec := newTestContext(http.MethodGet)
	handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger())

	handler.Handler(assert.AnError, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body ErrResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrInternalServerError, body.Error.Code)
}

func TestHTTPErrorHandler_EchoHTTPError(t *testing.T) {
	c, rec := newTestContext(http.MethodGet)
	handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger())

	handler.Handler(echo.NewHTTPError(http.StatusNotFound, "route not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body ErrResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrEntityNotFound, body.Error.Code)
	assert.Equal(t, "route not found", body.Error.Message)
}

func TestHTTPErrorHandler_RequestError(t *testing.T) {
	c, rec := newTestContext(http.MethodGet)
	handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger())

	he := echo.NewHTTPError(http.StatusUnprocessableEntity, "validation failed")
	he.Internal = &openapi3filter.RequestError{Reason: "bad id"}
	handler.Handler(he, c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body ErrResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrBadParameter, body.Error.Code)
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	c, rec := newTestContext(http.MethodHead)
	handler := NewHTTPErrorHandler(NewErrorCodeToStatusCodeMaps(), log.NewNopLogger())

	handler.Handler(NewBadParameterError("bad", nil), c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestRegisterErrorHandler(t *testing.T) {
	e := echo.New()
	RegisterErrorHandler(e, log.NewNopLogger())
	assert.NotNil(t, e.HTTPErrorHandler)
}
