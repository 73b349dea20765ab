package responses

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestBadAuthErrorsNotAllowedForSentry(t *testing.T) {
	badAuthErrResponse := echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"error":   true,
		"code":    1,
		"message": "bad auth",
	})

	isAllowed := isErrAllowedForSentry(badAuthErrResponse)
	assert.False(t, isAllowed)
}

func TestBadAuthErrorResponseNotAllowedForSentry(t *testing.T) {
	isAllowed := isErrAllowedForSentry(echo.NewHTTPError(http.StatusForbidden, NotAuthenticatedError))
	assert.False(t, isAllowed)
}

func TestNotBadAuthErrorsAllowedForSentry(t *testing.T) {
	notBadAuthErrResponse := echo.NewHTTPError(http.StatusBadRequest, echo.Map{
		"error":   true,
		"code":    2,
		"message": "not bad auth",
	})

	isAllowed := isErrAllowedForSentry(notBadAuthErrResponse)
	assert.True(t, isAllowed)
}

func TestNonErrorResponseErrorsAllowedForSentry(t *testing.T) {
	err := errors.New("random error")

	isAllowed := isErrAllowedForSentry(err)
	assert.True(t, isAllowed)
}

func TestHTTPErrorHandlerHidesInternalErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	HTTPErrorHandler(errors.New("database is locked"), c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := ErrorResponse{}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, GeneralServerError.Message, body.Message)
}

func TestWithMessageKeepsCode(t *testing.T) {
	err := ConfigUnavailableError.WithMessage("open /etc/relay/config.toml: no such file or directory")
	assert.Equal(t, ConfigUnavailableError.Code, err.Code)
	assert.Equal(t, ConfigUnavailableError.HttpStatusCode, err.HttpStatusCode)
	assert.NotEqual(t, ConfigUnavailableError.Message, err.Message)
}
