package responses

import (
	"net/http"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Status         string `json:"status"`
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

// WithMessage returns a copy of the error carrying a more specific message
func (e ErrorResponse) WithMessage(message string) ErrorResponse {
	e.Message = message
	return e
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Success(message string) StatusResponse {
	return StatusResponse{
		Status:  "success",
		Message: message,
	}
}

var GeneralServerError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 403,
}

var NotAuthenticatedError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           1,
	Message:        "Authentication required.",
	HttpStatusCode: 403,
}

var InvalidPubkeyError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           2,
	Message:        "Invalid pubkey.",
	HttpStatusCode: 400,
}

var AlreadyBannedError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           9,
	Message:        "Pubkey is already banned.",
	HttpStatusCode: 400,
}

var InvalidEventIdError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           2,
	Message:        "Invalid event id.",
	HttpStatusCode: 400,
}

var InvalidLimitError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           2,
	Message:        "Invalid limit.",
	HttpStatusCode: 400,
}

var ConfigUnavailableError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           10,
	Message:        "Relay configuration file is not available.",
	HttpStatusCode: 500,
}

var RelayUnavailableError = ErrorResponse{
	Status:         "error",
	Error:          true,
	Code:           11,
	Message:        "Relay could not be reached.",
	HttpStatusCode: 500,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("AdminPubkey", c.Get(common.AdminPubkeyContextKey))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}

// auth failures are expected noise and are not sent to sentry
func isErrAllowedForSentry(err error) bool {
	he, ok := err.(*echo.HTTPError)
	if !ok {
		return true
	}
	switch msg := he.Message.(type) {
	case echo.Map:
		if code, ok := msg["code"]; ok && code == BadAuthError.Code {
			return false
		}
	case ErrorResponse:
		if msg.Code == BadAuthError.Code {
			return false
		}
	}
	return true
}
