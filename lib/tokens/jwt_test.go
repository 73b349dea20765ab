package tokens

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

const testPubkey = "7e7e9c42a91bfef19fa929e5fda1b72e0ebc1a4c1141673e2794234d86addf4e"

var testSecret = []byte("supersecret")

func TestSessionTokenRoundTrip(t *testing.T) {
	token, expiresAt, err := GenerateSessionToken(testSecret, time.Hour, testPubkey)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	pubkey, err := ParseSessionToken(testSecret, token)
	assert.NoError(t, err)
	assert.Equal(t, testPubkey, pubkey)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, _, err := GenerateSessionToken(testSecret, time.Hour, testPubkey)
	assert.NoError(t, err)

	_, err = ParseSessionToken([]byte("other"), token)
	assert.Error(t, err)
}

func TestExpiredSessionToken(t *testing.T) {
	token, _, err := GenerateSessionToken(testSecret, -time.Minute, testPubkey)
	assert.NoError(t, err)

	_, err = ParseSessionToken(testSecret, token)
	assert.Error(t, err)
}

func runMiddleware(t *testing.T, adminPubkey string, prepare func(req *http.Request)) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	prepare(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	called := false
	handler := Middleware(testSecret, adminPubkey)(func(c echo.Context) error {
		called = true
		assert.Equal(t, adminPubkey, c.Get(common.AdminPubkeyContextKey))
		return c.NoContent(http.StatusOK)
	})
	assert.NoError(t, handler(c))
	return rec, called
}

func TestMiddlewareAcceptsCookie(t *testing.T) {
	token, _, err := GenerateSessionToken(testSecret, time.Hour, testPubkey)
	assert.NoError(t, err)
	rec, called := runMiddleware(t, testPubkey, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: token})
	})
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareAcceptsBearer(t *testing.T) {
	token, _, err := GenerateSessionToken(testSecret, time.Hour, testPubkey)
	assert.NoError(t, err)
	rec, called := runMiddleware(t, testPubkey, func(req *http.Request) {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	})
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	rec, called := runMiddleware(t, testPubkey, func(req *http.Request) {})
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMiddlewareRejectsOtherPubkey(t *testing.T) {
	token, _, err := GenerateSessionToken(testSecret, time.Hour, "ff"+testPubkey[2:])
	assert.NoError(t, err)
	rec, called := runMiddleware(t, testPubkey, func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: token})
	})
	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
