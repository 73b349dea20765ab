package integration_tests

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/controllers"
	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/labstack/echo/v4"
	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type AuthTestSuite struct {
	TestSuite
	service    *service.RelayAdminService
	adminSk    string
	adminPk    string
	strangerSk string
}

func (suite *AuthTestSuite) SetupSuite() {
	suite.adminSk = nostr.GeneratePrivateKey()
	adminPk, err := nostr.GetPublicKey(suite.adminSk)
	if err != nil {
		log.Fatalf("Error deriving admin key: %v", err)
	}
	suite.adminPk = adminPk
	suite.strangerSk = nostr.GeneratePrivateKey()

	svc, err := RelayAdminTestServiceInit(adminPk)
	if err != nil {
		log.Fatalf("Error initializing test service: %v", err)
	}
	suite.service = svc
	suite.echo = newTestEcho(svc)
}

func (suite *AuthTestSuite) TearDownTest() {
	suite.sessionToken = ""
	clearTable(suite.service, "banned_pubkeys")
	clearTable(suite.service, "admin_actions")
}

func (suite *AuthTestSuite) TearDownSuite() {
	removeTestFiles(suite.service)
}

func (suite *AuthTestSuite) getChallenge() string {
	rec := suite.doRequest(http.MethodGet, "/api/auth/challenge", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	challengeResponse := &controllers.ChallengeResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(challengeResponse))
	assert.NotEmpty(suite.T(), challengeResponse.Challenge)
	assert.Greater(suite.T(), challengeResponse.ExpiresAt, time.Now().Unix())
	return challengeResponse.Challenge
}

func (suite *AuthTestSuite) signedAuthEvent(sk, challenge string) *nostr.Event {
	pk, err := nostr.GetPublicKey(sk)
	assert.NoError(suite.T(), err)
	event := &nostr.Event{
		PubKey:    pk,
		CreatedAt: nostr.Now(),
		Kind:      common.KindClientAuthentication,
		Tags: nostr.Tags{
			{"relay", "wss://relay.example.com"},
			{"challenge", challenge},
		},
	}
	assert.NoError(suite.T(), event.Sign(sk))
	return event
}

func (suite *AuthTestSuite) login() {
	event := suite.signedAuthEvent(suite.adminSk, suite.getChallenge())
	rec := suite.doRequest(http.MethodPost, "/api/auth/verify", event)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	verifyResponse := &controllers.VerifyResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(verifyResponse))
	assert.Equal(suite.T(), "success", verifyResponse.Status)
	assert.NotEmpty(suite.T(), verifyResponse.Token)

	var sessionCookie *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == common.SessionCookieName {
			sessionCookie = cookie
		}
	}
	if assert.NotNil(suite.T(), sessionCookie) {
		assert.True(suite.T(), sessionCookie.HttpOnly)
		assert.Equal(suite.T(), verifyResponse.Token, sessionCookie.Value)
	}
	suite.sessionToken = verifyResponse.Token
}

func (suite *AuthTestSuite) verifyFails(event *nostr.Event) {
	rec := suite.doRequest(http.MethodPost, "/api/auth/verify", event)
	errorResponse := checkErrResponse(&suite.TestSuite, rec, http.StatusForbidden)
	assert.Equal(suite.T(), responses.BadAuthError.Code, errorResponse.Code)
}

func (suite *AuthTestSuite) TestApiRequiresSession() {
	for _, target := range []string{"/api/stats", "/api/events", "/api/banned", "/api/config", "/api/actions"} {
		rec := suite.doRequest(http.MethodGet, target, nil)
		errorResponse := checkErrResponse(&suite.TestSuite, rec, http.StatusForbidden)
		assert.Equal(suite.T(), responses.NotAuthenticatedError.Message, errorResponse.Message, target)
	}
	rec := suite.doRequest(http.MethodPost, "/api/banned", &controllers.BanRequestBody{Pubkey: randomHex(32)})
	checkErrResponse(&suite.TestSuite, rec, http.StatusForbidden)

	suite.sessionToken = "not-a-token"
	rec = suite.doRequest(http.MethodGet, "/api/banned", nil)
	checkErrResponse(&suite.TestSuite, rec, http.StatusForbidden)

	// the page itself and the health check stay public
	suite.sessionToken = ""
	rec = suite.doRequest(http.MethodGet, "/", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	rec = suite.doRequest(http.MethodGet, "/api/health", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *AuthTestSuite) TestLogin() {
	suite.login()

	rec := suite.doRequest(http.MethodGet, "/api/banned", nil)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	// the session pubkey is recorded as actor
	pubkey := randomHex(32)
	rec = suite.doRequest(http.MethodPost, "/api/banned", &controllers.BanRequestBody{Pubkey: pubkey})
	checkStatusResponse(&suite.TestSuite, rec)
	rec = suite.doRequest(http.MethodGet, "/api/actions", nil)
	actions := []models.AdminAction{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(&actions))
	if assert.Len(suite.T(), actions, 1) {
		assert.Equal(suite.T(), suite.adminPk, actions[0].Actor)
		assert.Equal(suite.T(), pubkey, actions[0].Target)
	}
}

func (suite *AuthTestSuite) TestBearerToken() {
	suite.login()
	token := suite.sessionToken
	suite.sessionToken = ""

	req := httptest.NewRequest(http.MethodGet, "/api/banned", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *AuthTestSuite) TestChallengeIsSingleUse() {
	challenge := suite.getChallenge()
	rec := suite.doRequest(http.MethodPost, "/api/auth/verify", suite.signedAuthEvent(suite.adminSk, challenge))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)

	suite.verifyFails(suite.signedAuthEvent(suite.adminSk, challenge))
}

func (suite *AuthTestSuite) TestVerifyRejects() {
	// unknown challenge
	suite.verifyFails(suite.signedAuthEvent(suite.adminSk, "made-up-challenge"))

	// signed by someone else
	suite.verifyFails(suite.signedAuthEvent(suite.strangerSk, suite.getChallenge()))

	// content changed after signing
	event := suite.signedAuthEvent(suite.adminSk, suite.getChallenge())
	event.Content = "tampered"
	suite.verifyFails(event)

	// signature of another event
	event = suite.signedAuthEvent(suite.adminSk, suite.getChallenge())
	other := suite.signedAuthEvent(suite.adminSk, suite.getChallenge())
	event.Sig = other.Sig
	suite.verifyFails(event)

	// wrong kind
	event = &nostr.Event{
		PubKey:    suite.adminPk,
		CreatedAt: nostr.Now(),
		Kind:      1,
		Tags:      nostr.Tags{{"challenge", suite.getChallenge()}},
	}
	assert.NoError(suite.T(), event.Sign(suite.adminSk))
	suite.verifyFails(event)

	// too old
	event = &nostr.Event{
		PubKey:    suite.adminPk,
		CreatedAt: nostr.Timestamp(time.Now().Add(-time.Hour).Unix()),
		Kind:      common.KindClientAuthentication,
		Tags:      nostr.Tags{{"challenge", suite.getChallenge()}},
	}
	assert.NoError(suite.T(), event.Sign(suite.adminSk))
	suite.verifyFails(event)

	// no challenge tag
	event = &nostr.Event{
		PubKey:    suite.adminPk,
		CreatedAt: nostr.Now(),
		Kind:      common.KindClientAuthentication,
	}
	assert.NoError(suite.T(), event.Sign(suite.adminSk))
	suite.verifyFails(event)

	rec := suite.doRequest(http.MethodPost, "/api/auth/verify", "not an event")
	assert.Equal(suite.T(), http.StatusBadRequest, rec.Code)
}

func (suite *AuthTestSuite) TestStatusAndLogout() {
	rec := suite.doRequest(http.MethodGet, "/api/auth/status", nil)
	status := &controllers.AuthStatusResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(status))
	assert.True(suite.T(), status.AuthRequired)
	assert.False(suite.T(), status.Authenticated)

	suite.login()
	rec = suite.doRequest(http.MethodGet, "/api/auth/status", nil)
	status = &controllers.AuthStatusResponseBody{}
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(status))
	assert.True(suite.T(), status.Authenticated)
	assert.Equal(suite.T(), suite.adminPk, status.Pubkey)

	rec = suite.doRequest(http.MethodPost, "/api/auth/logout", nil)
	checkStatusResponse(&suite.TestSuite, rec)
	cookies := rec.Result().Cookies()
	if assert.Len(suite.T(), cookies, 1) {
		assert.Equal(suite.T(), common.SessionCookieName, cookies[0].Name)
		assert.Empty(suite.T(), cookies[0].Value)
		assert.Less(suite.T(), cookies[0].MaxAge, 0)
	}
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthTestSuite))
}
