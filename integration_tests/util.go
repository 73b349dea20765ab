package integration_tests

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"time"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/db"
	"github.com/getAlby/relayadmin.go/db/migrations"
	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/getAlby/relayadmin.go/lib"
	"github.com/getAlby/relayadmin.go/lib/logging"
	"github.com/getAlby/relayadmin.go/lib/responses"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/getAlby/relayadmin.go/lib/transport"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// RelayAdminTestServiceInit creates a service on a fresh SQLite file that
// already holds the relay's event table. The relay config path points into
// the same temp dir but the file is not created.
func RelayAdminTestServiceInit(adminPubkey string) (svc *service.RelayAdminService, err error) {
	dir, err := os.MkdirTemp("", "relayadmin-test")
	if err != nil {
		return nil, err
	}
	c := &service.Config{
		DatabaseUri:             filepath.Join(dir, "nostr.db"),
		DatabaseMaxConns:        1,
		DatabaseMaxIdleConns:    1,
		DatabaseConnMaxLifetime: 10,
		RelayConfigPath:         filepath.Join(dir, "config.toml"),
		AdminPubkey:             adminPubkey,
		JWTSecret:               []byte("SECRET"),
		SessionDuration:         3600,
		ChallengeExpiry:         300,
		DefaultRateLimit:        1000,
		StrictRateLimit:         1000,
		BurstRateLimit:          1000,
		Branding: service.BrandingConfig{
			Title:  "Test Relay Admin",
			Footer: service.FooterLinkMap{"nostr-rs-relay": "https://git.sr.ht/~gheartsfield/nostr-rs-relay"},
			Lang:   "en",
		},
	}

	dbConn, err := db.Open(c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx := context.Background()
	// the relay creates this table, the admin panel never does
	_, err = dbConn.NewCreateTable().Model((*models.Event)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create event table: %w", err)
	}
	if err = migrations.Migrate(ctx, dbConn); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logger := logging.Logger(c.LogFilePath)
	return service.NewRelayAdminService(c, dbConn, logger)
}

// newTestEcho registers the same routes the server does
func newTestEcho(svc *service.RelayAdminService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = responses.HTTPErrorHandler
	e.Validator = &lib.CustomValidator{Validator: validator.New()}
	e.Logger = svc.Logger
	transport.RegisterAdminEndpoints(svc, e,
		transport.CreateRateLimitMiddleware(svc.Config.StrictRateLimit, svc.Config.BurstRateLimit),
		transport.CreateLoggingMiddleware(svc.Logger),
	)
	return e
}

func clearTable(svc *service.RelayAdminService, tableName string) error {
	_, err := svc.DB.Exec(fmt.Sprintf("DELETE FROM %s", tableName))
	return err
}

func removeTestFiles(svc *service.RelayAdminService) {
	svc.DB.Close()
	os.RemoveAll(filepath.Dir(svc.Config.DatabaseFilePath()))
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// insertEvent stores an event the way nostr-rs-relay does, with raw key bytes
func insertEvent(svc *service.RelayAdminService, pubkey string, kind int64, content string, createdAt time.Time) (*models.Event, error) {
	author, err := hex.DecodeString(pubkey)
	if err != nil {
		return nil, err
	}
	hash, err := hex.DecodeString(randomHex(32))
	if err != nil {
		return nil, err
	}
	event := &models.Event{
		EventHash: hash,
		FirstSeen: createdAt.Unix(),
		CreatedAt: createdAt.Unix(),
		Author:    author,
		Kind:      kind,
		Content:   content,
	}
	_, err = svc.DB.NewInsert().Model(event).Exec(context.Background())
	return event, err
}

type TestSuite struct {
	suite.Suite
	echo *echo.Echo
	// sent as cookie when set
	sessionToken string
}

func (suite *TestSuite) doRequest(method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		var buf bytes.Buffer
		assert.NoError(suite.T(), json.NewEncoder(&buf).Encode(body))
		reader = &buf
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if suite.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: suite.sessionToken})
	}
	rec := httptest.NewRecorder()
	suite.echo.ServeHTTP(rec, req)
	return rec
}

func checkErrResponse(suite *TestSuite, rec *httptest.ResponseRecorder, status int) *responses.ErrorResponse {
	errorResponse := &responses.ErrorResponse{}
	assert.Equal(suite.T(), status, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(errorResponse))
	assert.True(suite.T(), errorResponse.Error)
	return errorResponse
}

func checkStatusResponse(suite *TestSuite, rec *httptest.ResponseRecorder) *responses.StatusResponse {
	statusResponse := &responses.StatusResponse{}
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.NoError(suite.T(), json.NewDecoder(rec.Body).Decode(statusResponse))
	assert.Equal(suite.T(), "success", statusResponse.Status)
	return statusResponse
}
