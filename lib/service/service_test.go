package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/lib/logging"
	"github.com/nbd-wtf/go-nostr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// newMockService creates a service on top of sqlmock, expectations are
// checked on cleanup.
func newMockService(t *testing.T, c *Config) (*RelayAdminService, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	if c.ChallengeExpiry == 0 {
		c.ChallengeExpiry = 300
	}
	if c.SessionDuration == 0 {
		c.SessionDuration = 3600
	}
	svc, err := NewRelayAdminService(c, db, logging.Logger(""))
	require.NoError(t, err)
	return svc, mock
}

func TestNewRelayAdminService(t *testing.T) {
	svc, _ := newMockService(t, &Config{})
	assert.False(t, svc.AuthRequired())
	// a random secret is generated when none is configured
	assert.Len(t, svc.Config.JWTSecret, 64)

	svc, _ = newMockService(t, &Config{AdminPubkey: testPubkey, JWTSecret: []byte("SECRET")})
	assert.True(t, svc.AuthRequired())
	assert.Equal(t, testPubkey, svc.AdminPubkey())
	assert.Equal(t, []byte("SECRET"), svc.Config.JWTSecret)

	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()
	_, err = NewRelayAdminService(&Config{AdminPubkey: "not-a-key"}, bun.NewDB(sqlDB, sqlitedialect.New()), logging.Logger(""))
	assert.True(t, errors.Is(err, ErrInvalidPubkey))
}

func TestFailedDeleteIsNotPublished(t *testing.T) {
	svc, mock := newMockService(t, &Config{})
	actions, unsubscribe, err := svc.SubscribeAdminActions()
	require.NoError(t, err)
	defer unsubscribe()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "event"`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err = svc.DeleteEvent(context.Background(), 42, "")
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	select {
	case action := <-actions:
		t.Fatalf("unexpected action %v", action)
	default:
	}
}

func TestBanInvalidPubkeyDoesNotQuery(t *testing.T) {
	svc, _ := newMockService(t, &Config{})
	_, err := svc.BanPubkey(context.Background(), "abc", "")
	assert.True(t, errors.Is(err, ErrInvalidPubkey))
	_, err = svc.PurgeEvents(context.Background(), "abc", "")
	assert.True(t, errors.Is(err, ErrInvalidPubkey))
}

func TestVerifyAuthEvent(t *testing.T) {
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)
	svc, _ := newMockService(t, &Config{AdminPubkey: pk, JWTSecret: []byte("SECRET")})

	sign := func(challenge string, createdAt time.Time) nostr.Event {
		event := nostr.Event{
			PubKey:    pk,
			CreatedAt: nostr.Timestamp(createdAt.Unix()),
			Kind:      common.KindClientAuthentication,
			Tags:      nostr.Tags{{"challenge", challenge}},
		}
		require.NoError(t, event.Sign(sk))
		return event
	}

	challenge, _, err := svc.IssueChallenge()
	require.NoError(t, err)
	token, expiresAt, err := svc.VerifyAuthEvent(sign(challenge, time.Now()))
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	// replay
	_, _, err = svc.VerifyAuthEvent(sign(challenge, time.Now()))
	assert.True(t, errors.Is(err, ErrBadAuth))

	// clock skew within the allowed window is fine
	challenge, _, err = svc.IssueChallenge()
	require.NoError(t, err)
	_, _, err = svc.VerifyAuthEvent(sign(challenge, time.Now().Add(5*time.Minute)))
	assert.NoError(t, err)

	challenge, _, err = svc.IssueChallenge()
	require.NoError(t, err)
	_, _, err = svc.VerifyAuthEvent(sign(challenge, time.Now().Add(-20*time.Minute)))
	assert.True(t, errors.Is(err, ErrBadAuth))
}

func TestRelayWebsocketURLPrefersConfig(t *testing.T) {
	svc, _ := newMockService(t, &Config{RelayWebsocketURL: "wss://configured.example.com", RelayConfigPath: "/nonexistent/config.toml"})
	assert.Equal(t, "wss://configured.example.com", svc.RelayWebsocketURL())

	svc.Config.RelayWebsocketURL = ""
	assert.Empty(t, svc.RelayWebsocketURL())

	_, err := svc.FetchRelayInformation(context.Background())
	assert.True(t, errors.Is(err, ErrNoRelayURL))
	err = svc.StreamRelayEvents(context.Background(), func(*nostr.Event) error { return nil })
	assert.True(t, errors.Is(err, ErrNoRelayURL))
}
