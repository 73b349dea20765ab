package service

import (
	"errors"
	"time"

	"github.com/getAlby/relayadmin.go/lib/security"
	"github.com/labstack/gommon/random"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

const alphaNumBytes = random.Alphanumeric

var (
	ErrInvalidPubkey     = errors.New("invalid pubkey")
	ErrAlreadyBanned     = errors.New("pubkey is already banned")
	ErrInvalidLimit      = errors.New("invalid limit")
	ErrConfigUnavailable = errors.New("relay config unavailable")
	ErrNoRelayURL        = errors.New("no relay websocket url configured")
	ErrBadAuth           = errors.New("bad auth")
)

type RelayAdminService struct {
	Config       *Config
	DB           *bun.DB
	Logger       *lecho.Logger
	Challenges   *security.ChallengeStore
	ActionPubSub *Pubsub

	adminPubkey string
}

// NewRelayAdminService normalizes the configured admin key and sets up the
// in-memory state shared by all requests.
func NewRelayAdminService(c *Config, db *bun.DB, logger *lecho.Logger) (*RelayAdminService, error) {
	svc := &RelayAdminService{
		Config:       c,
		DB:           db,
		Logger:       logger,
		Challenges:   security.NewChallengeStore(time.Duration(c.ChallengeExpiry) * time.Second),
		ActionPubSub: NewPubsub(),
	}
	if c.AdminPubkey != "" {
		pubkey, err := NormalizePubkey(c.AdminPubkey)
		if err != nil {
			return nil, err
		}
		svc.adminPubkey = pubkey
	}
	if len(c.JWTSecret) == 0 {
		secret, err := security.RandBytesFromStr(64, alphaNumBytes)
		if err != nil {
			return nil, err
		}
		c.JWTSecret = secret
		if svc.AuthRequired() {
			logger.Warn("JWT_SECRET is not set, sessions will not survive a restart")
		}
	}
	if !svc.AuthRequired() {
		logger.Warn("ADMIN_PUBKEY is not set, the admin panel is open to everyone who can reach it. Protect it with a firewall!")
	}
	return svc, nil
}

// AdminPubkey is the hex key allowed to log in, empty when auth is disabled
func (svc *RelayAdminService) AdminPubkey() string {
	return svc.adminPubkey
}

func (svc *RelayAdminService) AuthRequired() bool {
	return svc.adminPubkey != ""
}
