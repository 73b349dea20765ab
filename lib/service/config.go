package service

import (
	"fmt"
	"strings"
)

type Config struct {
	DatabaseUri             string  `envconfig:"DATABASE_URI" required:"true"`
	DatabaseMaxConns        int     `envconfig:"DATABASE_MAX_CONNS" default:"4"`
	DatabaseMaxIdleConns    int     `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"2"`
	DatabaseConnMaxLifetime int     `envconfig:"DATABASE_CONN_MAX_LIFETIME" default:"1800"` // 30 minutes
	RelayConfigPath         string  `envconfig:"RELAY_CONFIG_PATH" required:"true"`
	RelayWebsocketURL       string  `envconfig:"RELAY_WEBSOCKET_URL"`
	StreamProxy             bool    `envconfig:"STREAM_PROXY" default:"false"`
	AdminPubkey             string  `envconfig:"ADMIN_PUBKEY"`
	JWTSecret               []byte  `envconfig:"JWT_SECRET"`
	SessionDuration         int     `envconfig:"SESSION_DURATION" default:"28800"` // in seconds, default 8 hours
	ChallengeExpiry         int     `envconfig:"CHALLENGE_EXPIRY" default:"300"`   // in seconds
	StatsCacheTTL           int     `envconfig:"STATS_CACHE_TTL" default:"10"`     // in seconds, 0 disables the cache
	SentryDSN               string  `envconfig:"SENTRY_DSN"`
	SentryTracesSampleRate  float64 `envconfig:"SENTRY_TRACES_SAMPLE_RATE"`
	DatadogAgentUrl         string  `envconfig:"DATADOG_AGENT_URL"`
	LogFilePath             string  `envconfig:"LOG_FILE_PATH"`
	Host                    string  `envconfig:"HOST" default:"localhost:3000"`
	Port                    int     `envconfig:"PORT" default:"3000"`
	DefaultRateLimit        int     `envconfig:"DEFAULT_RATE_LIMIT" default:"20"`
	StrictRateLimit         int     `envconfig:"STRICT_RATE_LIMIT" default:"1"`
	BurstRateLimit          int     `envconfig:"BURST_RATE_LIMIT" default:"5"`
	EnablePrometheus        bool    `envconfig:"ENABLE_PROMETHEUS" default:"false"`
	PrometheusPort          int     `envconfig:"PROMETHEUS_PORT" default:"9092"`
	WebhookUrl              string  `envconfig:"WEBHOOK_URL"`
	RabbitMQUri             string  `envconfig:"RABBITMQ_URI"`
	RabbitMQAdminExchange   string  `envconfig:"RABBITMQ_ADMIN_EXCHANGE" default:"relayadmin_actions"`
	Branding                BrandingConfig
}

type BrandingConfig struct {
	Title  string        `envconfig:"BRANDING_TITLE" default:"Nostr Relay Admin"`
	Footer FooterLinkMap `envconfig:"BRANDING_FOOTER" default:"nostr-rs-relay=https://git.sr.ht/~gheartsfield/nostr-rs-relay"`
	Lang   string        `envconfig:"BRANDING_LANG" default:"de"`
}

// envconfig map decoder uses colon (:) as the default separator
// we have to override the decoder so we can use colon for the protocol prefix (e.g. "https:")

type FooterLinkMap map[string]string

func (flm *FooterLinkMap) Decode(value string) error {
	m := map[string]string{}
	for _, pair := range strings.Split(value, ";") {
		kvpair := strings.Split(pair, "=")
		if len(kvpair) != 2 {
			return fmt.Errorf("invalid map item: %q", pair)
		}
		m[kvpair[0]] = kvpair[1]
	}
	*flm = m
	return nil
}

// DatabaseDSN turns DATABASE_URI into a SQLite DSN. A plain file path,
// a file: URI and sqlite://<path> are accepted.
func (c *Config) DatabaseDSN() (string, error) {
	uri := c.DatabaseUri
	switch {
	case uri == "":
		return "", fmt.Errorf("Invalid database connection string, a path to the relay's SQLite file is required")
	case strings.HasPrefix(uri, "file:"):
		return uri, nil
	case strings.HasPrefix(uri, "sqlite://"):
		return "file:" + strings.TrimPrefix(uri, "sqlite://"), nil
	case strings.Contains(uri, "://"):
		return "", fmt.Errorf("Invalid database connection string %s, only SQLite files (path, file: or sqlite://) are supported", uri)
	default:
		return "file:" + uri, nil
	}
}

// DatabaseFilePath is the SQLite file on disk, without URI parameters
func (c *Config) DatabaseFilePath() string {
	dsn, err := c.DatabaseDSN()
	if err != nil {
		return ""
	}
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.Index(path, "?"); i >= 0 {
		path = path[:i]
	}
	return path
}
