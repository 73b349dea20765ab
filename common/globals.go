package common

const (
	ActionEventDeleted   = "event.deleted"
	ActionEventsPurged   = "events.purged"
	ActionPubkeyBanned   = "pubkey.banned"
	ActionPubkeyUnbanned = "pubkey.unbanned"
	ActionConfigSaved    = "config.saved"

	KindEncryptedDirectMessage = 4
	KindClientAuthentication   = 22242 // NIP-42

	SessionCookieName = "relayadmin_session"
	// echo context key holding the authenticated admin pubkey
	AdminPubkeyContextKey = "AdminPubkey"

	DefaultEventsLimit = 100
	MaxEventsLimit     = 1000
)
