package service

import (
	"fmt"
	"time"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/lib/tokens"
	"github.com/nbd-wtf/go-nostr"
)

// maximum distance between the auth event's created_at and the server clock
const authEventMaxAge = 10 * time.Minute

func (svc *RelayAdminService) IssueChallenge() (string, time.Time, error) {
	return svc.Challenges.Issue()
}

// VerifyAuthEvent checks a signed challenge event and issues a session token.
// The event must be a kind 22242 event of the admin key carrying a
// ["challenge", <challenge>] tag with a challenge issued by this server.
func (svc *RelayAdminService) VerifyAuthEvent(event nostr.Event) (string, time.Time, error) {
	if !svc.AuthRequired() {
		return "", time.Time{}, fmt.Errorf("%w: authentication is disabled", ErrBadAuth)
	}
	if event.Kind != common.KindClientAuthentication {
		return "", time.Time{}, fmt.Errorf("%w: unexpected event kind %d", ErrBadAuth, event.Kind)
	}
	if event.PubKey != svc.adminPubkey {
		return "", time.Time{}, fmt.Errorf("%w: pubkey is not the admin pubkey", ErrBadAuth)
	}
	if event.ID != event.GetID() {
		return "", time.Time{}, fmt.Errorf("%w: event id does not match its content", ErrBadAuth)
	}
	if ok, err := event.CheckSignature(); err != nil || !ok {
		return "", time.Time{}, fmt.Errorf("%w: invalid signature", ErrBadAuth)
	}
	age := time.Since(event.CreatedAt.Time())
	if age > authEventMaxAge || age < -authEventMaxAge {
		return "", time.Time{}, fmt.Errorf("%w: event created_at is too far from now", ErrBadAuth)
	}
	tag := event.Tags.GetFirst([]string{"challenge", ""})
	if tag == nil || len(*tag) < 2 {
		return "", time.Time{}, fmt.Errorf("%w: missing challenge tag", ErrBadAuth)
	}
	if err := svc.Challenges.Consume(tag.Value()); err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %v", ErrBadAuth, err)
	}
	return tokens.GenerateSessionToken(svc.Config.JWTSecret, time.Duration(svc.Config.SessionDuration)*time.Second, event.PubKey)
}
