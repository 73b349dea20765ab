package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip11"
)

// number of stored events replayed when a stream starts
const streamBacklog = 50

// relayHTTPURL maps the relay websocket address to its http address
func relayHTTPURL(wsURL string) string {
	switch {
	case strings.HasPrefix(wsURL, "wss://"):
		return "https://" + strings.TrimPrefix(wsURL, "wss://")
	case strings.HasPrefix(wsURL, "ws://"):
		return "http://" + strings.TrimPrefix(wsURL, "ws://")
	default:
		return wsURL
	}
}

// FetchRelayInformation requests the NIP-11 document of the relay
func (svc *RelayAdminService) FetchRelayInformation(ctx context.Context) (*nip11.RelayInformationDocument, error) {
	wsURL := svc.RelayWebsocketURL()
	if wsURL == "" {
		return nil, ErrNoRelayURL
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, relayHTTPURL(wsURL), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/nostr+json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay information request returned status %d", resp.StatusCode)
	}
	info := &nip11.RelayInformationDocument{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return nil, fmt.Errorf("decoding relay information: %w", err)
	}
	return info, nil
}

// StreamRelayEvents subscribes to all events of the relay and hands every
// event to send until ctx is done, the relay goes away or send fails.
func (svc *RelayAdminService) StreamRelayEvents(ctx context.Context, send func(*nostr.Event) error) error {
	wsURL := svc.RelayWebsocketURL()
	if wsURL == "" {
		return ErrNoRelayURL
	}
	relay, err := nostr.RelayConnect(ctx, wsURL)
	if err != nil {
		return fmt.Errorf("connecting to relay %s: %w", wsURL, err)
	}
	defer relay.Close()

	sub, err := relay.Subscribe(ctx, nostr.Filters{{Limit: streamBacklog}})
	if err != nil {
		return fmt.Errorf("subscribing to relay %s: %w", wsURL, err)
	}
	defer sub.Unsub()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-sub.Events:
			if !ok {
				return nil
			}
			if err := send(event); err != nil {
				return err
			}
		}
	}
}
