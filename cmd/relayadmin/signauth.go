package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/cobra"
)

// signAuthEvent builds the login event the admin panel expects
func signAuthEvent(sk, challenge, relayURL string) (*nostr.Event, error) {
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return nil, err
	}
	event := &nostr.Event{
		PubKey:    pk,
		CreatedAt: nostr.Now(),
		Kind:      common.KindClientAuthentication,
		Tags:      nostr.Tags{{"challenge", challenge}},
		Content:   "",
	}
	if relayURL != "" {
		event.Tags = append(event.Tags, nostr.Tag{"relay", relayURL})
	}
	if err := event.Sign(sk); err != nil {
		return nil, err
	}
	return event, nil
}

var signAuthCmd = &cobra.Command{
	Use:   "sign-auth <challenge>",
	Short: "Sign a login challenge, for scripted access without a browser extension",
	Long: `Prints a signed kind 22242 event for the given challenge. POST it to
/api/auth/verify to obtain a session token. The secret key is read from
--key or the RELAYADMIN_NSEC environment variable.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{offlineAnnotation: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		if key == "" {
			key = os.Getenv("RELAYADMIN_NSEC")
		}
		if key == "" {
			return fmt.Errorf("no secret key, use --key or RELAYADMIN_NSEC")
		}
		sk, err := decodeSecretKey(key)
		if err != nil {
			return err
		}
		relayURL, _ := cmd.Flags().GetString("relay")
		event, err := signAuthEvent(sk, args[0], relayURL)
		if err != nil {
			return err
		}
		data, err := json.Marshal(event)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	signAuthCmd.Flags().String("key", "", "secret key (nsec or hex)")
	signAuthCmd.Flags().String("relay", "", "relay url put in the relay tag")
}
