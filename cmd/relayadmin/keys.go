package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/spf13/cobra"
)

type keyPair struct {
	SecretKey string `json:"sk"`
	PublicKey string `json:"pk"`
	Nsec      string `json:"nsec"`
	Npub      string `json:"npub"`
}

// decodeSecretKey accepts an nsec or a 64 character hex key
func decodeSecretKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if strings.HasPrefix(key, "nsec1") {
		prefix, value, err := nip19.Decode(key)
		if err != nil || prefix != "nsec" {
			return "", fmt.Errorf("invalid nsec")
		}
		return value.(string), nil
	}
	if _, err := hex.DecodeString(key); err != nil || len(key) != 64 {
		return "", fmt.Errorf("secret key must be an nsec or 64 hex characters")
	}
	return strings.ToLower(key), nil
}

func newKeyPair(sk string) (*keyPair, error) {
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return nil, err
	}
	nsec, err := nip19.EncodePrivateKey(sk)
	if err != nil {
		return nil, err
	}
	npub, err := nip19.EncodePublicKey(pk)
	if err != nil {
		return nil, err
	}
	return &keyPair{SecretKey: sk, PublicKey: pk, Nsec: nsec, Npub: npub}, nil
}

var keysCmd = &cobra.Command{
	Use:   "keys [nsec|hex]",
	Short: "Generate a nostr key pair, or show the public key of a secret key",
	Long: `Without arguments a new key pair is generated. The public key can be used
as ADMIN_PUBKEY.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{offlineAnnotation: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		sk := nostr.GeneratePrivateKey()
		if len(args) == 1 {
			var err error
			if sk, err = decodeSecretKey(args[0]); err != nil {
				return err
			}
		}
		keys, err := newKeyPair(sk)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(keys)
			return nil
		}
		fmt.Println("sk:  ", keys.SecretKey)
		fmt.Println("pk:  ", keys.PublicKey)
		fmt.Println("nsec:", keys.Nsec)
		fmt.Println("npub:", keys.Npub)
		return nil
	},
}
