package service

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nbd-wtf/go-nostr/nip19"
)

// NormalizePubkey accepts a 64 character hex key or an npub and returns the
// lower case hex form.
func NormalizePubkey(pubkey string) (string, error) {
	pubkey = strings.TrimSpace(pubkey)
	if strings.HasPrefix(pubkey, "npub1") {
		prefix, value, err := nip19.Decode(pubkey)
		if err != nil || prefix != "npub" {
			return "", fmt.Errorf("%w: %s", ErrInvalidPubkey, pubkey)
		}
		hexKey, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrInvalidPubkey, pubkey)
		}
		pubkey = hexKey
	}
	if len(pubkey) != 64 {
		return "", fmt.Errorf("%w: %s", ErrInvalidPubkey, pubkey)
	}
	if _, err := hex.DecodeString(pubkey); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidPubkey, pubkey)
	}
	return strings.ToLower(pubkey), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// escapeLike makes % and _ match literally in a LIKE ... ESCAPE '\' pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ShortPubkey is used in user facing messages
func ShortPubkey(pubkey string) string {
	if len(pubkey) <= 8 {
		return pubkey
	}
	return pubkey[:8] + "..."
}

// FormatDBSize renders a file size the way the dashboard shows it
func FormatDBSize(size int64) string {
	switch {
	case size < 0:
		return "N/A"
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%s KB", formatFloat(float64(size)/1024))
	case size < 1024*1024*1024:
		return fmt.Sprintf("%s MB", formatFloat(float64(size)/(1024*1024)))
	default:
		return fmt.Sprintf("%s GB", formatFloat(float64(size)/(1024*1024*1024)))
	}
}

// rounded to two decimals, trailing zeros dropped but one decimal always kept
func formatFloat(f float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.2f", f), "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}
