package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/nbd-wtf/go-nostr"
	"github.com/nbd-wtf/go-nostr/nip19"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	old := os.Stdout
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

// runCommand executes the CLI against the database configured in the environment
func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	jsonOutput = false
	var runErr error
	out := captureStdout(t, func() {
		rootCmd.SetArgs(args)
		runErr = rootCmd.Execute()
	})
	require.NoError(t, runErr, out)
	return out
}

func TestBanCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATABASE_URI", filepath.Join(dir, "nostr.db"))
	t.Setenv("RELAY_CONFIG_PATH", filepath.Join(dir, "config.toml"))
	t.Setenv("ADMIN_PUBKEY", "")
	t.Cleanup(func() {
		jsonOutput = false
		svc = nil
		dbConn = nil
	})

	pubkey, err := nostr.GetPublicKey(nostr.GeneratePrivateKey())
	require.NoError(t, err)
	npub, err := nip19.EncodePublicKey(pubkey)
	require.NoError(t, err)

	out := runCommand(t, "ban", "--json", "--actor", "cli:test", npub)
	banned := models.BannedPubkey{}
	require.NoError(t, json.Unmarshal([]byte(out), &banned))
	assert.Equal(t, pubkey, banned.Pubkey)

	out = runCommand(t, "banned", "--json")
	list := []models.BannedPubkey{}
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	require.Len(t, list, 1)
	assert.Equal(t, pubkey, list[0].Pubkey)

	out = runCommand(t, "unban", "--json", npub)
	unbanned := map[string]string{}
	require.NoError(t, json.Unmarshal([]byte(out), &unbanned))
	assert.Equal(t, pubkey, unbanned["unbanned"])

	out = runCommand(t, "actions", "--json")
	actions := []models.AdminAction{}
	require.NoError(t, json.Unmarshal([]byte(out), &actions))
	require.Len(t, actions, 2)
	for _, a := range actions {
		assert.Equal(t, pubkey, a.Target)
	}

	out = runCommand(t, "banned")
	assert.Contains(t, out, "0 banned pubkeys")
}
