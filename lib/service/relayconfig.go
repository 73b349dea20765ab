package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/getAlby/relayadmin.go/common"
)

// RelayInfoSection is the [info] table of a nostr-rs-relay config.toml
type RelayInfoSection struct {
	RelayURL    string `toml:"relay_url" json:"relay_url"`
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description" json:"description"`
	Pubkey      string `toml:"pubkey" json:"pubkey"`
	Contact     string `toml:"contact" json:"contact"`
}

type relayConfigFile struct {
	Info RelayInfoSection `toml:"info"`
}

// RelayConfigInfo is an advisory reading of the config file, it never blocks saving
type RelayConfigInfo struct {
	Valid bool             `json:"valid"`
	Error string           `json:"error,omitempty"`
	Info  RelayInfoSection `json:"info"`
}

// ReadRelayConfig returns the config file text unchanged
func (svc *RelayAdminService) ReadRelayConfig() (string, error) {
	content, err := os.ReadFile(svc.Config.RelayConfigPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: config file not found at %s", ErrConfigUnavailable, svc.Config.RelayConfigPath)
		}
		return "", fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	return string(content), nil
}

// WriteRelayConfig overwrites the config file with content verbatim. The
// previous file, if any, is kept as <path>.bak.
func (svc *RelayAdminService) WriteRelayConfig(ctx context.Context, content string, actor string) error {
	path := svc.Config.RelayConfigPath
	mode := fs.FileMode(0644)
	previous, err := os.ReadFile(path)
	switch {
	case err == nil:
		if info, statErr := os.Stat(path); statErr == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(path+".bak", previous, mode); err != nil {
			return fmt.Errorf("%w: writing backup: %v", ErrConfigUnavailable, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}

	entry, err := svc.insertAction(ctx, svc.DB, common.ActionConfigSaved, path, actor)
	if err != nil {
		// the file is written, a missing audit entry must not fail the request
		svc.Logger.Errorf("Failed to record config change: %v", err)
		return nil
	}
	svc.publishAction(entry)
	return nil
}

// ParseRelayConfig decodes the [info] section of a relay config
func ParseRelayConfig(content string) RelayConfigInfo {
	parsed := relayConfigFile{}
	if _, err := toml.Decode(content, &parsed); err != nil {
		return RelayConfigInfo{Valid: false, Error: err.Error()}
	}
	return RelayConfigInfo{Valid: true, Info: parsed.Info}
}

func (svc *RelayAdminService) RelayConfigInfo() (*RelayConfigInfo, error) {
	content, err := svc.ReadRelayConfig()
	if err != nil {
		return nil, err
	}
	info := ParseRelayConfig(content)
	return &info, nil
}

// RelayWebsocketURL is the address the live stream connects to. The
// configured url wins over the relay_url of the relay config.
func (svc *RelayAdminService) RelayWebsocketURL() string {
	if svc.Config.RelayWebsocketURL != "" {
		return svc.Config.RelayWebsocketURL
	}
	info, err := svc.RelayConfigInfo()
	if err != nil || !info.Valid {
		return ""
	}
	return info.Info.RelayURL
}
