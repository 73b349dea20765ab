package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/getAlby/relayadmin.go/db/models"
)

func (svc *RelayAdminService) StartWebhookSubscription(ctx context.Context, url string) {
	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	actions := make(chan models.AdminAction, 64)
	subId, err := svc.ActionPubSub.Subscribe(actions)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer svc.ActionPubSub.Unsubscribe(subId)
	client := &http.Client{Timeout: 10 * time.Second}
	for {
		select {
		case <-ctx.Done():
			return
		case action := <-actions:
			svc.postToWebhook(ctx, client, url, action)
		}
	}
}

func (svc *RelayAdminService) postToWebhook(ctx context.Context, client *http.Client, url string, action models.AdminAction) {
	payload := new(bytes.Buffer)
	err := json.NewEncoder(payload).Encode(action)
	if err != nil {
		svc.Logger.Error(err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			svc.Logger.Error(err)
		}
		svc.Logger.Errorf("Webhook status code was %d, body: %s", resp.StatusCode, msg)
	}
}
