package service

import (
	"context"
	"time"

	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/uptrace/bun"
)

func (svc *RelayAdminService) insertAction(ctx context.Context, db bun.IDB, action, target, actor string) (*models.AdminAction, error) {
	entry := &models.AdminAction{
		Action:    action,
		Target:    target,
		Actor:     actor,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return nil, err
	}
	return entry, nil
}

// publishAction is called once the action is committed
func (svc *RelayAdminService) publishAction(entry *models.AdminAction) {
	if entry == nil {
		return
	}
	svc.ActionPubSub.Publish(*entry)
}

func (svc *RelayAdminService) ListAdminActions(ctx context.Context, limit int) ([]models.AdminAction, error) {
	actions := []models.AdminAction{}
	err := svc.DB.NewSelect().
		Model(&actions).
		OrderExpr("created_at DESC, id DESC").
		Limit(limit).
		Scan(ctx)
	return actions, err
}

// SubscribeAdminActions is used by the rabbitmq publisher
func (svc *RelayAdminService) SubscribeAdminActions() (chan models.AdminAction, func(), error) {
	actions := make(chan models.AdminAction, 64)
	subId, err := svc.ActionPubSub.Subscribe(actions)
	if err != nil {
		return nil, nil, err
	}
	return actions, func() { svc.ActionPubSub.Unsubscribe(subId) }, nil
}
