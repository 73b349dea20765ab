package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/uptrace/bun"
)

func (svc *RelayAdminService) ListBanned(ctx context.Context) ([]models.BannedPubkey, error) {
	banned := []models.BannedPubkey{}
	err := svc.DB.NewSelect().Model(&banned).OrderExpr("banned_at DESC, id DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return banned, nil
}

func (svc *RelayAdminService) IsBanned(ctx context.Context, pubkey string) (bool, error) {
	return svc.DB.NewSelect().Model((*models.BannedPubkey)(nil)).Where("pubkey = ?", pubkey).Exists(ctx)
}

// BanPubkey adds the key to the ban list. The key may be hex or an npub,
// it is stored as lower case hex.
func (svc *RelayAdminService) BanPubkey(ctx context.Context, pubkey string, actor string) (*models.BannedPubkey, error) {
	pubkey, err := NormalizePubkey(pubkey)
	if err != nil {
		return nil, err
	}
	banned := &models.BannedPubkey{
		Pubkey:   pubkey,
		BannedAt: time.Now().UTC(),
	}
	var entry *models.AdminAction
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(banned).Exec(ctx); err != nil {
			return err
		}
		var err error
		entry, err = svc.insertAction(ctx, tx, common.ActionPubkeyBanned, pubkey, actor)
		return err
	})
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyBanned, pubkey)
		}
		return nil, err
	}
	svc.publishAction(entry)
	return banned, nil
}

// UnbanPubkey removes the key from the ban list, unknown keys are ignored
func (svc *RelayAdminService) UnbanPubkey(ctx context.Context, pubkey string, actor string) error {
	// stored keys are always lower case hex, anything else cannot match
	if normalized, err := NormalizePubkey(pubkey); err == nil {
		pubkey = normalized
	}
	var entry *models.AdminAction
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.BannedPubkey)(nil)).Where("pubkey = ?", pubkey).Exec(ctx); err != nil {
			return err
		}
		var err error
		entry, err = svc.insertAction(ctx, tx, common.ActionPubkeyUnbanned, pubkey, actor)
		return err
	})
	if err != nil {
		return err
	}
	svc.publishAction(entry)
	return nil
}
