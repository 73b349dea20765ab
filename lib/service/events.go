package service

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/uptrace/bun"
)

// ParseEventsLimit validates the limit query parameter of the event list
func ParseEventsLimit(value string) (int, error) {
	if value == "" {
		return common.DefaultEventsLimit, nil
	}
	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLimit, value)
	}
	if limit > common.MaxEventsLimit {
		limit = common.MaxEventsLimit
	}
	return limit, nil
}

// ListEvents returns the newest events, optionally filtered by a substring of
// the hex pubkey, the hex event id or the content.
func (svc *RelayAdminService) ListEvents(ctx context.Context, query string, limit int) ([]models.EventRow, error) {
	events := []models.EventRow{}
	q := svc.DB.NewSelect().
		TableExpr("event").
		ColumnExpr(models.EventRowColumns)
	if query != "" {
		pattern := "%" + escapeLike(query) + "%"
		// keys are stored as blobs, compare against their lower case hex form
		hexPattern := "%" + escapeLike(strings.ToLower(query)) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(`lower(hex(author)) LIKE ? ESCAPE '\'`, hexPattern).
				WhereOr(`lower(hex(event_hash)) LIKE ? ESCAPE '\'`, hexPattern).
				WhereOr(`content LIKE ? ESCAPE '\'`, pattern)
		})
	}
	err := q.OrderExpr("created_at DESC").Limit(limit).Scan(ctx, &events)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteEvent removes one event by its row id. Deleting a row that does not
// exist is not an error.
func (svc *RelayAdminService) DeleteEvent(ctx context.Context, id int64, actor string) error {
	var entry *models.AdminAction
	err := svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*models.Event)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return err
		}
		var err error
		entry, err = svc.insertAction(ctx, tx, common.ActionEventDeleted, strconv.FormatInt(id, 10), actor)
		return err
	})
	if err != nil {
		return err
	}
	svc.publishAction(entry)
	return nil
}

// PurgeEvents deletes every event of an author and returns the number of rows removed
func (svc *RelayAdminService) PurgeEvents(ctx context.Context, pubkey string, actor string) (int64, error) {
	pubkey, err := NormalizePubkey(pubkey)
	if err != nil {
		return 0, err
	}
	author, err := hex.DecodeString(pubkey)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidPubkey, pubkey)
	}
	var deleted int64
	var entry *models.AdminAction
	err = svc.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*models.Event)(nil)).Where("author = ?", author).Exec(ctx)
		if err != nil {
			return err
		}
		deleted, err = res.RowsAffected()
		if err != nil {
			return err
		}
		entry, err = svc.insertAction(ctx, tx, common.ActionEventsPurged, pubkey, actor)
		return err
	})
	if err != nil {
		return 0, err
	}
	svc.publishAction(entry)
	return deleted, nil
}
