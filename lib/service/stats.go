package service

import (
	"context"
	"database/sql"
	"math"
	"os"
	"time"

	"github.com/getAlby/relayadmin.go/common"
	"github.com/getAlby/relayadmin.go/db/models"
)

const oldestEventDateLayout = "02. Jan 2006"

type KindCount struct {
	Kind  int64 `bun:"kind" json:"kind"`
	Count int64 `bun:"count" json:"count"`
}

type AuthorCount struct {
	Pubkey string `bun:"pubkey" json:"pubkey"`
	Count  int64  `bun:"count" json:"count"`
}

type Stats struct {
	TotalEvents     int64         `json:"total_events"`
	DistinctPubkeys int64         `json:"distinct_pubkeys"`
	BannedPubkeys   int64         `json:"banned_pubkeys"`
	Events24h       int64         `json:"events_24h"`
	Events1h        int64         `json:"events_1h"`
	NewUsers24h     int64         `json:"new_users_24h"`
	TopKinds        []KindCount   `json:"top_kinds"`
	DMPercentage    float64       `json:"dm_percentage"`
	TopUsers        []AuthorCount `json:"top_users"`
	OldestEventDate string        `json:"oldest_event_date"`
	DBSize          string        `json:"db_size"`
}

func (svc *RelayAdminService) countEvents(ctx context.Context, where string, args ...interface{}) (count int64, err error) {
	q := svc.DB.NewSelect().TableExpr("event").ColumnExpr("count(*)")
	if where != "" {
		q = q.Where(where, args...)
	}
	err = q.Scan(ctx, &count)
	return count, err
}

// GetStats aggregates the dashboard numbers. now is the reference point of
// the 24h and 1h windows.
func (svc *RelayAdminService) GetStats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{
		TopKinds: []KindCount{},
		TopUsers: []AuthorCount{},
	}
	ts24hAgo := now.Add(-24 * time.Hour).Unix()
	ts1hAgo := now.Add(-time.Hour).Unix()

	var err error
	if stats.TotalEvents, err = svc.countEvents(ctx, ""); err != nil {
		return nil, err
	}
	err = svc.DB.NewSelect().TableExpr("event").ColumnExpr("count(DISTINCT author)").Scan(ctx, &stats.DistinctPubkeys)
	if err != nil {
		return nil, err
	}
	if stats.Events24h, err = svc.countEvents(ctx, "created_at > ?", ts24hAgo); err != nil {
		return nil, err
	}
	if stats.Events1h, err = svc.countEvents(ctx, "created_at > ?", ts1hAgo); err != nil {
		return nil, err
	}

	firstSeen := svc.DB.NewSelect().
		TableExpr("event").
		ColumnExpr("min(created_at) AS first_seen").
		GroupExpr("author")
	err = svc.DB.NewSelect().
		TableExpr("(?) AS authors", firstSeen).
		ColumnExpr("count(*)").
		Where("first_seen > ?", ts24hAgo).
		Scan(ctx, &stats.NewUsers24h)
	if err != nil {
		return nil, err
	}

	err = svc.DB.NewSelect().
		TableExpr("event").
		ColumnExpr("kind, count(*) AS count").
		GroupExpr("kind").
		OrderExpr("count DESC").
		Limit(5).
		Scan(ctx, &stats.TopKinds)
	if err != nil {
		return nil, err
	}

	dmCount, err := svc.countEvents(ctx, "kind = ?", common.KindEncryptedDirectMessage)
	if err != nil {
		return nil, err
	}
	if stats.TotalEvents > 0 {
		stats.DMPercentage = math.Round(float64(dmCount)/float64(stats.TotalEvents)*100*100) / 100
	}

	err = svc.DB.NewSelect().
		TableExpr("event").
		ColumnExpr("lower(hex(author)) AS pubkey, count(*) AS count").
		GroupExpr("author").
		OrderExpr("count DESC").
		Limit(5).
		Scan(ctx, &stats.TopUsers)
	if err != nil {
		return nil, err
	}

	var oldest sql.NullInt64
	if err = svc.DB.NewSelect().TableExpr("event").ColumnExpr("min(created_at)").Scan(ctx, &oldest); err != nil {
		return nil, err
	}
	stats.OldestEventDate = "N/A"
	if oldest.Valid && oldest.Int64 > 0 {
		stats.OldestEventDate = time.Unix(oldest.Int64, 0).Format(oldestEventDateLayout)
	}

	banned, err := svc.DB.NewSelect().Model((*models.BannedPubkey)(nil)).Count(ctx)
	if err != nil {
		return nil, err
	}
	stats.BannedPubkeys = int64(banned)
	stats.DBSize = svc.dbSize()
	return stats, nil
}

func (svc *RelayAdminService) dbSize() string {
	path := svc.Config.DatabaseFilePath()
	if path == "" {
		return "N/A"
	}
	info, err := os.Stat(path)
	if err != nil {
		return "N/A"
	}
	return FormatDBSize(info.Size())
}
