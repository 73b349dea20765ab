package models

import (
	"github.com/uptrace/bun"
)

// Event : row of the relay's event table. The relay owns this table, the
// admin panel only reads and deletes rows.
type Event struct {
	bun.BaseModel `bun:"table:event"`

	ID          int64  `bun:",pk,autoincrement"`
	EventHash   []byte `bun:",notnull"`
	FirstSeen   int64  `bun:",notnull"`
	CreatedAt   int64  `bun:",notnull"`
	ExpiresAt   int64  `bun:",nullzero"`
	Author      []byte `bun:",notnull"`
	DelegatedBy []byte `bun:",nullzero"`
	Kind        int64  `bun:",notnull"`
	Hidden      bool   `bun:",notnull,default:false"`
	Content     string `bun:",notnull"`
}

// EventRow : an event with author and hash decoded to lower case hex
type EventRow struct {
	ID        int64  `bun:"id" json:"id"`
	EventID   string `bun:"event_id" json:"event_id"`
	Pubkey    string `bun:"pubkey" json:"pubkey"`
	Kind      int64  `bun:"kind" json:"kind"`
	Content   string `bun:"content" json:"content"`
	CreatedAt int64  `bun:"created_at" json:"created_at"`
}

// EventRowColumns selects an EventRow from the event table
const EventRowColumns = "id, lower(hex(author)) AS pubkey, kind, content, created_at, lower(hex(event_hash)) AS event_id"
