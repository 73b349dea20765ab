package models

import (
	"time"

	"github.com/uptrace/bun"
)

// BannedPubkey : BannedPubkey Model
type BannedPubkey struct {
	bun.BaseModel `bun:"table:banned_pubkeys"`

	ID       int64     `bun:",pk,autoincrement" json:"-"`
	Pubkey   string    `bun:",notnull,unique" json:"pubkey"`
	BannedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"banned_at"`
}
