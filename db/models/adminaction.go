package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AdminAction : audit log entry for every mutating admin request
type AdminAction struct {
	bun.BaseModel `bun:"table:admin_actions"`

	ID        int64     `bun:",pk,autoincrement" json:"id"`
	Action    string    `bun:",notnull" json:"action"`
	Target    string    `bun:",notnull" json:"target"`
	Actor     string    `bun:",nullzero" json:"actor,omitempty"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
}
