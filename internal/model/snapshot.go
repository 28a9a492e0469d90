package model

import (
	"time"

	"github.com/uptrace/bun"
)

// Snapshot is one persisted aggregate blob, keyed by (type, region) and
// ordered by creation time for history lookups.
type Snapshot struct {
	bun.BaseModel `bun:"aggregate_snapshots" json:"-"`

	SnapshotID int        `bun:",pk,autoincrement" json:"id"`
	CreatedAt  *time.Time `bun:"created_at,nullzero,default:now()" json:"created_at"`
	Key        string     `bun:"key" json:"key"`
	Version    string     `bun:"version" json:"version"`
	Content    []byte     `bun:"content" json:"content"`
}
