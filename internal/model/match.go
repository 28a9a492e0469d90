package model

import (
	"time"

	"github.com/uptrace/bun"
	"gopkg.in/guregu/null.v3"
)

// Match is one raw match as collected from the upstream match-data source,
// stored verbatim so aggregates can always be rebuilt from scratch.
type Match struct {
	bun.BaseModel `bun:"matches,alias:m" json:"-"`

	MatchID     string     `bun:",pk" json:"matchId"`
	Region      string     `bun:"region" json:"region"`
	GameVersion string     `bun:"game_version" json:"gameVersion,omitempty"`
	PlayedAt    *time.Time `bun:"played_at" json:"playedAt,omitempty"`

	// Count is the occurrence weight of this match. Upstream deduplicated
	// feeds may collapse identical matches into one record; absent means 1.
	Count null.Int `bun:"count" json:"count,omitempty"`

	Participants []RawParticipant `bun:"participants,type:jsonb" json:"participants"`

	CreatedAt *time.Time `bun:"created_at,nullzero,default:now()" json:"-"`
}

// RawParticipant is one player's end-of-match board state.
type RawParticipant struct {
	Placement int        `json:"placement"`
	Units     []RawUnit  `json:"units"`
	Traits    []RawTrait `json:"traits"`
}

type RawUnit struct {
	UnitID string   `json:"unitId"`
	Items  []string `json:"items"`
}

type RawTrait struct {
	TraitID  string `json:"traitId"`
	Tier     int    `json:"tier"`
	NumUnits int    `json:"numUnits"`
}

// Weight returns the occurrence weight of the match, defaulting to 1.
func (m *Match) Weight() float64 {
	if m.Count.Valid && m.Count.Int64 > 0 {
		return float64(m.Count.Int64)
	}
	return 1
}
