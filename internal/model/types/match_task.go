package types

import (
	"gopkg.in/guregu/null.v3"

	"compstats.gg/backend/internal/model"
)

// MatchTask is the wire shape published to the ingest queue for one reported
// match. Fields are validated at the API boundary; the consumer still reads
// them defensively and default-fills what is missing.
type MatchTask struct {
	TaskID string `json:"taskId"`

	MatchID     string `json:"matchId"`
	Region      string `json:"region" validate:"required"`
	GameVersion string `json:"gameVersion"`

	Count null.Int `json:"count"`

	Participants []model.RawParticipant `json:"participants" validate:"required,min=1,max=8,dive"`

	// CreatedAt is in microseconds since epoch.
	CreatedAt int64 `json:"createdAt"`
}
