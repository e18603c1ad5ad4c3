package domain

import (
	"time"

	"github.com/google/uuid"
)

// QueryRecord is the append-only audit entry for one turn.
type QueryRecord struct {
	Turn           int       `json:"turn"`
	K              int       `json:"k"`
	OracleResponse bool      `json:"oracle_response"`
	Reward         float64   `json:"reward"`
	Mode           TrustMode `json:"mode"`
	Confidence     float64   `json:"confidence"`
	Low            int       `json:"low"`
	High           int       `json:"high"`
	ModeSwitched   bool      `json:"mode_switched"`
	Contradiction  bool      `json:"contradiction"`
}

// Rollout is the recorded result of one completed episode.
type Rollout struct {
	ID      uuid.UUID `json:"id"`
	Task    string    `json:"task"`
	Episode Episode   `json:"episode"`

	Status          EpisodeStatus `json:"status"`
	Turns           int           `json:"turns"`
	TotalReward     float64       `json:"total_reward"`
	FinalMode       TrustMode     `json:"final_mode"`
	FinalConfidence float64       `json:"final_confidence"`
	History         []QueryRecord `json:"history"`

	CreatedAt time.Time `json:"created_at"`
}
