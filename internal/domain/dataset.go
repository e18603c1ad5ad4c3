package domain

// Task tags carried by dataset examples and persisted rollouts.
const (
	TaskLyingOracle         = "lying-oracle"
	TaskAdaptiveLyingOracle = "adaptive-lying-oracle"
)

// TaskForVariant returns the task tag used for a variant's examples.
func TaskForVariant(v Variant) string {
	if v == VariantHard {
		return TaskAdaptiveLyingOracle
	}
	return TaskLyingOracle
}

// ExampleInfo carries the hidden episode parameters alongside an example.
type ExampleInfo struct {
	HiddenNumber int `json:"hidden_number"`
	SwitchTurn   int `json:"switch_turn,omitempty"`
	EpisodeID    int `json:"episode_id"`
}

// Example is one dataset record in the shape consumed by rollout tooling:
// a natural-language question, the answer as a string, a task tag, and the
// structured episode parameters.
type Example struct {
	Question string      `json:"question"`
	Answer   string      `json:"answer"`
	Task     string      `json:"task"`
	Info     ExampleInfo `json:"info"`
}
