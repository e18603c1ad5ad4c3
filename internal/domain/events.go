package domain

// ModeTransition is emitted whenever the agent changes trust mode.
type ModeTransition struct {
	Turn       int       `json:"turn"`
	From       TrustMode `json:"from"`
	To         TrustMode `json:"to"`
	Confidence float64   `json:"confidence"`
}

// TransitionSink receives mode-transition events. Implementations must not
// block; the agent calls them inline during action selection.
type TransitionSink interface {
	ModeSwitched(t ModeTransition)
}

// TransitionSinkFunc adapts a function to the TransitionSink interface.
type TransitionSinkFunc func(t ModeTransition)

func (f TransitionSinkFunc) ModeSwitched(t ModeTransition) { f(t) }
