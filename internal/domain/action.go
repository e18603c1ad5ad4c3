package domain

// TrustMode is the agent's current interpretation policy for oracle answers.
type TrustMode string

const (
	// ModeTrust takes oracle answers at face value.
	ModeTrust TrustMode = "TRUST"
	// ModeDistrust inverts oracle answers before applying them.
	ModeDistrust TrustMode = "DISTRUST"
)

func ValidTrustMode(m string) bool {
	switch TrustMode(m) {
	case ModeTrust, ModeDistrust:
		return true
	}
	return false
}

// Action is one parsed agent move: a threshold query and a declared mode.
type Action struct {
	K    int       `json:"k"`
	Mode TrustMode `json:"mode"`
}
