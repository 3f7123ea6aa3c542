package service

// Decision is the outcome of an access-gate evaluation for a protected
// destination.
type Decision int

const (
	// DecisionSuspend means session resolution is still in flight: render
	// an interim loading state, neither admit nor deny.
	DecisionSuspend Decision = iota
	// DecisionDeny means the session resolved to anonymous: redirect to
	// the login entry point.
	DecisionDeny
	// DecisionAdmit means an identity is present: proceed.
	DecisionAdmit
)

func (d Decision) String() string {
	switch d {
	case DecisionSuspend:
		return "suspend"
	case DecisionDeny:
		return "deny"
	case DecisionAdmit:
		return "admit"
	}
	return "unknown"
}

// Decide is the access gate: a pure function over session state, evaluated
// on every navigation attempt. Decisions are never cached across session
// store updates.
func Decide(state State) Decision {
	if state.Loading {
		return DecisionSuspend
	}
	if state.Identity == nil {
		return DecisionDeny
	}
	return DecisionAdmit
}
