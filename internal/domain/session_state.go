package domain

type SessionState int

const (
	SessionIdle SessionState = iota
	SessionOpening
	SessionReady
	SessionExecuting
	SessionClosing
	SessionClosed
)

var sessionStateNames = [...]string{
	SessionIdle:      "idle",
	SessionOpening:   "opening",
	SessionReady:     "ready",
	SessionExecuting: "executing",
	SessionClosing:   "closing",
	SessionClosed:    "closed",
}

func (s SessionState) String() string {
	if s < 0 || int(s) >= len(sessionStateNames) {
		return "invalid"
	}

	return sessionStateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s SessionState) Terminal() bool {
	return s == SessionClosed
}
