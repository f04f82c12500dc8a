package transport

// State is the connection manager's lifecycle state. Exactly one state is
// active at a time.
type State int

const (
	// StateDisconnected means no connection exists and none is pending.
	// Terminal until a manual Connect.
	StateDisconnected State = iota

	// StateConnecting means a manual Connect is dialing.
	StateConnecting

	// StateConnected means the underlying connection is open.
	StateConnected

	// StateReconnecting means the connection dropped unexpectedly and a
	// retry is scheduled.
	StateReconnecting
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}
