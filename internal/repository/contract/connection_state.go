package contract

type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnected
	StateConnecting
	StateDisconnecting
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateConnecting:
		return "connecting"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "disconnected"
	}
}
