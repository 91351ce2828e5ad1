package enum

// ChannelState is the connection state of the realtime confirmation channel.
//
// Idle means no connection was attempted (no credential configured, or the
// channel was torn down). Error is recoverable: a retry re-enters Connecting.
type ChannelState string

const (
	ChannelStateIdle       ChannelState = "idle"
	ChannelStateConnecting ChannelState = "connecting"
	ChannelStateConnected  ChannelState = "connected"
	ChannelStateError      ChannelState = "error"
)
