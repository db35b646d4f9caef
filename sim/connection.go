package sim

// SendError marks a failed send or receive.
type SendError struct{}

// NewSendError creates a SendError.
func NewSendError() *SendError {
	return new(SendError)
}

// A Connection is responsible for delivering messages to their destinations.
type Connection interface {
	Named
	Hookable

	// PlugIn connects a port to the connection. The sourceSideBufSize is
	// the number of messages that the connection can buffer on the sending
	// side of the port.
	PlugIn(port Port, sourceSideBufSize int)

	// Unplug detaches a port from the connection.
	Unplug(port Port)

	// NotifyAvailable is called by a port to notify the connection that it
	// can deliver to the port again.
	NotifyAvailable(port Port)

	// NotifySend is called by a port to notify that a message is waiting to
	// be sent.
	NotifySend()
}

// HookPosConnStartSend marks a connection accepting a message to send.
var HookPosConnStartSend = &HookPos{Name: "Conn Start Send"}

// HookPosConnDeliver marks a connection delivering a message.
var HookPosConnDeliver = &HookPos{Name: "Conn Deliver"}
