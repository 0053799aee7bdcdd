package chathub

import "omnichat/backend/internal/models"

// Client is the interface for any live connection. It abstracts the
// transport so the hub logic can be unit-tested without real sockets.
type Client interface {
	// GetID returns the connection's identity id.
	GetID() string

	// GetSendChannel returns the channel the hub writes outbound
	// events to. It is a send-only channel.
	GetSendChannel() chan<- models.ServerEvent

	// Run starts the client's read and write pumps.
	Run()

	// Close shuts down the client's outbound channel, which stops its
	// write pump.
	Close()
}
