package stream

import (
	"fmt"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// nngSocket wraps a mangos.Socket to implement PubSocket.
type nngSocket struct {
	sock mangos.Socket
}

func (s *nngSocket) Listen(addr string) error {
	return s.sock.Listen(addr)
}

func (s *nngSocket) Send(data []byte) error {
	return s.sock.Send(data)
}

func (s *nngSocket) Close() error {
	return s.sock.Close()
}

// NewNNGPublisher creates the default publisher, backed by a mangos PUB
// socket.
func NewNNGPublisher(cfg Config, logger logging.Logger) (*Publisher, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	return NewPublisher(&nngSocket{sock: sock}, cfg, logger), nil
}
