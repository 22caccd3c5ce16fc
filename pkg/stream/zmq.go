//go:build zmq
// +build zmq

package stream

import (
	"fmt"

	zmq "github.com/pebbe/zmq4"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// zmqSocket wraps a ZeroMQ socket to implement PubSocket.
type zmqSocket struct {
	sock *zmq.Socket
}

func (s *zmqSocket) Listen(addr string) error {
	return s.sock.Bind(addr)
}

func (s *zmqSocket) Send(data []byte) error {
	_, err := s.sock.SendBytes(data, 0)
	return err
}

func (s *zmqSocket) Close() error {
	return s.sock.Close()
}

// NewZMQPublisher creates a publisher backed by a ZeroMQ PUB socket, for
// deployments standardized on ZeroMQ.
func NewZMQPublisher(cfg Config, logger logging.Logger) (*Publisher, error) {
	sock, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	return NewPublisher(&zmqSocket{sock: sock}, cfg, logger), nil
}
