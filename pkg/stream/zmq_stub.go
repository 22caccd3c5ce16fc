//go:build !zmq
// +build !zmq

package stream

import (
	"errors"

	"github.com/cascadelab/ripplegraph/pkg/logging"
)

// NewZMQPublisher requires the zmq build tag; without it the binary
// carries no libzmq dependency.
func NewZMQPublisher(cfg Config, logger logging.Logger) (*Publisher, error) {
	return nil, errors.New("zmq transport requires building with -tags zmq")
}
