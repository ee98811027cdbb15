// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package ykq368

import (
	"errors"
	"fmt"
	"io"
)

// ErrEndpointClosed is returned when using an endpoint after Close
var ErrEndpointClosed = errors.New("ykq368: endpoint closed")

// exitSentinel tells the bridge to leave the endpoint
var exitSentinel Command

// Endpoint writes commands to the bridge.
//
// An endpoint is single use: once Close has written the exit sentinel every
// further call fails with ErrEndpointClosed. Writes are not buffered or retried.
type Endpoint struct {
	w      io.Writer
	closed bool
}

// NewEndpoint wraps a sink on which the endpoint is already selected
func NewEndpoint(w io.Writer) *Endpoint {
	return &Endpoint{w: w}
}

// OpenEndpoint selects the YKQ368 endpoint on the bridge and wraps the sink
func OpenEndpoint(w io.Writer) (*Endpoint, error) {
	if err := writeFull(w, []byte{EndpointSelect}); err != nil {
		return nil, fmt.Errorf("failed to select endpoint: %w", err)
	}
	return NewEndpoint(w), nil
}

// Send writes the 8 command bytes
func (e *Endpoint) Send(cmd Command) error {
	if e.closed {
		return ErrEndpointClosed
	}
	if err := writeFull(e.w, cmd[:]); err != nil {
		return fmt.Errorf("failed to send %v: %w", cmd, err)
	}
	return nil
}

// Close writes the all-zero exit sentinel. The endpoint is unusable
// afterwards even when the write fails.
func (e *Endpoint) Close() error {
	if e.closed {
		return ErrEndpointClosed
	}
	e.closed = true
	if err := writeFull(e.w, exitSentinel[:]); err != nil {
		return fmt.Errorf("failed to exit endpoint: %w", err)
	}
	return nil
}

// Closed reports whether Close has been called
func (e *Endpoint) Closed() bool {
	return e.closed
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}
