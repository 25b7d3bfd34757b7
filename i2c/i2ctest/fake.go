// Package i2ctest provides an in-memory i2c.Handle for tests.
package i2ctest

import (
	"context"
	"errors"
	"slices"
)

var (
	ErrDisconnected = errors.New("device is disconnected")
	ErrNoData       = errors.New("no readable values available")
)

// Fake queues bytes to be read and records everything written.
// Reads never consume bytes when the queue cannot satisfy them.
type Fake struct {
	Writes    [][]byte
	Addresses []uint16
	reads     []byte
	connected bool
}

func NewFake() *Fake {
	return &Fake{connected: true}
}

// AddRead queues bytes returned by subsequent reads.
func (f *Fake) AddRead(values ...byte) {
	f.reads = append(f.reads, values...)
}

// Pending returns the number of queued bytes not read yet.
func (f *Fake) Pending() int {
	return len(f.reads)
}

// Written flattens every write into a single byte sequence.
func (f *Fake) Written() []byte {
	var out []byte
	for _, w := range f.Writes {
		out = append(out, w...)
	}
	return out
}

// Clear drops queued reads and recorded writes and addresses.
func (f *Fake) Clear() {
	f.Writes = nil
	f.Addresses = nil
	f.reads = nil
}

func (f *Fake) Connect() {
	f.connected = true
}

func (f *Fake) Disconnect() {
	f.connected = false
}

func (f *Fake) Connected() bool {
	return f.connected
}

func (f *Fake) SetAddress(addr uint16) error {
	if !f.connected {
		return ErrDisconnected
	}
	f.Addresses = append(f.Addresses, addr)
	return nil
}

func (f *Fake) Write(ctx context.Context, buffer []byte) error {
	if !f.connected {
		return ErrDisconnected
	}
	f.Writes = append(f.Writes, slices.Clone(buffer))
	return nil
}

func (f *Fake) Read(ctx context.Context, buffer []byte) error {
	if !f.connected {
		return ErrDisconnected
	}
	if len(f.reads) < len(buffer) {
		return ErrNoData
	}
	n := copy(buffer, f.reads)
	f.reads = f.reads[n:]
	return nil
}

func (f *Fake) Close() error {
	f.connected = false
	return nil
}
