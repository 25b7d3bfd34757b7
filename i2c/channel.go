package i2c

import (
	"context"
	"fmt"

	"github.com/mklimuk/htu21/snsctx"
)

type readOpts struct {
	littleEndian bool
	verify       bool
}

type ReadOpt func(*readOpts)

// LittleEndian reads the frame least significant byte first.
func LittleEndian() ReadOpt {
	return func(o *readOpts) {
		o.littleEndian = true
	}
}

// VerifyChecksum reads one extra CRC-8 byte and validates the data against it.
func VerifyChecksum() ReadOpt {
	return func(o *readOpts) {
		o.verify = true
	}
}

// Byte converts an integer command code to a single-byte payload.
func Byte(v int) []byte {
	return []byte{byte(v)}
}

// Char converts a character to a single-byte payload.
func Char(r rune) []byte {
	return []byte{byte(r)}
}

// Channel is an exclusively owned handle bound to one device address.
//
// A Channel is not safe for concurrent use. The address is applied to the
// handle before every transaction, so devices sharing a physical bus through
// separate channels must be serialised by the caller.
type Channel struct {
	handle Handle
	addr   uint16
	closed bool
}

// NewChannel takes ownership of h and binds it to addr.
func NewChannel(h Handle, addr uint16) (*Channel, error) {
	c := &Channel{handle: h}
	err := c.SetAddress(addr)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Open opens bus with opener and binds the resulting handle to addr.
func Open(opener Opener, bus int, addr uint16) (*Channel, error) {
	if opener == nil {
		opener = OpenDevfsHandle
	}
	h, err := opener(bus)
	if err != nil {
		return nil, fmt.Errorf("could not open i2c bus %d: %w", bus, err)
	}
	c, err := NewChannel(h, addr)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	return c, nil
}

func (c *Channel) Address() uint16 {
	return c.addr
}

// SetAddress retargets the channel. The address must fit in 7 bits.
func (c *Channel) SetAddress(addr uint16) error {
	if c.closed {
		return ErrClosed
	}
	if addr > 0x7F {
		return fmt.Errorf("invalid i2c address %#x", addr)
	}
	err := c.handle.SetAddress(addr)
	if err != nil {
		return fmt.Errorf("could not address device %#02x: %w", addr, err)
	}
	c.addr = addr
	return nil
}

func (c *Channel) Write(ctx context.Context, buf []byte) error {
	err := c.bind()
	if err != nil {
		return err
	}
	snsctx.DumpFrame(ctx, "i2c write", buf)
	err = c.handle.Write(ctx, buf)
	if err != nil {
		return fmt.Errorf("could not write to %#02x: %w", c.addr, err)
	}
	return nil
}

func (c *Channel) ReadByte(ctx context.Context) (byte, error) {
	var buf [1]byte
	err := c.read(ctx, buf[:])
	if err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadMany reads count data bytes and returns them in the order they were
// received. With VerifyChecksum the checksum byte trails a big-endian frame
// and leads a little-endian one; it is always computed over the data most
// significant byte first.
func (c *Channel) ReadMany(ctx context.Context, count int, opts ...ReadOpt) ([]byte, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid read length %d", count)
	}
	var o readOpts
	for _, opt := range opts {
		opt(&o)
	}
	size := count
	if o.verify {
		size++
	}
	frame := make([]byte, size)
	err := c.read(ctx, frame)
	if err != nil {
		return nil, err
	}
	if !o.verify {
		return frame, nil
	}
	return verifyFrame(frame, !o.littleEndian)
}

// ReadInt reads count bytes and reassembles them into an unsigned integer.
func (c *Channel) ReadInt(ctx context.Context, count int, opts ...ReadOpt) (uint64, error) {
	if count > 8 {
		return 0, fmt.Errorf("cannot assemble %d bytes into an integer", count)
	}
	data, err := c.ReadMany(ctx, count, opts...)
	if err != nil {
		return 0, err
	}
	var o readOpts
	for _, opt := range opts {
		opt(&o)
	}
	return BytesToUint(data, !o.littleEndian), nil
}

// Close releases the handle. A channel can be closed only once.
func (c *Channel) Close() error {
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	return c.handle.Close()
}

func (c *Channel) read(ctx context.Context, buf []byte) error {
	err := c.bind()
	if err != nil {
		return err
	}
	err = c.handle.Read(ctx, buf)
	if err != nil {
		return fmt.Errorf("could not read %d bytes from %#02x: %w", len(buf), c.addr, err)
	}
	snsctx.DumpFrame(ctx, "i2c read", buf)
	return nil
}

func (c *Channel) bind() error {
	if c.closed {
		return ErrClosed
	}
	err := c.handle.SetAddress(c.addr)
	if err != nil {
		return fmt.Errorf("could not address device %#02x: %w", c.addr, err)
	}
	return nil
}
