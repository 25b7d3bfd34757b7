package i2c

import (
	"slices"

	"github.com/sigurn/crc8"
)

// CRC-8 with polynomial x^8+x^5+x^4+1, zero init, no reflection.
var crcTable = crc8.MakeTable(crc8.Params{
	Poly:   0x31,
	Init:   0x00,
	RefIn:  false,
	RefOut: false,
	XorOut: 0x00,
	Check:  0xA2,
	Name:   "CRC-8/HTU21",
})

// CRC8 computes the checksum the sensor appends to every measurement.
func CRC8(data []byte) byte {
	return crc8.Checksum(data, crcTable)
}

// CheckFrame validates a frame of data bytes followed by their checksum.
// A little-endian frame arrives fully reversed: checksum first, then the
// data bytes least significant first.
func CheckFrame(frame []byte, bigEndian bool) bool {
	_, err := verifyFrame(frame, bigEndian)
	return err == nil
}

// verifyFrame splits frame into its data bytes, in receipt order, and the
// checksum byte, and validates the checksum over the data most significant
// byte first.
func verifyFrame(frame []byte, bigEndian bool) ([]byte, error) {
	if len(frame) == 0 {
		return nil, ErrShortRead
	}
	last := len(frame) - 1
	data, sum := frame[:last], frame[last]
	msbFirst := data
	if !bigEndian {
		data, sum = frame[1:], frame[0]
		msbFirst = slices.Clone(data)
		slices.Reverse(msbFirst)
	}
	expected := CRC8(msbFirst)
	if expected != sum {
		return nil, &ChecksumError{Expected: expected, Received: sum}
	}
	return data, nil
}

// BytesToUint reassembles b into a single unsigned integer. When bigEndian is
// set the first byte is the most significant one. An empty slice yields 0.
func BytesToUint(b []byte, bigEndian bool) uint64 {
	var v uint64
	for i := range b {
		idx := i
		if !bigEndian {
			idx = len(b) - 1 - i
		}
		v = v<<8 | uint64(b[idx])
	}
	return v
}
