package adapter

import (
	"context"
	"testing"

	"github.com/karalabe/hid"
	"github.com/stretchr/testify/assert"
)

func withDevices(d *MCP2221, n int) *MCP2221 {
	d.enumerate = func(vendorID, productID uint16) []hid.DeviceInfo {
		devs := make([]hid.DeviceInfo, n)
		for i := range devs {
			devs[i] = hid.DeviceInfo{VendorID: vendorID, ProductID: productID}
		}
		return devs
	}
	return d
}

func TestMCP2221_Init(t *testing.T) {
	assert.ErrorIs(t, withDevices(NewMCP2221(), 0).Init(), ErrDeviceNotFound)
	assert.ErrorIs(t, withDevices(NewMCP2221(), 2).Init(), ErrAmbiguousDevice)
	assert.NoError(t, withDevices(NewMCP2221(), 1).Init())
}

func TestMCP2221_NoDevice(t *testing.T) {
	d := withDevices(NewMCP2221(), 0)
	err := d.WriteToAddr(context.Background(), 0x40, []byte{0xFE})
	assert.ErrorIs(t, err, ErrDeviceNotFound)
	err = d.ReadFromAddr(context.Background(), 0x40, make([]byte, 3))
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestBufferToStatus(t *testing.T) {
	buf := make([]byte, reportSize)
	buf[9], buf[10] = 0x03, 0x00
	buf[11], buf[12] = 0x02, 0x00
	buf[13] = 4
	buf[14] = 0x76
	buf[15] = 9
	buf[16], buf[17] = 0x80, 0x00
	buf[25] = 1

	status := bufferToStatus(buf)
	assert.Equal(t, &MCP2221Status{
		I2CDataBufferCounter:   4,
		I2CSpeedDivider:        0x76,
		I2CTimeout:             9,
		CurrentAddress:         "8000",
		LastWriteRequestedSize: 3,
		LastWriteSentSize:      2,
		ReadPending:            1,
	}, status)
}
