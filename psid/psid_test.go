package psid

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memory [0x10000]byte

func (m *memory) StoreBytes(addr uint16, b []byte) {
	copy(m[addr:], b)
}

func tuneFile(t *testing.T, h PSIDHeader, data []byte) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, &h))
	buf.Write(data)
	return bytes.NewReader(buf.Bytes())
}

func header() PSIDHeader {
	h := PSIDHeader{
		Version:     2,
		DataOffset:  headerSizeV2,
		LoadAddress: 0x1000,
		InitAddress: 0x1000,
		PlayAddress: 0x1003,
		Songs:       3,
		StartSong:   2,
		Speed:       0x2,
		Flags:       0x14, // PAL, 6581
	}
	copy(h.MagicID[:], "PSID")
	copy(h.Name[:], "Test Tune")
	copy(h.Author[:], "Someone")
	copy(h.Released[:], "2024 Nobody")
	return h
}

func TestLoadHeaderAndData(t *testing.T) {
	r := tuneFile(t, header(), []byte{0xa9, 0x00, 0x60})

	h := NewPSID()
	require.NoError(t, h.LoadHeader(r))
	assert.Equal(t, uint16(0x1000), h.LoadAddress)
	assert.Equal(t, uint16(3), h.Songs)
	assert.Equal(t, "Test Tune", h.Title())
	assert.Equal(t, "Someone", h.Composer())
	assert.Equal(t, "2024 Nobody", h.Copyright())
	assert.False(t, h.CIATimer(0))
	assert.True(t, h.CIATimer(1))
	assert.False(t, h.CIATimer(40))

	var mem memory
	require.NoError(t, h.LoadData(&mem, r))
	assert.Equal(t, []byte{0xa9, 0x00, 0x60}, mem[0x1000:0x1003])
}

func TestClockAndModelFlags(t *testing.T) {
	for _, tc := range []struct {
		flags uint16
		clock Clock
		model SIDModel
	}{
		{0x00, ClockUnknown, SIDUnknown},
		{0x14, ClockPAL, SID6581},
		{0x28, ClockNTSC, SID8580},
		{0x3e, ClockAny, SIDAny},
	} {
		hdr := header()
		hdr.Flags = tc.flags
		h := NewPSID()
		require.NoError(t, h.LoadHeader(tuneFile(t, hdr, []byte{0x60})))
		assert.Equal(t, tc.clock, h.Clock(), "flags %#x", tc.flags)
		assert.Equal(t, tc.model, h.Model(), "flags %#x", tc.flags)
	}
}

func TestVersion1HasNoFlags(t *testing.T) {
	hdr := header()
	hdr.Version = 1
	hdr.DataOffset = headerSizeV1

	// a v1 file ends its header before the flags word
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, &hdr))
	file := append(buf.Bytes()[:headerSizeV1], 0xa9, 0x00, 0x60)
	r := bytes.NewReader(file)

	h := NewPSID()
	require.NoError(t, h.LoadHeader(r))
	assert.Equal(t, uint16(0), h.Flags)
	assert.Equal(t, ClockUnknown, h.Clock())

	var mem memory
	require.NoError(t, h.LoadData(&mem, r))
	assert.Equal(t, []byte{0xa9, 0x00, 0x60}, mem[0x1000:0x1003])
}

func TestLoadAddressFromData(t *testing.T) {
	hdr := header()
	hdr.LoadAddress = 0
	r := tuneFile(t, hdr, []byte{0x00, 0xc0, 0xea, 0x60})

	h := NewPSID()
	require.NoError(t, h.LoadHeader(r))
	assert.Equal(t, uint16(0xc000), h.LoadAddress)

	var mem memory
	require.NoError(t, h.LoadData(&mem, r))
	assert.Equal(t, []byte{0xea, 0x60}, mem[0xc000:0xc002])
}

func TestBadMagic(t *testing.T) {
	hdr := header()
	copy(hdr.MagicID[:], "MTHD")
	err := NewPSID().LoadHeader(tuneFile(t, hdr, nil))
	assert.ErrorIs(t, err, ErrBadMagic)

	err = NewPSID().LoadHeader(bytes.NewReader([]byte("PSID")))
	assert.Error(t, err)
}

func TestDataTooLarge(t *testing.T) {
	hdr := header()
	hdr.LoadAddress = 0xfff0
	r := tuneFile(t, hdr, make([]byte, 0x20))

	h := NewPSID()
	require.NoError(t, h.LoadHeader(r))
	var mem memory
	assert.ErrorIs(t, h.LoadData(&mem, r), ErrTooLarge)
}

func TestPrintHeader(t *testing.T) {
	h := header()
	var out bytes.Buffer
	h.PrintHeader(&out)
	assert.Contains(t, out.String(), "MagicID:  PSID\n")
	assert.Contains(t, out.String(), "Name: Test Tune\n")
	assert.Contains(t, out.String(), "PlayAddress: 0x1003\n")
}
