// Package psid reads PSID and RSID tune files.
package psid

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	magicPSID = 0x50534944
	magicRSID = 0x52534944

	headerSizeV1 = 0x76
	headerSizeV2 = 0x7c
)

// Clock is the video standard a tune was written for, from the v2 flags.
type Clock int

const (
	ClockUnknown Clock = iota
	ClockPAL
	ClockNTSC
	ClockAny
)

// SIDModel is the chip a tune was written for, from the v2 flags.
type SIDModel int

const (
	SIDUnknown SIDModel = iota
	SID6581
	SID8580
	SIDAny
)

var (
	ErrBadMagic = errors.New("not a valid psid file")
	ErrTooLarge = errors.New("SID data continues past end of C64 memory")
)

// PSIDHeader is the big endian header at the start of a tune file. The
// fields from Flags on are only present from version 2 on and are zero
// otherwise.
type PSIDHeader struct {
	MagicID     [4]byte
	Version     uint16
	DataOffset  uint16
	LoadAddress uint16
	InitAddress uint16
	PlayAddress uint16
	Songs       uint16
	StartSong   uint16
	Speed       uint32
	Name        [32]byte
	Author      [32]byte
	Released    [32]byte
	Flags       uint16
	StartPage   uint8
	PageLength  uint8
	SecondSID   uint8
	ThirdSID    uint8
}

// Memory is where LoadData places the tune.
type Memory interface {
	StoreBytes(addr uint16, b []byte)
}

func NewPSID() *PSIDHeader {
	return &PSIDHeader{}
}

// PrintHeader writes the header fields to w, one per line.
func (psid *PSIDHeader) PrintHeader(w io.Writer) {
	fmt.Fprintf(w, "MagicID:  %s\n", psid.MagicID[:])
	fmt.Fprintf(w, "Version:  %X\n", psid.Version)
	fmt.Fprintf(w, "DataOffset:  0x%X\n", psid.DataOffset)
	fmt.Fprintf(w, "LoadAddress: 0x%X\n", psid.LoadAddress)
	fmt.Fprintf(w, "InitAddress: 0x%X\n", psid.InitAddress)
	fmt.Fprintf(w, "PlayAddress: 0x%X\n", psid.PlayAddress)
	fmt.Fprintf(w, "Songs: %d\n", psid.Songs)
	fmt.Fprintf(w, "Startsong: %d\n", psid.StartSong)
	fmt.Fprintf(w, "Speed: 0x%X\n", psid.Speed)
	fmt.Fprintf(w, "Name: %s\n", psid.Title())
	fmt.Fprintf(w, "Author: %s\n", psid.Composer())
	fmt.Fprintf(w, "Copyright: %s\n", psid.Copyright())
	fmt.Fprintf(w, "Flags: 0x%X\n", psid.Flags)
}

// LoadHeader reads the header and leaves r at the first data byte. When
// the header load address is 0 it is taken from the first two data bytes.
func (psid *PSIDHeader) LoadHeader(r io.ReadSeeker) error {
	buf := make([]byte, headerSizeV2)
	if _, err := io.ReadFull(r, buf[:headerSizeV1]); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	magic := binary.BigEndian.Uint32(buf)
	if magic != magicPSID && magic != magicRSID {
		return ErrBadMagic
	}

	if version := binary.BigEndian.Uint16(buf[4:]); version >= 2 {
		if _, err := io.ReadFull(r, buf[headerSizeV1:]); err != nil {
			return fmt.Errorf("reading header: %w", err)
		}
	}
	if err := binary.Read(bytes.NewReader(buf), binary.BigEndian, psid); err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	if _, err := r.Seek(int64(psid.DataOffset), io.SeekStart); err != nil {
		return fmt.Errorf("seeking to data: %w", err)
	}
	if psid.LoadAddress == 0 {
		var addr uint16
		if err := binary.Read(r, binary.LittleEndian, &addr); err != nil {
			return fmt.Errorf("reading load address: %w", err)
		}
		psid.LoadAddress = addr
	}

	return nil
}

// LoadData copies the rest of r into mem at the load address.
func (psid *PSIDHeader) LoadData(mem Memory, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading data: %w", err)
	}

	if int(psid.LoadAddress)+len(data) > 0x10000 {
		return ErrTooLarge
	}

	mem.StoreBytes(psid.LoadAddress, data)
	return nil
}

// CIATimer reports whether subtune song (0 based) is played from the CIA
// timer at 60 Hz rather than from the 50 Hz v-blank interrupt.
func (psid *PSIDHeader) CIATimer(song int) bool {
	return song < 32 && psid.Speed&(1<<song) != 0
}

// Clock returns the video standard from bits 2-3 of the flags.
func (psid *PSIDHeader) Clock() Clock {
	return Clock(psid.Flags >> 2 & 0x3)
}

// Model returns the chip model from bits 4-5 of the flags.
func (psid *PSIDHeader) Model() SIDModel {
	return SIDModel(psid.Flags >> 4 & 0x3)
}

func (psid *PSIDHeader) Title() string { return cString(psid.Name[:]) }
func (psid *PSIDHeader) Composer() string { return cString(psid.Author[:]) }
func (psid *PSIDHeader) Copyright() string { return cString(psid.Released[:]) }

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
