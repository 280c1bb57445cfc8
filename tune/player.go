// Package tune runs the init and play routines of a PSID tune on an
// emulated 6502 and hands the SID writes they make to a register writer.
package tune

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beevik/go6502/cpu"

	"sidofon/app/psid"
	"sidofon/app/regs"
	"sidofon/app/sidofon"
)

const (
	sidBase = 0xd400
	sidTop  = 0xd418

	// maxInstructions bounds a single run of init or play.
	maxInstructions = 0xffff

	// CIA 1 timer A latch
	ciaTimerLo = 0xdc04
	ciaTimerHi = 0xdc05

	// ciaDefaultHz is the play rate of a CIA timed tune that leaves the
	// timer at 0, the KERNAL's 60 Hz.
	ciaDefaultHz = 60
)

var ErrNotLoaded = errors.New("no tune loaded")

type write struct {
	offset, value uint8
}

// Player owns the C64 memory and CPU of one tune. It implements the
// sidofon.Sequencer interface.
type Player struct {
	mem    *Memory
	cpu    *cpu.CPU
	header *psid.PSIDHeader
	song   int

	loaded      bool
	initialized bool

	out     regs.Writer
	pending []write
}

func NewPlayer() *Player {
	p := &Player{}
	p.mem = NewMemory(p)
	p.cpu = cpu.NewCPU(cpu.NMOS, p.mem)
	return p
}

// Load reads a PSID or RSID file into a cleared memory.
func (p *Player) Load(r io.ReadSeeker) error {
	h := psid.NewPSID()
	if err := h.LoadHeader(r); err != nil {
		return fmt.Errorf("loading tune: %w", err)
	}

	p.mem.Clear()
	if err := h.LoadData(p.mem, r); err != nil {
		return fmt.Errorf("loading tune: %w", err)
	}

	p.header = h
	p.song = int(h.StartSong) - 1
	p.loaded = true
	p.initialized = false
	return nil
}

// Header returns the header of the loaded tune, or nil.
func (p *Player) Header() *psid.PSIDHeader { return p.header }

// Song returns the current subtune, 0 based.
func (p *Player) Song() int { return p.song }

// NTSC reports whether the tune was written for an NTSC machine. Tunes
// marked for either standard, or not marked, play on PAL.
func (p *Player) NTSC() bool {
	return p.loaded && p.header.Clock() == psid.ClockNTSC
}

// CIATimer reports whether the current subtune's play routine runs from
// the CIA timer rather than the v-sync.
func (p *Player) CIATimer() bool {
	return p.loaded && p.header.CIATimer(p.song)
}

// PlayHz returns how often the play routine of a CIA timed subtune is
// called, for a CPU clocked at clockHz. The rate follows the timer latch
// the tune programmed, so it may change after any Update. It returns 0
// when the subtune follows the v-sync.
func (p *Player) PlayHz(clockHz float32) float32 {
	if !p.initialized || !p.CIATimer() {
		return 0
	}
	period := uint16(p.mem.LoadByte(ciaTimerHi))<<8 | uint16(p.mem.LoadByte(ciaTimerLo))
	if period == 0 {
		return ciaDefaultHz
	}
	return clockHz / float32(period)
}

// Configure sets m up to play the tune: the chip model and video standard
// from the header, one register update per v-sync, and the player as the
// register source. A CIA timed subtune still needs its ticks on the
// module's CLOCK input at PlayHz.
func (p *Player) Configure(m *sidofon.Module) {
	sidType := sidofon.MOS6581
	if p.loaded && p.header.Model() == psid.SID8580 {
		sidType = sidofon.MOS8580
	}
	cpuType := sidofon.PAL
	if p.NTSC() {
		cpuType = sidofon.NTSC
	}

	m.SetSIDType(sidType)
	m.SetCPUType(cpuType)
	m.SetVSyncOversample(1)
	m.SetSequencer(p)
}

// Init runs the init routine for subtune song (0 based). A song past the
// last one selects the first. The SID writes of the init routine are held
// back and delivered ahead of the first Update.
func (p *Player) Init(song int) error {
	if !p.loaded {
		return ErrNotLoaded
	}
	if song < 0 || song >= int(p.header.Songs) {
		song = 0
	}
	p.song = song
	p.pending = p.pending[:0]

	// BASIC, KERNAL and I/O visible
	p.mem.StoreByte(0x01, 0x37)

	p.initCPU(p.header.InitAddress, uint8(song))
	n := 0
	for !p.runCPU() {
		p.stepRaster()
		n++
		if n > maxInstructions {
			log.Println("Warning: CPU executed a high number of instructions in init, breaking")
			break
		}
	}

	if p.header.PlayAddress == 0 {
		p.header.PlayAddress = p.irqVector()
		log.Printf("Warning: SID has play address 0, using interrupt vector $%04X", p.header.PlayAddress)
	}

	p.initialized = true
	return nil
}

// Update runs the play routine once and writes every SID register store it
// makes to w.
func (p *Player) Update(w regs.Writer) {
	for _, wr := range p.pending {
		w.Write(wr.offset, wr.value)
	}
	p.pending = p.pending[:0]

	if !p.initialized || p.header.PlayAddress == 0 {
		return
	}

	p.out = w
	defer func() { p.out = nil }()

	p.initCPU(p.header.PlayAddress, 0)
	n := 0
	for !p.runCPU() {
		n++
		if n > maxInstructions {
			log.Println("Warning: CPU executed a high number of instructions in play, breaking")
			break
		}
		if p.kernalExit() {
			break
		}
	}
}

// OnWrite forwards stores to the SID registers.
func (p *Player) OnWrite(addr uint16, v byte) {
	if addr < sidBase || addr > sidTop {
		return
	}
	offset := uint8(addr - sidBase)
	if p.out == nil {
		p.pending = append(p.pending, write{offset, v})
		return
	}
	p.out.Write(offset, v)
}

func (p *Player) initCPU(pc uint16, a uint8) {
	p.cpu.SetPC(pc)
	p.cpu.Reg.A = a
	p.cpu.Reg.X = 0
	p.cpu.Reg.Y = 0
}

// runCPU executes one instruction and reports whether the routine is done:
// the next instruction is a BRK, or an RTI or RTS on an empty stack.
func (p *Player) runCPU() bool {
	p.cpu.Step()

	inst := p.cpu.InstSet.Lookup(p.mem.LoadByte(p.cpu.Reg.PC))
	switch inst.Opcode {
	case 0x00:
		return true
	case 0x40, 0x60:
		return p.cpu.Reg.SP == 0xff
	}
	return false
}

// stepRaster advances the VIC raster line so init routines that wait for
// it make progress.
func (p *Player) stepRaster() {
	line := p.mem.LoadByte(0xd012) + 1
	p.mem.StoreByte(0xd012, line)

	ctrl := p.mem.LoadByte(0xd011)
	if line == 0 || (ctrl&0x80 != 0 && line >= 0x38) {
		p.mem.StoreByte(0xd011, ctrl^0x80)
		p.mem.StoreByte(0xd012, 0)
	}
}

func (p *Player) kernalBanked() bool {
	return p.mem.LoadByte(0x01)&0x07 != 0x05
}

// kernalExit reports a jump into the KERNAL interrupt handler exit.
func (p *Player) kernalExit() bool {
	pc := p.cpu.Reg.PC
	return p.kernalBanked() && (pc == 0xea31 || pc == 0xea81)
}

func (p *Player) irqVector() uint16 {
	if p.kernalBanked() {
		return p.mem.LoadAddress(0x0314)
	}
	return p.mem.LoadAddress(0xfffe)
}
