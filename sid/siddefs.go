package resid

// Model selects the SID chip: 6581 or 8580
type Model byte

// SamplingMethod selects how ClockSamples derives output samples from the
// emulated cycles.
type SamplingMethod byte

type reg4 uint8
type reg8 uint8
type reg12 uint16
type reg16 uint16
type reg24 uint32
type CycleCount int
type soundSample int

const (
	// 6581 SID
	MOS6581 Model = iota

	// 8580 SID
	MOS8580
)

const (
	// Fast
	SAMPLE_FAST SamplingMethod = iota

	// Interpolate
	SAMPLE_INTERPOLATE

	// Resample. Clocked like SAMPLE_INTERPOLATE.
	SAMPLE_RESAMPLE

	// Resample, reduced memory variant. Clocked like SAMPLE_INTERPOLATE.
	SAMPLE_RESAMPLE_FASTMEM
)

// Register offsets.
const (
	REG_FILTER_FC_LO = 0x15
	REG_FILTER_FC_HI = 0x16
	REG_FILTER_RES   = 0x17
	REG_FILTER_MODE  = 0x18
	REG_POTX         = 0x19
	REG_POTY         = 0x1a
	REG_OSC3         = 0x1b
	REG_ENV3         = 0x1c
	NUM_REGS         = 0x20
	VOICE_REGS       = 7
	FIXP_SHIFT       = 16
	FIXP_MASK        = 0xffff
	BUS_VALUE_TTL    = 0x2000
)

// String returns the chip part number.
func (m Model) String() string {
	if m == MOS6581 {
		return "6581"
	}
	return "8580"
}
