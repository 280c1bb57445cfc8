package resid

// WaveformGenerator is the oscillator of one SID voice: a 24 bit phase
// accumulator, a 23 bit noise shift register and the waveform selector.
type WaveformGenerator struct {
	syncDest    *WaveformGenerator
	syncSource  *WaveformGenerator
	msbRising   bool
	accumulator reg24
	shiftReg    reg24
	freq        reg16
	pw          reg12
	waveform    reg8
	test        reg8
	ringMod     reg8
	sync        reg8

	model Model
}

// ----------------------------------------------------------------------------
// Constructor.
// ----------------------------------------------------------------------------
func NewWaveformGenerator() *WaveformGenerator {
	w := &WaveformGenerator{}
	w.syncSource = w
	w.syncDest = w
	w.SetModel(MOS6581)
	w.Reset()
	return w
}

// ----------------------------------------------------------------------------
// SID reset.
// ----------------------------------------------------------------------------
func (w *WaveformGenerator) Reset() {
	w.accumulator = 0
	w.shiftReg = 0x7ffff8
	w.freq = 0
	w.pw = 0
	w.waveform = 0

	w.test = 0
	w.ringMod = 0
	w.sync = 0

	w.msbRising = false
}

// SetSyncSource makes source the oscillator that hard syncs and ring
// modulates w.
func (w *WaveformGenerator) SetSyncSource(source *WaveformGenerator) {
	w.syncSource = source
	source.syncDest = w
}

func (w *WaveformGenerator) SetModel(model Model) {
	w.model = model
}

// ----------------------------------------------------------------------------
// SID clocking - deltaT cycles.
// ----------------------------------------------------------------------------
func (w *WaveformGenerator) Clock(deltaT CycleCount) {
	// No operation if test bit is set.
	if w.test != 0 {
		return
	}

	accumulatorPrev := w.accumulator

	deltaAccumulator := reg24(deltaT) * reg24(w.freq)
	w.accumulator += deltaAccumulator
	w.accumulator &= 0xffffff

	// Check whether the MSB is set high. This is used for synchronization.
	w.msbRising = (accumulatorPrev&0x800000 == 0) && (w.accumulator&0x800000 != 0)

	// Shift noise register once for each time accumulator bit 19 is set high.
	// Bit 19 is set high each time 2^20 (0x100000) is added to the accumulator.
	shiftPeriod := reg24(0x100000)

	for deltaAccumulator > 0 {
		if deltaAccumulator < shiftPeriod {
			shiftPeriod = deltaAccumulator
			// Determine whether bit 19 is set on the last period.
			if shiftPeriod <= 0x080000 {
				// Check for flip from 0 to 1.
				if ((w.accumulator-shiftPeriod)&0x080000 != 0) ||
					(w.accumulator&0x080000 == 0) {
					break
				}
			} else {
				// Check for flip from 0 (to 1 or via 1 to 0) or from 1 via 0 to 1.
				if ((w.accumulator-shiftPeriod)&0x080000 != 0) &&
					(w.accumulator&0x080000 == 0) {
					break
				}
			}
		}

		// NB! The shift is actually delayed 2 cycles, this is not modeled.
		bit0 := ((w.shiftReg >> 22) ^ (w.shiftReg >> 17)) & 0x1
		w.shiftReg <<= 1
		w.shiftReg &= 0x7fffff
		w.shiftReg |= bit0

		deltaAccumulator -= shiftPeriod
	}
}

// Synchronize resets the accumulator of the sync destination when this
// oscillator's MSB went high during the last Clock.
func (w *WaveformGenerator) Synchronize() {
	// A special case occurs when a sync source is synced itself on the same
	// cycle as when its MSB is set high. In this case the destination will
	// not be synced. This has been verified by sampling OSC3.
	if w.msbRising && (w.syncDest.sync != 0) && !((w.sync != 0) && w.syncSource.msbRising) {
		w.syncDest.accumulator = 0
	}
}

// Triangle:
// The upper 12 bits of the accumulator are used.
// The MSB is used to create the falling edge of the triangle by inverting
// the lower 11 bits. The MSB is thrown away and the lower 11 bits are
// left-shifted (half the resolution, full amplitude).
// Ring modulation substitutes the MSB with MSB EOR sync_source MSB.
func (w *WaveformGenerator) triangle() reg12 {
	msb := w.accumulator
	if w.ringMod != 0 {
		msb ^= w.syncSource.accumulator
	}

	if msb&0x800000 != 0 {
		return reg12(((^w.accumulator) >> 11) & 0xffe)
	}
	return reg12((w.accumulator >> 11) & 0xffe)
}

// Sawtooth:
// The output is identical to the upper 12 bits of the accumulator.
func (w *WaveformGenerator) sawtooth() reg12 {
	return reg12(w.accumulator >> 12)
}

// Pulse:
// The upper 12 bits of the accumulator are compared to the pulse width
// register; output is either all one or all zero bits. The test bit holds
// the output at 0xfff.
func (w *WaveformGenerator) pulse() reg12 {
	if (w.test != 0) || ((w.accumulator >> 12) >= reg24(w.pw)) {
		return 0xfff
	}
	return 0x000
}

// Noise:
// The noise output is taken from intermediate bits of the 23-bit shift
// register, left-shifted 4 times to a 12 bit value.
//
// Register bits:    22 20 16 13 11 7 4 2
// OSC3 bits  :       7  6  5  4  3 2 1 0
func (w *WaveformGenerator) noise() reg12 {
	res := ((w.shiftReg & 0x400000) >> 11) |
		((w.shiftReg & 0x100000) >> 10) |
		((w.shiftReg & 0x010000) >> 7) |
		((w.shiftReg & 0x002000) >> 5) |
		((w.shiftReg & 0x000800) >> 4) |
		((w.shiftReg & 0x000080) >> 1) |
		((w.shiftReg & 0x000010) << 1) |
		((w.shiftReg & 0x000004) << 2)

	return reg12(res)
}

// Output returns the 12 bit waveform selected by the control register.
//
// Combined waveforms short circuit the bits of each selected waveform, so a
// zero bit in one of them gives a zero output bit. The real chip also pulls
// neighbouring bits low; that is not modeled here, the combination is a
// plain AND. Combinations including noise output zero.
func (w *WaveformGenerator) Output() reg12 {
	if w.waveform == 0 {
		return 0
	}
	if w.waveform == 0x8 {
		return w.noise()
	}
	if w.waveform&0x8 != 0 {
		return 0
	}

	out := reg12(0xfff)
	if w.waveform&0x1 != 0 {
		out &= w.triangle()
	}
	if w.waveform&0x2 != 0 {
		out &= w.sawtooth()
	}
	if w.waveform&0x4 != 0 {
		out &= w.pulse()
	}
	return out
}

// ----------------------------------------------------------------------------
// Register functions.
// ----------------------------------------------------------------------------
func (w *WaveformGenerator) WriteFreqLo(freqLo reg8) {
	w.freq = (w.freq & 0xff00) | reg16(freqLo)
}

func (w *WaveformGenerator) WriteFreqHi(freqHi reg8) {
	w.freq = (reg16(freqHi) << 8) | (w.freq & 0x00ff)
}

func (w *WaveformGenerator) WritePwLo(pwLo reg8) {
	w.pw = (w.pw & 0xf00) | reg12(pwLo)
}

func (w *WaveformGenerator) WritePwHi(pwHi reg8) {
	w.pw = ((reg12(pwHi) << 8) & 0xf00) | (w.pw & 0x0ff)
}

func (w *WaveformGenerator) WriteControlReg(control reg8) {
	w.waveform = (control >> 4) & 0x0f
	w.ringMod = control & 0x04
	w.sync = control & 0x02

	testNext := control & 0x08

	// Test bit set: the accumulator and the shift register are cleared.
	// Test bit cleared: the accumulator starts counting and the shift
	// register is reset to 0x7ffff8.
	// NB! The shift register bits really fade to zero over $2000 - $4000
	// cycles. This is not modeled.
	if testNext != 0 {
		w.accumulator = 0
		w.shiftReg = 0
	} else if w.test != 0 {
		w.shiftReg = 0x7ffff8
	}

	w.test = testNext

	// The gate bit is handled by the EnvelopeGenerator.
}

func (w *WaveformGenerator) readOSC() reg8 {
	return reg8(w.Output() >> 4)
}
