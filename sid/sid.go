// Package resid emulates the MOS 6581/8580 SID sound chip at cycle level.
package resid

// Sid is one SID chip: three voices, the filter/mixer and the external
// output filter.
type Sid struct {
	voice       [3]*Voice
	filter      *SidFilter
	extfilter   *ExternalFilter
	potx        reg8
	poty        reg8
	busValue    reg8
	busValueTTL CycleCount
	clkFreq     float64
	extIn       soundSample
	extMuted    bool

	sampling        SamplingMethod
	cyclesPerSample CycleCount
	sampleOffset    CycleCount
	samplePrev      int16
}

func NewSID() *Sid {
	sid := &Sid{}
	for i := range sid.voice {
		sid.voice[i] = NewVoice()
	}

	sid.voice[0].SetSyncSource(sid.voice[2])
	sid.voice[1].SetSyncSource(sid.voice[0])
	sid.voice[2].SetSyncSource(sid.voice[1])

	sid.filter = NewSidFilter()
	sid.extfilter = NewExternalFilter()

	sid.SetSamplingParameters(985248, SAMPLE_FAST, 44100)
	return sid
}

func (s *Sid) Reset() {
	for _, v := range s.voice {
		v.Reset()
	}
	s.filter.Reset()
	s.extfilter.Reset()

	s.busValue = 0
	s.busValueTTL = 0
}

// SetChipModel switches all parts of the chip to model.
func (s *Sid) SetChipModel(model Model) {
	for _, v := range s.voice {
		v.SetModel(model)
	}
	s.filter.SetModel(model)
	s.extfilter.SetModel(model)
}

// SetVoiceMask enables voice 1-3 with bits 0-2 and the external input with
// bit 3. A cleared bit mutes the source.
func (s *Sid) SetVoiceMask(mask uint8) {
	for i, v := range s.voice {
		v.Mute(mask&(1<<i) == 0)
	}
	s.extMuted = mask&0x08 == 0
}

// Mute silences one voice. Channels above 2 are ignored.
func (s *Sid) Mute(channel uint8, enable bool) {
	if channel >= 3 {
		return
	}
	s.voice[channel].Mute(enable)
}

func (s *Sid) EnableFilter(enable bool) {
	s.filter.EnableFilter(enable)
}

func (s *Sid) AdjustFilterBias(bias float64) {
	s.filter.AdjustFilterBias(bias)
}

func (s *Sid) EnableExternalFilter(enable bool) {
	s.extfilter.EnableFilter(enable)
}

// Input feeds a 16 bit sample to the EXT IN pin. It is scaled to the level
// of three voices, which is what the MOS8580 digi boost relies on.
func (s *Sid) Input(sample int16) {
	s.extIn = (soundSample(sample) << 4) * 3
}

// Output returns the current output level as a 16 bit sample.
func (s *Sid) Output() int16 {
	const rng = 1 << 16
	const half = rng >> 1
	sample := int(s.extfilter.Output()) / ((4095 * 255 >> 7) * 3 * 15 * 2 / rng)
	if sample >= half {
		return half - 1
	}
	if sample < -half {
		return -half
	}
	return int16(sample)
}

// ----------------------------------------------------------------------------
// Read registers.
//
// Reading a write only register returns the last byte written to any SID
// register for BUS_VALUE_TTL cycles. The bit fading of the real chip is not
// modeled.
// ----------------------------------------------------------------------------
func (s *Sid) Read(offset uint8) uint8 {
	switch offset {
	case REG_POTX:
		return uint8(s.potx)
	case REG_POTY:
		return uint8(s.poty)
	case REG_OSC3:
		return uint8(s.voice[2].Wave.readOSC())
	case REG_ENV3:
		return uint8(s.voice[2].Envelope.readENV())
	default:
		return uint8(s.busValue)
	}
}

// ----------------------------------------------------------------------------
// Write registers.
// ----------------------------------------------------------------------------
func (s *Sid) Write(offset uint8, val uint8) {
	value := reg8(val)
	s.busValue = value
	s.busValueTTL = BUS_VALUE_TTL

	if offset < 3*VOICE_REGS {
		v := s.voice[offset/VOICE_REGS]
		switch offset % VOICE_REGS {
		case 0:
			v.Wave.WriteFreqLo(value)
		case 1:
			v.Wave.WriteFreqHi(value)
		case 2:
			v.Wave.WritePwLo(value)
		case 3:
			v.Wave.WritePwHi(value)
		case 4:
			v.WriteControlReg(value)
		case 5:
			v.Envelope.WriteAttackDecay(value)
		case 6:
			v.Envelope.WriteSustainRelease(value)
		}
		return
	}

	switch offset {
	case REG_FILTER_FC_LO:
		s.filter.WriteFcLo(value)
	case REG_FILTER_FC_HI:
		s.filter.WriteFcHi(value)
	case REG_FILTER_RES:
		s.filter.WriteResFilt(value)
	case REG_FILTER_MODE:
		s.filter.WriteModeVol(value)
	}
}

// SetSamplingParameters sets the chip clock and output sample rate used by
// ClockSamples. It returns false when the parameters are out of range.
func (s *Sid) SetSamplingParameters(clockFreq float64, method SamplingMethod, sampleFreq float64) bool {
	if clockFreq <= 0 || sampleFreq <= 0 {
		return false
	}

	// The pass band limit is 0.9*sampleFreq/2 for sample frequencies below
	// ~44.1kHz, and 20kHz for higher sample frequencies.
	passFreq := 20000.0
	if 2.0*passFreq/sampleFreq >= 0.9 {
		passFreq = 0.9 * sampleFreq / 2.0
	}

	s.extfilter.SetSamplingParameter(passFreq)
	s.clkFreq = clockFreq
	s.sampling = method

	s.cyclesPerSample = CycleCount(clockFreq/sampleFreq*(1<<FIXP_SHIFT) + 0.5)

	s.sampleOffset = 0
	s.samplePrev = 0

	return true
}

// ----------------------------------------------------------------------------
// SID clocking - deltaT cycles.
// ----------------------------------------------------------------------------
func (s *Sid) Clock(deltaT CycleCount) {
	if deltaT <= 0 {
		return
	}

	// Age bus value.
	s.busValueTTL -= deltaT
	if s.busValueTTL <= 0 {
		s.busValue = 0
		s.busValueTTL = 0
	}

	for _, v := range s.voice {
		v.Envelope.Clock(deltaT)
	}

	// Clock and synchronize oscillators. Hard sync needs a clock edge on
	// every MSB toggle of a sync source, so step to the nearest one.
	deltaTOsc := deltaT
	for deltaTOsc > 0 {
		deltaTMin := deltaTOsc

		for _, v := range s.voice {
			wave := v.Wave
			if wave.syncDest.sync == 0 || wave.freq == 0 {
				continue
			}

			var deltaAccumulator reg24
			if wave.accumulator&0x800000 != 0 {
				deltaAccumulator = 0x1000000 - wave.accumulator
			} else {
				deltaAccumulator = 0x800000 - wave.accumulator
			}

			deltaTNext := CycleCount(deltaAccumulator / reg24(wave.freq))
			if deltaAccumulator%reg24(wave.freq) != 0 {
				deltaTNext++
			}
			deltaTMin = min(deltaTMin, deltaTNext)
		}

		for _, v := range s.voice {
			v.Wave.Clock(deltaTMin)
		}
		for _, v := range s.voice {
			v.Wave.Synchronize()
		}

		deltaTOsc -= deltaTMin
	}

	extIn := s.extIn
	if s.extMuted {
		extIn = 0
	}
	s.filter.Clock(deltaT, s.voice[0].Output(), s.voice[1].Output(), s.voice[2].Output(), extIn)
	s.extfilter.Clock(deltaT, s.filter.Output())
}

// ClockSamples runs the chip for up to *deltaT cycles and writes one sample
// to buf every cycles-per-sample. It returns the number of samples written;
// *deltaT is left with the cycles not yet run, which is zero unless buf
// filled up first.
func (s *Sid) ClockSamples(deltaT *CycleCount, buf []int16) int {
	if s.sampling == SAMPLE_FAST {
		return s.clockFast(deltaT, buf)
	}
	return s.clockInterpolate(deltaT, buf)
}

// clockFast takes the output at the cycle nearest to each sample point.
func (s *Sid) clockFast(deltaT *CycleCount, buf []int16) int {
	n := 0
	for {
		nextSampleOffset := s.sampleOffset + s.cyclesPerSample + (1 << (FIXP_SHIFT - 1))
		deltaTSample := nextSampleOffset >> FIXP_SHIFT
		if deltaTSample > *deltaT {
			break
		}
		if n >= len(buf) {
			return n
		}
		s.Clock(deltaTSample)
		*deltaT -= deltaTSample
		s.sampleOffset = (nextSampleOffset & FIXP_MASK) - (1 << (FIXP_SHIFT - 1))
		buf[n] = s.Output()
		n++
	}

	s.Clock(*deltaT)
	s.sampleOffset -= *deltaT << FIXP_SHIFT
	*deltaT = 0
	return n
}

// clockInterpolate interpolates linearly between the outputs of the two
// cycles around each sample point.
func (s *Sid) clockInterpolate(deltaT *CycleCount, buf []int16) int {
	n := 0
	for {
		nextSampleOffset := s.sampleOffset + s.cyclesPerSample
		deltaTSample := nextSampleOffset >> FIXP_SHIFT
		if deltaTSample > *deltaT {
			break
		}
		if n >= len(buf) {
			return n
		}
		s.clockCycles(deltaTSample)
		*deltaT -= deltaTSample
		s.sampleOffset = nextSampleOffset & FIXP_MASK

		now := s.Output()
		buf[n] = s.samplePrev + int16(int(s.sampleOffset)*(int(now)-int(s.samplePrev))>>FIXP_SHIFT)
		s.samplePrev = now
		n++
	}

	s.clockCycles(*deltaT)
	s.sampleOffset -= *deltaT << FIXP_SHIFT
	*deltaT = 0
	return n
}

// clockCycles runs n single cycles, latching the output before the last
// one into samplePrev.
func (s *Sid) clockCycles(n CycleCount) {
	if n <= 0 {
		return
	}
	s.Clock(n - 1)
	s.samplePrev = s.Output()
	s.Clock(1)
}
