package resid

// ExternalFilter models the RC filters between the SID output pin and the
// audio jack: a low-pass at the pass band edge and a 16 Hz high-pass that
// removes the DC level.
type ExternalFilter struct {
	enabled bool
	mixerDC soundSample

	vlp, vhp, vo soundSample

	w0lp, w0hp soundSample
}

func NewExternalFilter() *ExternalFilter {
	e := &ExternalFilter{}
	e.Reset()
	e.EnableFilter(true)
	e.SetSamplingParameter(15915.6)
	e.SetModel(MOS6581)
	return e
}

func (e *ExternalFilter) Reset() {
	e.vlp, e.vhp, e.vo = 0, 0, 0
}

func (e *ExternalFilter) EnableFilter(enable bool) {
	e.enabled = enable
}

// SetSamplingParameter sets the low-pass cutoff to passFreq Hz, capped at
// 16 kHz. Both cutoffs are scaled by 1.048576 so that dividing by 1 MHz
// becomes a 20 bit shift.
func (e *ExternalFilter) SetSamplingParameter(passFreq float64) {
	e.w0hp = 105
	e.w0lp = min(soundSample(passFreq*(2.0*pi*1.048576)), 104858)
}

func (e *ExternalFilter) SetModel(model Model) {
	if model == MOS6581 {
		// Maximum mixer DC level, removed when the filter is bypassed:
		// ((wave DC + voice DC) * voices + mixer DC) * volume.
		e.mixerDC = ((((0x800-0x380)+0x800)*0xff*3 - 0xfff*0xff/18) >> 7) * 0x0f
	} else {
		e.mixerDC = 0
	}
}

func (e *ExternalFilter) Clock(deltaT CycleCount, vi soundSample) {
	if !e.enabled {
		e.vlp, e.vhp = 0, 0
		e.vo = vi - e.mixerDC
		return
	}

	deltaTFlt := CycleCount(8)

	for deltaT != 0 {
		if deltaT < deltaTFlt {
			deltaTFlt = deltaT
		}

		// Vo  = Vlp - Vhp;
		// Vlp = Vlp + w0lp*(Vi - Vlp)*deltaT;
		// Vhp = Vhp + w0hp*(Vlp - Vhp)*deltaT;
		dVlp := (e.w0lp * soundSample(deltaTFlt) >> 8) * (vi - e.vlp) >> 12
		dVhp := e.w0hp * soundSample(deltaTFlt) * (e.vlp - e.vhp) >> 20
		e.vo = e.vlp - e.vhp
		e.vlp += dVlp
		e.vhp += dVhp

		deltaT -= deltaTFlt
	}
}

func (e *ExternalFilter) Output() soundSample {
	return e.vo
}
