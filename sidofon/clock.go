package sidofon

// Clock input thresholds in volts.
const (
	clockLow  = 0
	clockHigh = 1
)

// updateClock reports whether this frame is a control tick.
//
// A connected CLOCK input ticks on its rising edges. Otherwise an
// oversample factor of 0 ticks every frame, and any other factor ticks
// that many times per v-sync. The v-sync counter keeps its remainder when
// it fires, so the tick phase does not drift.
func (m *Module) updateClock() bool {
	if in := &m.Inputs[ClockInput]; in.Connected {
		return m.clkIn.Process(in.Voltage, clockLow, clockHigh)
	}
	if m.vsyncOversample == 0 {
		return true
	}

	tick := false
	period := m.vsyncPeriod / float32(m.vsyncOversample)
	if m.vsyncCounter > period {
		m.vsyncCounter -= period
		tick = true
	}
	m.vsyncCounter++
	return tick
}
