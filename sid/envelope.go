package resid

// State is the phase of an envelope generator.
type State int

const (
	Attack State = iota
	DecaySustain
	Release
)

// EnvelopeGenerator is the 8 bit ADSR amplitude counter of one voice.
type EnvelopeGenerator struct {
	rateCounter              reg16
	ratePeriod               reg16
	exponentialCounter       int
	exponentialCounterPeriod int
	envelopeCounter          int
	holdZero                 bool
	attack                   reg4
	decay                    reg4
	sustain                  reg4
	release                  reg4
	gate                     reg8
	state                    State
}

func NewEnvelopeGenerator() *EnvelopeGenerator {
	e := &EnvelopeGenerator{}
	e.Reset()
	return e
}

func (e *EnvelopeGenerator) Reset() {
	e.envelopeCounter = 0
	e.attack = 0
	e.decay = 0
	e.sustain = 0
	e.release = 0
	e.gate = 0
	e.rateCounter = 0
	e.exponentialCounter = 0
	e.exponentialCounterPeriod = 1
	e.state = Release
	e.ratePeriod = rateCounterPeriod[e.release]
	e.holdZero = true
}

// ----------------------------------------------------------------------------
// SID clocking - deltaT cycles.
// ----------------------------------------------------------------------------
func (e *EnvelopeGenerator) Clock(deltaT CycleCount) {
	// ADSR delay bug: if the rate period was lowered below the rate counter,
	// the counter runs on until it wraps at 0x8000 before the envelope steps.
	rateStep := int(e.ratePeriod) - int(e.rateCounter)
	if rateStep <= 0 {
		rateStep += 0x7fff
	}

	for deltaT > 0 {
		if deltaT < CycleCount(rateStep) {
			e.rateCounter += reg16(deltaT)
			if e.rateCounter&0x8000 != 0 {
				e.rateCounter++
				e.rateCounter &= 0x7fff
			}
			return
		}

		e.rateCounter = 0
		deltaT -= CycleCount(rateStep)
		rateStep = int(e.ratePeriod)

		// The first envelope step in the attack state also resets the
		// exponential counter.
		e.exponentialCounter++
		if e.state != Attack && e.exponentialCounter != e.exponentialCounterPeriod {
			continue
		}
		e.exponentialCounter = 0

		if e.holdZero {
			continue
		}
		e.step()
	}
}

// step moves the envelope counter one step in the current state.
func (e *EnvelopeGenerator) step() {
	switch e.state {
	case Attack:
		// The counter can wrap from 0xff to 0x00 when the state goes
		// release -> attack; it then freezes at zero.
		e.envelopeCounter = (e.envelopeCounter + 1) & 0xff
		if e.envelopeCounter == 0xff {
			e.state = DecaySustain
			e.ratePeriod = rateCounterPeriod[e.decay]
		}
	case DecaySustain:
		if e.envelopeCounter != int(sustainLevel[e.sustain]) {
			e.envelopeCounter--
		}
	case Release:
		e.envelopeCounter = (e.envelopeCounter - 1) & 0xff
	}

	// Piece-wise linear approximation of the exponential decay.
	switch e.envelopeCounter {
	case 0xff:
		e.exponentialCounterPeriod = 1
	case 0x5d:
		e.exponentialCounterPeriod = 2
	case 0x36:
		e.exponentialCounterPeriod = 4
	case 0x1a:
		e.exponentialCounterPeriod = 8
	case 0x0e:
		e.exponentialCounterPeriod = 16
	case 0x06:
		e.exponentialCounterPeriod = 30
	case 0x00:
		e.exponentialCounterPeriod = 1
		e.holdZero = true
	}
}

func (e *EnvelopeGenerator) Output() reg8 {
	return reg8(e.envelopeCounter)
}

// Cycles between envelope counter steps for each attack/decay/release
// setting, measured from ENV3 (datasheet rate * 1 MHz / 256, plus one).
var rateCounterPeriod = [16]reg16{
	9,     //   2ms
	32,    //   8ms
	63,    //  16ms
	95,    //  24ms
	149,   //  38ms
	220,   //  56ms
	267,   //  68ms
	313,   //  80ms
	392,   // 100ms
	977,   // 250ms
	1954,  // 500ms
	3126,  // 800ms
	3907,  //   1 s
	11720, //   3 s
	19532, //   5 s
	31251, //   8 s
}

// Both nibbles of the envelope counter are compared to the sustain value.
var sustainLevel = [16]reg8{
	0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	0x88, 0x99, 0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff,
}

// ----------------------------------------------------------------------------
// Register functions.
// ----------------------------------------------------------------------------
func (e *EnvelopeGenerator) WriteControlReg(control reg8) {
	gateNext := control & 0x01

	// The rate counter is never reset, thus there will be a delay before the
	// envelope counter starts counting up (attack) or down (release).
	switch {
	case e.gate == 0 && gateNext != 0:
		e.state = Attack
		e.ratePeriod = rateCounterPeriod[e.attack]
		e.holdZero = false
	case e.gate != 0 && gateNext == 0:
		e.state = Release
		e.ratePeriod = rateCounterPeriod[e.release]
	}

	e.gate = gateNext
}

func (e *EnvelopeGenerator) WriteAttackDecay(attackDecay reg8) {
	e.attack = reg4(attackDecay>>4) & 0x0f
	e.decay = reg4(attackDecay & 0x0f)

	switch e.state {
	case Attack:
		e.ratePeriod = rateCounterPeriod[e.attack]
	case DecaySustain:
		e.ratePeriod = rateCounterPeriod[e.decay]
	}
}

func (e *EnvelopeGenerator) WriteSustainRelease(sustainRelease reg8) {
	e.sustain = reg4(sustainRelease>>4) & 0x0f
	e.release = reg4(sustainRelease & 0x0f)
	if e.state == Release {
		e.ratePeriod = rateCounterPeriod[e.release]
	}
}

func (e *EnvelopeGenerator) readENV() reg8 {
	return e.Output()
}
