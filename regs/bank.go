// Package regs shadows the write-only register file of the SID chip.
//
// Each bank keeps the bytes last computed for a block of consecutive SID
// registers together with a dirty mask, so that only bytes which actually
// changed are written to the emulation engine when the bank is realized.
package regs

// Writer is the register port of a SID emulation engine.
type Writer interface {
	Write(offset uint8, value uint8)
}

// maxSlots is the size of the largest bank (a voice).
const maxSlots = 8

// Bank is a block of n consecutive shadow registers.
type Bank struct {
	regs  [maxSlots]uint8
	n     int
	dirty uint8
}

func newBank(n int) Bank {
	b := Bank{n: n}
	b.Reset()
	return b
}

// Reset zeroes all slots and marks every one of them dirty, so the next
// Realize overwrites whatever the engine holds.
func (b *Bank) Reset() {
	for i := range b.regs {
		b.regs[i] = 0
	}
	b.dirty = uint8(1<<b.n - 1)
}

// Len returns the number of registers in the bank.
func (b *Bank) Len() int {
	return b.n
}

// Dirty returns the dirty mask, one bit per slot.
func (b *Bank) Dirty() uint8 {
	return b.dirty
}

// Reg returns the shadow byte of a slot.
func (b *Bank) Reg(slot int) uint8 {
	return b.regs[slot]
}

// set stores a slot and marks it dirty if its value changed.
func (b *Bank) set(slot int, v uint8) {
	if b.regs[slot] != v {
		b.regs[slot] = v
		b.dirty |= 1 << slot
	}
}

// update applies mask/bits to a slot: bits under mask are replaced.
func (b *Bank) update(slot int, mask uint8, bits uint8) {
	b.set(slot, (b.regs[slot]&^mask)|(bits&mask))
}

// flag sets or clears the bits of mask in a slot.
func (b *Bank) flag(slot int, mask uint8, on bool) {
	if on {
		b.update(slot, mask, mask)
	} else {
		b.update(slot, mask, 0)
	}
}

// realize writes the dirty slots to w starting at engine address base
// and clears the mask.
func (b *Bank) realize(w Writer, base uint8) {
	if b.dirty == 0 {
		return
	}
	offset := base
	for i := 0; i < b.n; i++ {
		if b.dirty&(1<<i) != 0 {
			w.Write(offset, b.regs[i])
		}
		offset++
	}
	b.dirty = 0
}
