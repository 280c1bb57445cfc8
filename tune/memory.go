package tune

// WriteNotifier is told about every byte the CPU stores.
type WriteNotifier interface {
	OnWrite(addr uint16, v byte)
}

// Memory is the flat 64K address space of the C64 as seen by the tune. It
// implements cpu.Memory and psid.Memory.
type Memory struct {
	b      [64 * 1024]byte
	notify WriteNotifier
}

func NewMemory(notify WriteNotifier) *Memory {
	return &Memory{notify: notify}
}

// Clear zeroes the whole address space.
func (m *Memory) Clear() {
	m.b = [64 * 1024]byte{}
}

func (m *Memory) LoadByte(addr uint16) byte {
	return m.b[addr]
}

// LoadBytes fills b from addr. Bytes past the top of memory read as 0.
func (m *Memory) LoadBytes(addr uint16, b []byte) {
	n := copy(b, m.b[addr:])
	clear(b[n:])
}

// LoadAddress reads a little endian word. Like the NMOS 6502, the high byte
// of a word starting at $xxFF comes from $xx00 of the same page.
func (m *Memory) LoadAddress(addr uint16) uint16 {
	hi := addr + 1
	if addr&0xff == 0xff {
		hi = addr &^ 0xff
	}
	return uint16(m.b[addr]) | uint16(m.b[hi])<<8
}

// StoreByte is the only store the notifier sees; it is what the CPU uses
// for every write instruction.
func (m *Memory) StoreByte(addr uint16, v byte) {
	m.b[addr] = v
	if m.notify != nil {
		m.notify.OnWrite(addr, v)
	}
}

// StoreBytes copies b to addr without notification. Bytes past the top of
// memory are dropped.
func (m *Memory) StoreBytes(addr uint16, b []byte) {
	copy(m.b[addr:], b)
}

func (m *Memory) StoreAddress(addr uint16, v uint16) {
	hi := addr + 1
	if addr&0xff == 0xff {
		hi = addr &^ 0xff
	}
	m.b[addr] = byte(v)
	m.b[hi] = byte(v >> 8)
}
