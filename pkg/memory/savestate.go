package memory

import "github.com/mochines/nescore/pkg/savestate"

// Save writes the bus's own state: the 2KB of work RAM. The PPU and APU
// save themselves; NES.Save sequences all three after the CPU.
func (m *Memory) Save(w *savestate.Writer) {
	w.WriteBytes(m.RAM[:])
}

// Load restores work RAM.
func (m *Memory) Load(r *savestate.Reader) error {
	r.ReadBytes(m.RAM[:])
	return r.Err()
}
