package cpu

import "github.com/mochines/nescore/pkg/savestate"

// Save writes the CPU's architectural state in struct declaration order.
// dmaCycles is not part of it: it's a transient surcharge folded into the
// cycle count Step returns for the instruction currently in flight, not
// state that survives between instructions.
func (c *CPU) Save(w *savestate.Writer) {
	w.WriteU8(c.A)
	w.WriteU8(c.X)
	w.WriteU8(c.Y)
	w.WriteU8(c.S)
	w.WriteU8(c.P)
	w.WriteU16(c.PC)
	w.WriteU64(c.Cy)
}

// Load restores the CPU's architectural state. The Bus must already be set.
func (c *CPU) Load(r *savestate.Reader) error {
	c.A = r.ReadU8()
	c.X = r.ReadU8()
	c.Y = r.ReadU8()
	c.S = r.ReadU8()
	c.P = r.ReadU8()
	c.PC = r.ReadU16()
	c.Cy = r.ReadU64()
	return r.Err()
}
