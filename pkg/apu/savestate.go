package apu

import "github.com/mochines/nescore/pkg/savestate"

// Sample buffers are not part of the saved state: they're transient audio
// generation scratch space, refilled from the channel registers on the
// next tick, not architectural state a game depends on.

func saveEnvelope(w *savestate.Writer, e *EnvelopeGenerator) {
	w.WriteBool(e.Start)
	w.WriteBool(e.Loop)
	w.WriteBool(e.Constant)
	w.WriteU8(e.Volume)
	w.WriteU8(e.Counter)
	w.WriteU8(e.Divider)
}

func loadEnvelope(r *savestate.Reader, e *EnvelopeGenerator) {
	e.Start = r.ReadBool()
	e.Loop = r.ReadBool()
	e.Constant = r.ReadBool()
	e.Volume = r.ReadU8()
	e.Counter = r.ReadU8()
	e.Divider = r.ReadU8()
}

func saveLength(w *savestate.Writer, l *LengthCounter) {
	w.WriteBool(l.Enabled)
	w.WriteU8(l.Value)
	w.WriteBool(l.Halt)
}

func loadLength(r *savestate.Reader, l *LengthCounter) {
	l.Enabled = r.ReadBool()
	l.Value = r.ReadU8()
	l.Halt = r.ReadBool()
}

func saveSweep(w *savestate.Writer, s *SweepUnit) {
	w.WriteBool(s.Enabled)
	w.WriteU8(s.Period)
	w.WriteBool(s.Negate)
	w.WriteU8(s.Shift)
	w.WriteBool(s.Reload)
	w.WriteU8(s.Counter)
}

func loadSweep(r *savestate.Reader, s *SweepUnit) {
	s.Enabled = r.ReadBool()
	s.Period = r.ReadU8()
	s.Negate = r.ReadBool()
	s.Shift = r.ReadU8()
	s.Reload = r.ReadBool()
	s.Counter = r.ReadU8()
}

func savePulse(w *savestate.Writer, p *PulseChannel) {
	w.WriteBool(p.Enabled)
	w.WriteU8(p.DutyCycle)
	w.WriteU8(p.Volume)
	saveSweep(w, &p.Sweep)
	saveLength(w, &p.Length)
	saveEnvelope(w, &p.Envelope)
	w.WriteU16(uint16(p.Timer))
	w.WriteU16(p.TimerValue)
	w.WriteU8(p.Sequence)
}

func loadPulse(r *savestate.Reader, p *PulseChannel) {
	p.Enabled = r.ReadBool()
	p.DutyCycle = r.ReadU8()
	p.Volume = r.ReadU8()
	loadSweep(r, &p.Sweep)
	loadLength(r, &p.Length)
	loadEnvelope(r, &p.Envelope)
	p.Timer = uint32(r.ReadU16())
	p.TimerValue = r.ReadU16()
	p.Sequence = r.ReadU8()
}

func saveTriangle(w *savestate.Writer, t *TriangleChannel) {
	w.WriteBool(t.Enabled)
	w.WriteU8(t.LinearCounter)
	w.WriteU8(t.LinearReload)
	w.WriteBool(t.LinearControl)
	saveLength(w, &t.Length)
	w.WriteU16(uint16(t.Timer))
	w.WriteU16(t.TimerValue)
	w.WriteU8(t.Sequence)
}

func loadTriangle(r *savestate.Reader, t *TriangleChannel) {
	t.Enabled = r.ReadBool()
	t.LinearCounter = r.ReadU8()
	t.LinearReload = r.ReadU8()
	t.LinearControl = r.ReadBool()
	loadLength(r, &t.Length)
	t.Timer = uint32(r.ReadU16())
	t.TimerValue = r.ReadU16()
	t.Sequence = r.ReadU8()
}

func saveNoise(w *savestate.Writer, n *NoiseChannel) {
	w.WriteBool(n.Enabled)
	w.WriteU8(n.Volume)
	saveLength(w, &n.Length)
	saveEnvelope(w, &n.Envelope)
	w.WriteU16(uint16(n.Timer))
	w.WriteU16(n.TimerValue)
	w.WriteU16(n.ShiftReg)
	w.WriteBool(n.Mode)
}

func loadNoise(r *savestate.Reader, n *NoiseChannel) {
	n.Enabled = r.ReadBool()
	n.Volume = r.ReadU8()
	loadLength(r, &n.Length)
	loadEnvelope(r, &n.Envelope)
	n.Timer = uint32(r.ReadU16())
	n.TimerValue = r.ReadU16()
	n.ShiftReg = r.ReadU16()
	n.Mode = r.ReadBool()
}

func saveDMC(w *savestate.Writer, d *DMCChannel) {
	w.WriteBool(d.Enabled)
	w.WriteBool(d.IRQEnabled)
	w.WriteBool(d.Loop)
	w.WriteU8(d.Rate)
	w.WriteU8(d.LoadCounter)
	w.WriteU16(d.SampleAddress)
	w.WriteU16(d.SampleLength)
	w.WriteU16(d.CurrentLength)
}

func loadDMC(r *savestate.Reader, d *DMCChannel) {
	d.Enabled = r.ReadBool()
	d.IRQEnabled = r.ReadBool()
	d.Loop = r.ReadBool()
	d.Rate = r.ReadU8()
	d.LoadCounter = r.ReadU8()
	d.SampleAddress = r.ReadU16()
	d.SampleLength = r.ReadU16()
	d.CurrentLength = r.ReadU16()
}

// Save writes the register state of all five channels, then the cycle
// count and the tick-sequencer index. The per-channel sample buffers are
// scratch space regenerated from this state on the next tick and are not
// saved.
func (a *APU) Save(w *savestate.Writer) {
	savePulse(w, &a.Pulse1)
	savePulse(w, &a.Pulse2)
	saveTriangle(w, &a.Triangle)
	saveNoise(w, &a.Noise)
	saveDMC(w, &a.DMC)
	w.WriteU64(a.Cy)
	w.WriteU64(uint64(a.tickIndex))
}

// Load restores the APU's register state and resets the sample buffers,
// since their contents are not part of the saved stream.
func (a *APU) Load(r *savestate.Reader) error {
	loadPulse(r, &a.Pulse1)
	loadPulse(r, &a.Pulse2)
	loadTriangle(r, &a.Triangle)
	loadNoise(r, &a.Noise)
	loadDMC(r, &a.DMC)
	a.Cy = r.ReadU64()
	a.tickIndex = int(r.ReadU64())
	a.Pulse1Buf.reset()
	a.Pulse2Buf.reset()
	a.TriangleBuf.reset()
	a.NoiseBuf.reset()
	return r.Err()
}
