// Package apu implements the NES Audio Processing Unit: four channels (two
// pulse, triangle, noise), a 240 Hz tick-based frame sequencer, and a
// per-channel sample buffer feeding a linear resampler down to host rate.
package apu

import "sync"

// NES-rate constants. The APU internally generates audio at a fixed
// "NES sample rate" close to the CPU clock, buffers a fixed span of it,
// then resamples down to host rate once the buffer fills.
const (
	NESSampleRate   = 1789920
	HostSampleRate  = 44100
	TickFrequency   = 240
	SamplesPerTick  = NESSampleRate / TickFrequency // 7458
	ticksPerBuffer  = 24
	SampleBufferLen = SamplesPerTick * ticksPerBuffer // 178992
	ResampledLen    = SampleBufferLen * HostSampleRate / NESSampleRate // 4410
)

// tickCyclesEven/Odd alternate, so ticks land on average 7438.5 CPU cycles
// apart.
const (
	tickCyclesEven = 7438
	tickCyclesOdd  = 7439
)

// SampleBuffer accumulates raw NES-rate samples for one channel between
// resampling passes.
type SampleBuffer struct {
	Samples [SampleBufferLen]int16
	Offset  int
}

func (b *SampleBuffer) full() bool { return b.Offset >= SampleBufferLen }

func (b *SampleBuffer) reset() { b.Offset = 0 }

// OutputBuffer is the host-consumable resampled buffer. The APU producer and
// the platform's audio callback rendezvous on mu/cond: once a consumer has
// called Read, the producer waits until it has drained the buffer, refills
// it, then signals. Until the first Read there is no consumer to wait for,
// and publish overwrites the buffer without blocking.
type OutputBuffer struct {
	mu         sync.Mutex
	cond       *sync.Cond
	Samples    []int16
	PlayOffset int
	attached   bool // set by the first Read
}

// NewOutputBuffer allocates a host buffer of ResampledLen samples.
func NewOutputBuffer() *OutputBuffer {
	b := &OutputBuffer{Samples: make([]int16, ResampledLen)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// publish waits for an attached consumer to finish draining the previous
// buffer, then copies in a freshly resampled buffer and releases the consumer.
func (b *OutputBuffer) publish(samples []int16) {
	b.mu.Lock()
	for b.attached && b.PlayOffset < len(b.Samples) {
		b.cond.Wait()
	}
	copy(b.Samples, samples)
	b.PlayOffset = 0
	b.mu.Unlock()
	b.cond.Broadcast()
}

// Read drains up to len(dst) samples for the host audio callback, returning
// the number copied, and signals the producer that room is available.
func (b *OutputBuffer) Read(dst []int16) int {
	b.mu.Lock()
	b.attached = true
	n := copy(dst, b.Samples[b.PlayOffset:])
	b.PlayOffset += n
	b.mu.Unlock()
	b.cond.Broadcast()
	return n
}

// MemoryReader lets the (inert) DMC register writes be accepted without
// ever issuing a sample read; kept only so $4010-$4013 writes from a game
// don't hit an unmapped address.
type MemoryReader interface {
	Read(address uint16) uint8
}

// APU is the NES Audio Processing Unit.
type APU struct {
	Pulse1   PulseChannel
	Pulse2   PulseChannel
	Triangle TriangleChannel
	Noise    NoiseChannel
	DMC      DMCChannel // inert: DPCM sample playback is out of scope

	Pulse1Buf   SampleBuffer
	Pulse2Buf   SampleBuffer
	TriangleBuf SampleBuffer
	NoiseBuf    SampleBuffer

	tickIndex int
	Cy        uint64

	Output *OutputBuffer
	Memory MemoryReader
}

// PulseChannel is a pulse wave channel. Timer/Sequence double as the
// sample-rate waveform generator's wavelen_count/waveform_index.
type PulseChannel struct {
	Enabled    bool
	DutyCycle  uint8
	Volume     uint8
	Sweep      SweepUnit
	Length     LengthCounter
	Envelope   EnvelopeGenerator
	Timer      uint32
	TimerValue uint16
	Sequence   uint8
}

// TriangleChannel is the triangle wave channel.
type TriangleChannel struct {
	Enabled       bool
	LinearCounter uint8
	LinearReload  uint8
	LinearControl bool
	Length        LengthCounter
	Timer         uint32
	TimerValue    uint16
	Sequence      uint8
}

// NoiseChannel is the noise channel.
type NoiseChannel struct {
	Enabled    bool
	Volume     uint8
	Length     LengthCounter
	Envelope   EnvelopeGenerator
	Timer      uint32
	TimerValue uint16
	ShiftReg   uint16
	Mode       bool
}

// DMCChannel holds the raw register values a game may write; no DPCM
// playback is modeled.
type DMCChannel struct {
	Enabled       bool
	IRQEnabled    bool
	Loop          bool
	Rate          uint8
	LoadCounter   uint8
	SampleAddress uint16
	SampleLength  uint16
	CurrentLength uint16
}

type SweepUnit struct {
	Enabled bool
	Period  uint8
	Negate  bool
	Shift   uint8
	Reload  bool
	Counter uint8
}

type LengthCounter struct {
	Enabled bool
	Value   uint8
	Halt    bool
}

type EnvelopeGenerator struct {
	Start    bool
	Loop     bool
	Constant bool
	Volume   uint8
	Counter  uint8
	Divider  uint8
}

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// New creates an APU with its host output buffer allocated.
func New() *APU {
	a := &APU{Output: NewOutputBuffer()}
	a.initializeChannels()
	return a
}

func (a *APU) SetMemory(mem MemoryReader) { a.Memory = mem }

// Reset restores the APU to its power-on state.
func (a *APU) Reset() {
	a.Pulse1 = PulseChannel{}
	a.Pulse2 = PulseChannel{}
	a.Triangle = TriangleChannel{}
	a.Noise = NoiseChannel{}
	a.DMC = DMCChannel{}
	a.Pulse1Buf.reset()
	a.Pulse2Buf.reset()
	a.TriangleBuf.reset()
	a.NoiseBuf.reset()
	a.tickIndex = 0
	a.Cy = 0
	a.initializeChannels()
}

func (a *APU) initializeChannels() {
	a.Noise.ShiftReg = 1
	a.Pulse1.Envelope.Volume = 15
	a.Pulse2.Envelope.Volume = 15
	a.Noise.Envelope.Volume = 15
	a.Pulse1.Length.Enabled = true
	a.Pulse2.Length.Enabled = true
	a.Triangle.Length.Enabled = true
	a.Noise.Length.Enabled = true
}

// tickCycles returns the CPU-cycle span of the tick at the given index,
// alternating 7438/7439 so consecutive ticks average 7438.5 cycles.
func tickCycles(index int) uint64 {
	if index%2 == 0 {
		return tickCyclesEven
	}
	return tickCyclesOdd
}

// Step advances the frame sequencer and channel sample generators in
// whole-tick increments until caught up to runToCycle.
func (a *APU) Step(runToCycle uint64) {
	for a.Cy+tickCycles(a.tickIndex) <= runToCycle {
		a.Cy += tickCycles(a.tickIndex)
		a.tick()
		a.tickIndex++
	}
}

// tick performs one 240 Hz frame-sequencer step and fills SamplesPerTick
// raw samples into each channel's buffer.
func (a *APU) tick() {
	a.stepEnvelopes()
	a.stepLinearCounter()
	if a.tickIndex%2 == 0 {
		a.stepLengthCounters()
		a.stepSweeps()
	}

	fillPulse(&a.Pulse1, &a.Pulse1Buf, SamplesPerTick)
	fillPulse(&a.Pulse2, &a.Pulse2Buf, SamplesPerTick)
	fillTriangle(&a.Triangle, &a.TriangleBuf, SamplesPerTick)
	fillNoise(&a.Noise, &a.NoiseBuf, SamplesPerTick)
}

// PlayChannels is invoked by the driver on each new_frame; if the channel
// buffers have filled since the last call, it mixes and resamples them
// into the host output buffer.
func (a *APU) PlayChannels() {
	if !a.Pulse1Buf.full() {
		return
	}

	mixed := make([]int16, SampleBufferLen)
	for i := 0; i < SampleBufferLen; i++ {
		sum := int32(a.Pulse1Buf.Samples[i]) + int32(a.Pulse2Buf.Samples[i]) +
			int32(a.TriangleBuf.Samples[i]) + int32(a.NoiseBuf.Samples[i])
		mixed[i] = saturateInt16(sum)
	}

	a.Output.publish(resample(mixed))

	a.Pulse1Buf.reset()
	a.Pulse2Buf.reset()
	a.TriangleBuf.reset()
	a.NoiseBuf.reset()
}

func saturateInt16(v int32) int16 {
	switch {
	case v > 32767:
		return 32767
	case v < -32768:
		return -32768
	default:
		return int16(v)
	}
}

// resample linearly interpolates SampleBufferLen NES-rate samples down to
// ResampledLen host-rate samples.
func resample(src []int16) []int16 {
	dst := make([]int16, ResampledLen)
	for i := range dst {
		srcPos := float64(i) * float64(len(src)-1) / float64(len(dst)-1)
		lo := int(srcPos)
		hi := lo + 1
		if hi >= len(src) {
			hi = len(src) - 1
		}
		frac := srcPos - float64(lo)
		dst[i] = int16(float64(src[lo])*(1-frac) + float64(src[hi])*frac)
	}
	return dst
}

func (a *APU) stepEnvelopes() {
	a.stepEnvelope(&a.Pulse1.Envelope)
	a.stepEnvelope(&a.Pulse2.Envelope)
	a.stepEnvelope(&a.Noise.Envelope)
}

func (a *APU) stepLengthCounters() {
	a.stepLengthCounter(&a.Pulse1.Length)
	a.stepLengthCounter(&a.Pulse2.Length)
	a.stepLengthCounter(&a.Triangle.Length)
	a.stepLengthCounter(&a.Noise.Length)
}

func (a *APU) stepSweeps() {
	a.stepSweep(&a.Pulse1, &a.Pulse1.Sweep, true)
	a.stepSweep(&a.Pulse2, &a.Pulse2.Sweep, false)
}

// ReadRegister reads the one readable APU register, $4015.
func (a *APU) ReadRegister(addr uint16) uint8 {
	if addr != 0x4015 {
		return 0
	}
	status := uint8(0)
	if a.Pulse1.Length.Value > 0 {
		status |= 0x01
	}
	if a.Pulse2.Length.Value > 0 {
		status |= 0x02
	}
	if a.Triangle.Length.Value > 0 {
		status |= 0x04
	}
	if a.Noise.Length.Value > 0 {
		status |= 0x08
	}
	if a.DMC.CurrentLength > 0 {
		status |= 0x10
	}
	return status
}

// WriteRegister dispatches a write to $4000-$4017.
func (a *APU) WriteRegister(addr uint16, value uint8) {
	switch addr {
	case 0x4000, 0x4001, 0x4002, 0x4003:
		a.writePulse(&a.Pulse1, addr-0x4000, value)
	case 0x4004, 0x4005, 0x4006, 0x4007:
		a.writePulse(&a.Pulse2, addr-0x4004, value)
	case 0x4008, 0x4009, 0x400A, 0x400B:
		a.writeTriangle(addr-0x4008, value)
	case 0x400C, 0x400D, 0x400E, 0x400F:
		a.writeNoise(addr-0x400C, value)
	case 0x4010, 0x4011, 0x4012, 0x4013:
		a.writeDMC(addr-0x4010, value)
	case 0x4015:
		a.writeStatus(value)
	case 0x4017:
		a.tickIndex = 0
	}
}
