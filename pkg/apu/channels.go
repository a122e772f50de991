package apu

// Duty cycle sequences for pulse channels (8 steps each)
var dutyCycles = [4][8]uint8{
	{0, 1, 0, 0, 0, 0, 0, 0}, // 12.5%
	{0, 1, 1, 0, 0, 0, 0, 0}, // 25%
	{0, 1, 1, 1, 1, 0, 0, 0}, // 50%
	{1, 0, 0, 1, 1, 1, 1, 1}, // 25% (negated)
}

// Triangle wave sequence (32 steps)
var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// Noise periods for different frequencies
var noisePeriods = [16]uint16{
	4, 8, 16, 32, 64, 96, 128, 160, 202, 254, 380, 508, 762, 1016, 2034, 4068,
}

// fillPulse writes n raw samples into buf from the pulse channel's current
// waveform state, muting if the channel is disabled, length-silenced, or
// its timer is out of the audible range.
func fillPulse(pulse *PulseChannel, buf *SampleBuffer, n int) {
	volume := pulse.Volume
	if !pulse.Envelope.Constant {
		volume = pulse.Envelope.Counter
	}
	inaudible := !pulse.Enabled || pulse.Length.Value == 0 || pulse.TimerValue < 8 || pulse.TimerValue > 0x7FF || volume == 0

	for i := 0; i < n && !buf.full(); i++ {
		var sample int16
		if !inaudible && dutyCycles[pulse.DutyCycle][pulse.Sequence] != 0 {
			sample = int16(volume) << 10
		}
		buf.Samples[buf.Offset] = sample
		buf.Offset++

		pulse.Timer++
		if pulse.Timer >= uint32(pulse.TimerValue+1)*2 {
			pulse.Timer = 0
			pulse.Sequence = (pulse.Sequence + 1) % 8
		}
	}
}

// fillTriangle writes n raw samples for the triangle channel.
func fillTriangle(tri *TriangleChannel, buf *SampleBuffer, n int) {
	inaudible := !tri.Enabled || tri.Length.Value == 0 || tri.LinearCounter == 0 || tri.TimerValue == 0

	for i := 0; i < n && !buf.full(); i++ {
		var sample int16
		if !inaudible {
			sample = int16(triangleSequence[tri.Sequence]) * (4 << 8)
		}
		buf.Samples[buf.Offset] = sample
		buf.Offset++

		tri.Timer++
		if tri.Timer >= uint32(tri.TimerValue+1) {
			tri.Timer = 0
			if !inaudible {
				tri.Sequence = (tri.Sequence + 1) % 32
			}
		}
	}
}

// fillNoise writes n raw samples for the noise channel, rotating its LFSR
// at each period boundary.
func fillNoise(noise *NoiseChannel, buf *SampleBuffer, n int) {
	volume := noise.Volume
	if !noise.Envelope.Constant {
		volume = noise.Envelope.Counter
	}
	inaudible := !noise.Enabled || noise.Length.Value == 0 || volume == 0

	for i := 0; i < n && !buf.full(); i++ {
		var sample int16
		if !inaudible && noise.ShiftReg&1 == 0 {
			sample = int16(volume) << 10
		}
		buf.Samples[buf.Offset] = sample
		buf.Offset++

		noise.Timer++
		if noise.Timer >= uint32(noise.TimerValue) {
			noise.Timer = 0
			var bit uint16
			if noise.Mode {
				bit = (noise.ShiftReg & 1) ^ ((noise.ShiftReg >> 6) & 1)
			} else {
				bit = (noise.ShiftReg & 1) ^ ((noise.ShiftReg >> 1) & 1)
			}
			noise.ShiftReg = (noise.ShiftReg >> 1) | (bit << 14)
		}
	}
}

// stepEnvelope steps an envelope generator once (quarter-frame rate).
func (a *APU) stepEnvelope(env *EnvelopeGenerator) {
	if env.Start {
		env.Start = false
		env.Counter = 15
		env.Divider = env.Volume
		return
	}
	if env.Divider > 0 {
		env.Divider--
		return
	}
	env.Divider = env.Volume
	if env.Counter > 0 {
		env.Counter--
	} else if env.Loop {
		env.Counter = 15
	}
}

// stepLengthCounter steps a length counter once (half-frame rate).
func (a *APU) stepLengthCounter(lc *LengthCounter) {
	if lc.Enabled && !lc.Halt && lc.Value > 0 {
		lc.Value--
	}
}

// stepSweep steps a pulse channel's sweep unit once (half-frame rate).
func (a *APU) stepSweep(pulse *PulseChannel, sweep *SweepUnit, channel1 bool) {
	if sweep.Reload {
		sweep.Counter = sweep.Period
		sweep.Reload = false
		if sweep.Enabled && sweep.Period == 0 {
			a.performSweep(pulse, sweep, channel1)
		}
		return
	}
	if sweep.Counter > 0 {
		sweep.Counter--
		return
	}
	sweep.Counter = sweep.Period
	if sweep.Enabled {
		a.performSweep(pulse, sweep, channel1)
	}
}

func (a *APU) performSweep(pulse *PulseChannel, sweep *SweepUnit, channel1 bool) {
	change := pulse.TimerValue >> sweep.Shift
	var targetPeriod uint16

	if sweep.Negate {
		if channel1 {
			targetPeriod = pulse.TimerValue - change - 1
		} else {
			targetPeriod = pulse.TimerValue - change
		}
	} else {
		targetPeriod = pulse.TimerValue + change
	}

	if targetPeriod >= 8 && targetPeriod <= 0x7FF {
		pulse.TimerValue = targetPeriod
	}
}

// stepLinearCounter steps the triangle's linear counter (quarter-frame rate).
func (a *APU) stepLinearCounter() {
	if a.Triangle.LinearControl {
		a.Triangle.LinearCounter = a.Triangle.LinearReload
	} else if a.Triangle.LinearCounter > 0 {
		a.Triangle.LinearCounter--
	}
	if !a.Triangle.Length.Halt {
		a.Triangle.LinearControl = false
	}
}
