// Package nes wires the CPU, PPU, APU, cartridge, and bus into the driver
// loop that runs a game: step the CPU, catch the PPU and APU up to its
// cycle count, and service whatever the PPU reports.
package nes

import (
	"fmt"
	"io"

	"github.com/mochines/nescore/pkg/apu"
	"github.com/mochines/nescore/pkg/cartridge"
	"github.com/mochines/nescore/pkg/cpu"
	"github.com/mochines/nescore/pkg/input"
	"github.com/mochines/nescore/pkg/logger"
	"github.com/mochines/nescore/pkg/memory"
	"github.com/mochines/nescore/pkg/ppu"
	"github.com/mochines/nescore/pkg/savestate"
)

// maxStepsPerFrame bounds StepFrame against a frozen game (e.g. an invalid
// opcode loop) so the GUI's event loop never wedges.
const maxStepsPerFrame = 50000

// NES is the assembled system: CPU, PPU, APU sharing a bus, plus the
// cartridge and controller currently attached.
type NES struct {
	CPU       *cpu.CPU
	PPU       *ppu.PPU
	APU       *apu.APU
	Memory    *memory.Memory
	Cartridge *cartridge.Cartridge
	Input     *input.Controller

	Frame uint64
}

// NewNES assembles a system with no cartridge loaded yet.
func NewNES() *NES {
	nes := &NES{}

	nes.Memory = memory.New()
	nes.CPU = cpu.New(nes.Memory)
	nes.PPU = ppu.New()
	nes.APU = apu.New()
	nes.Input = input.New()

	nes.Memory.SetPPU(nes.PPU)
	nes.Memory.SetAPU(nes.APU)
	nes.Memory.SetInput(nes.Input)
	nes.APU.SetMemory(nes.Memory)

	return nes
}

// LoadCartridge attaches a cartridge to the bus and the PPU's CHR/mirroring
// hook.
func (n *NES) LoadCartridge(cart *cartridge.Cartridge) {
	n.Cartridge = cart
	n.Memory.SetCartridge(cart)
	n.PPU.SetCartridge(cart)
}

// Reset restores every component to its power-up state.
func (n *NES) Reset() {
	n.CPU.A, n.CPU.X, n.CPU.Y = 0, 0, 0
	n.CPU.Reset()
	n.PPU.Reset()
	n.APU.Reset()
	n.Frame = 0
}

// Step runs one CPU instruction and everything that instruction's cycles
// drive: the PPU and APU catch up to the CPU's new cycle count, a pending
// VBlank NMI or mapper scanline IRQ is delivered, and on a completed frame
// the APU's host-rate buffer is refilled.
//
// An *cpu.InvalidOpcode is fatal per the CPU's own contract and is returned
// unchanged so the caller (the GUI, or a headless runner) can surface it.
func (n *NES) Step() error {
	_, err := n.CPU.Step()
	if err != nil {
		return err
	}

	result := n.PPU.Step(n.CPU.Cy)
	if result.VBlankNMI {
		n.CPU.NMI()
	} else if result.ScanlineIRQ {
		n.CPU.IRQ()
	}

	n.APU.Step(n.CPU.Cy)

	if result.NewFrame {
		n.Frame = n.PPU.Frame
		n.APU.PlayChannels()
	}

	return nil
}

// StepFrame runs Step until a frame completes, or until maxStepsPerFrame
// instructions have executed without one (a frozen game). It returns the
// first fatal CPU error encountered, if any.
func (n *NES) StepFrame() error {
	startFrame := n.PPU.Frame

	for i := 0; i < maxStepsPerFrame; i++ {
		if err := n.Step(); err != nil {
			logger.LogError("CPU halted: %v", err)
			return err
		}
		if n.PPU.Frame != startFrame {
			return nil
		}
	}

	logger.LogError("StepFrame exceeded %d instructions without completing a frame", maxStepsPerFrame)
	return nil
}

// Save writes a save state by walking the CPU, then the bus (work RAM,
// PPU, APU) depth-first, matching the CPU -> Bus -> {RAM, PPU, APU}
// traversal order.
func (n *NES) Save(w io.Writer) error {
	sw := savestate.NewWriter(w)
	logger.LogSaveState("writing cpu")
	n.CPU.Save(sw)
	logger.LogSaveState("writing ram")
	n.Memory.Save(sw)
	logger.LogSaveState("writing ppu")
	n.PPU.Save(sw)
	logger.LogSaveState("writing apu")
	n.APU.Save(sw)
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("savestate: write: %w", err)
	}
	logger.LogSaveState("save complete at cpu.cy=%d", n.CPU.Cy)
	return nil
}

// Load restores a save state written by Save. The cartridge, controller,
// and bus wiring are unaffected: only the components' internal registers
// and memories are overwritten.
func (n *NES) Load(r io.Reader) error {
	sr := savestate.NewReader(r)
	logger.LogSaveState("reading cpu")
	if err := n.CPU.Load(sr); err != nil {
		return fmt.Errorf("savestate: cpu: %w", err)
	}
	logger.LogSaveState("reading ram")
	if err := n.Memory.Load(sr); err != nil {
		return fmt.Errorf("savestate: ram: %w", err)
	}
	logger.LogSaveState("reading ppu")
	if err := n.PPU.Load(sr); err != nil {
		return fmt.Errorf("savestate: ppu: %w", err)
	}
	logger.LogSaveState("reading apu")
	if err := n.APU.Load(sr); err != nil {
		return fmt.Errorf("savestate: apu: %w", err)
	}
	logger.LogSaveState("load complete at cpu.cy=%d", n.CPU.Cy)
	return nil
}

// GetInput returns the controller attached to port 1.
func (n *NES) GetInput() *input.Controller {
	return n.Input
}

// GetFramebuffer returns the current frame as a flat RGB byte slice:
// ScreenWidth*ScreenHeight*3 bytes, offset (y*ScreenWidth+x)*3 holding R,G,B.
func (n *NES) GetFramebuffer() []uint8 {
	return n.PPU.GetFramebuffer()
}

// GetFrame returns the most recently completed frame number.
func (n *NES) GetFrame() uint64 {
	return n.Frame
}
