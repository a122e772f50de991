// Package memory implements the NES CPU address bus (MemMap): decode of the
// 16-bit CPU address space to RAM, the PPU/APU register windows, the
// controller port, and the cartridge mapper.
package memory

import (
	"github.com/mochines/nescore/pkg/logger"
)

// PPU is the register-file interface the bus forwards $2000-$3FFF to.
type PPU interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}

// APU is the register-file interface the bus forwards $4000-$4018 to,
// apart from $4014 (OAM DMA) and $4016 (controller).
type APU interface {
	ReadRegister(addr uint16) uint8
	WriteRegister(addr uint16, value uint8)
}

// Cartridge is the PRG-space interface the bus forwards $6000-$FFFF to.
type Cartridge interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, value uint8)
}

// Input is the controller-port interface the bus forwards $4016 to.
type Input interface {
	Read() uint8
	Write(value uint8)
}

// Memory is the NES CPU bus (MemMap in the spec).
type Memory struct {
	RAM [0x800]uint8

	PPU       PPU
	APU       APU
	Cartridge Cartridge
	Input     Input
}

// New creates a bus with no devices attached yet.
func New() *Memory {
	return &Memory{}
}

func (m *Memory) SetCartridge(c Cartridge) { m.Cartridge = c }
func (m *Memory) SetPPU(p PPU)             { m.PPU = p }
func (m *Memory) SetAPU(a APU)             { m.APU = a }
func (m *Memory) SetInput(i Input)         { m.Input = i }

// Read and Write are Loadb and Storeb under the names used by
// apu.MemoryReader and by callers outside the CPU.
func (m *Memory) Read(addr uint16) uint8       { return m.Loadb(addr) }
func (m *Memory) Write(addr uint16, val uint8) { m.Storeb(addr, val) }

// Loadb reads one byte, decoding the address per the bus's range table.
func (m *Memory) Loadb(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return m.RAM[addr&0x7FF]

	case addr < 0x4000:
		if m.PPU == nil {
			return 0
		}
		return m.PPU.ReadRegister(0x2000 + (addr & 0x7))

	case addr == 0x4016:
		if m.Input == nil {
			return 0
		}
		return m.Input.Read()

	case addr == 0x4014:
		// Write-only register; reads are unmapped.
		return 0

	case addr < 0x4019:
		if m.APU == nil {
			return 0
		}
		return m.APU.ReadRegister(addr)

	case addr >= 0x6000:
		if m.Cartridge == nil {
			return 0
		}
		return m.Cartridge.ReadPRG(addr)

	default:
		return 0
	}
}

// Storeb writes one byte, decoding the address per the bus's range table.
func (m *Memory) Storeb(addr uint16, val uint8) {
	switch {
	case addr < 0x2000:
		m.RAM[addr&0x7FF] = val

	case addr < 0x4000:
		if m.PPU != nil {
			m.PPU.WriteRegister(0x2000+(addr&0x7), val)
		}

	case addr == 0x4014:
		// Intercepted by the CPU (it charges the 512-cycle DMA cost);
		// the bus itself takes no action on this address.

	case addr == 0x4016:
		if m.Input != nil {
			m.Input.Write(val)
		}

	case addr < 0x4019:
		if m.APU != nil {
			m.APU.WriteRegister(addr, val)
		}

	case addr >= 0x6000:
		if m.Cartridge != nil {
			m.Cartridge.WritePRG(addr, val)
		}

	default:
		// Unmapped $4019-$5FFF.
	}
}

// Loadw composes a little-endian 16-bit value from two byte loads.
func (m *Memory) Loadw(addr uint16) uint16 {
	lo := uint16(m.Loadb(addr))
	hi := uint16(m.Loadb(addr + 1))
	return hi<<8 | lo
}

// Storew decomposes a little-endian 16-bit value into two byte stores.
func (m *Memory) Storew(addr uint16, val uint16) {
	m.Storeb(addr, uint8(val&0xFF))
	m.Storeb(addr+1, uint8(val>>8))
}

// LoadwZp reads a little-endian word from the zero page, wrapping the high
// byte's address within page 0 rather than crossing into page 1.
func (m *Memory) LoadwZp(addr uint8) uint16 {
	lo := uint16(m.Loadb(uint16(addr)))
	hi := uint16(m.Loadb(uint16(addr + 1)))
	return hi<<8 | lo
}

// OAMDMA copies 256 bytes starting at page*0x100 into OAM via $2004. The CPU
// calls this directly when it intercepts a write to $4014, and charges the
// 512-cycle cost itself.
func (m *Memory) OAMDMA(page uint8) {
	base := uint16(page) << 8
	logger.LogCPU("OAM DMA from page $%02X", page)
	for i := 0; i < 256; i++ {
		val := m.Loadb(base + uint16(i))
		if m.PPU != nil {
			m.PPU.WriteRegister(0x2004, val)
		}
	}
}
