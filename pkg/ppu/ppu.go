package ppu

import (
	"github.com/mochines/nescore/pkg/logger"
)

const (
	ScreenWidth       = 256
	ScreenHeight      = 240
	CyclesPerScanline = 114
	VBlankScanline    = 241
	LastScanline      = 261
)

// Cartridge is the subset of the mapper the PPU drives directly: CHR
// space, nametable mirroring, and the per-scanline IRQ hook.
type Cartridge interface {
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, value uint8)
	NextScanline() bool // true => the mapper wants a scanline IRQ serviced
	GetMirroring() int
}

// scrollDir tracks which half of the two-write PPUSCROLL latch is next.
type scrollDir int

const (
	scrollDirX scrollDir = iota
	scrollDirY
)

// addrByte tracks which half of the two-write PPUADDR latch is next.
type addrByte int

const (
	addrByteHi addrByte = iota
	addrByteLo
)

// StepResult reports what happened while Step advanced the PPU to the
// requested CPU cycle count.
type StepResult struct {
	NewFrame    bool // wrapped from the last scanline back to scanline 0
	VBlankNMI   bool // entered VBlank with NMI-on-VBlank enabled
	ScanlineIRQ bool // the mapper asked for a scanline IRQ
}

// PPU is the NES Picture Processing Unit: register file, VRAM/OAM, and the
// scanline-granularity renderer.
type PPU struct {
	PPUCTRL   uint8
	PPUMASK   uint8
	PPUSTATUS uint8
	OAMADDR   uint8

	scrollX, scrollY uint8
	scrollNext       scrollDir

	addrVal  uint16
	addrNext addrByte

	// scrollX/scrollY cannot always be derived from PPUCTRL/PPUSCROLL alone,
	// because a PPUADDR write also nudges the horizontal nametable base —
	// these shadow registers carry that combined state.
	shadowScrollX, shadowScrollY uint16

	VRAM       [0x4000]uint8 // nametables live at 0x2000-0x2FFF within this space
	OAM        [256]uint8
	readBuffer uint8

	// FrameBuffer holds one completed frame as packed RGB: byte offset
	// (y*ScreenWidth+x)*3, channels R,G,B in that order, 3 bytes per pixel
	// and no alpha channel.
	FrameBuffer [ScreenWidth * ScreenHeight * 3]uint8

	Scanline int
	Cy       uint64
	Frame    uint64

	PaletteManager *PaletteManager
	Cartridge      Cartridge
}

func New() *PPU {
	return &PPU{
		PaletteManager: NewPaletteManager(),
	}
}

func (p *PPU) SetCartridge(cart Cartridge) { p.Cartridge = cart }

func (p *PPU) Reset() {
	p.PPUCTRL = 0
	p.PPUMASK = 0
	p.PPUSTATUS = 0
	p.OAMADDR = 0
	p.scrollX, p.scrollY = 0, 0
	p.scrollNext = scrollDirX
	p.addrVal = 0
	p.addrNext = addrByteHi
	p.shadowScrollX, p.shadowScrollY = 0, 0
	p.Scanline = 0
	p.Cy = 0
}

// ReadRegister reads the PPU register mapped to the given CPU address
// (caller is responsible for folding 0x2000-0x3FFF down to 0x2000-0x2007).
func (p *PPU) ReadRegister(addr uint16) uint8 {
	switch addr & 7 {
	case 0:
		return p.PPUCTRL
	case 1:
		return p.PPUMASK
	case 2:
		return p.readStatus()
	case 3:
		return 0
	case 4:
		return p.OAM[p.OAMADDR]
	case 5, 6:
		return 0
	case 7:
		return p.readData()
	}
	return 0
}

func (p *PPU) WriteRegister(addr uint16, value uint8) {
	switch addr & 7 {
	case 0:
		p.writeCtrl(value)
	case 1:
		p.PPUMASK = value
	case 2:
		// read-only
	case 3:
		p.OAMADDR = value
	case 4:
		p.OAM[p.OAMADDR] = value
		p.OAMADDR++
	case 5:
		p.writeScroll(value)
	case 6:
		p.writeAddr(value)
	case 7:
		p.writeData(value)
	}
}

func (p *PPU) writeCtrl(value uint8) {
	p.PPUCTRL = value
	xOffset := uint16(0)
	if value&0x01 != 0 {
		xOffset = 256
	}
	yOffset := uint16(0)
	if value&0x02 != 0 {
		yOffset = 240
	}
	p.shadowScrollX = (p.shadowScrollX & 0xFF) | xOffset
	p.shadowScrollY = (p.shadowScrollY & 0xFF) | yOffset
}

func (p *PPU) writeScroll(value uint8) {
	if p.scrollNext == scrollDirX {
		p.shadowScrollX = (p.shadowScrollX & 0xFF00) | uint16(value)
		p.scrollX = value
		p.scrollNext = scrollDirY
	} else {
		p.shadowScrollY = (p.shadowScrollY & 0xFF00) | uint16(value)
		p.scrollY = value
		p.scrollNext = scrollDirX
	}
}

func (p *PPU) writeAddr(value uint8) {
	if p.addrNext == addrByteHi {
		p.addrVal = (p.addrVal & 0x00FF) | (uint16(value) << 8)
		p.addrNext = addrByteLo
		return
	}
	p.addrVal = (p.addrVal & 0xFF00) | uint16(value)
	p.addrNext = addrByteHi

	// A full PPUADDR write also nudges the horizontal nametable base — the
	// real PPU has no separate "scroll" latch distinct from its VRAM
	// address, an approximation this shadow-register split must reproduce.
	nt := p.addrVal & 0x07FF
	xBase := uint16(0)
	if nt >= 0x400 {
		xBase = 256
	}
	p.shadowScrollX = (p.shadowScrollX & 0xFF) | xBase
}

func (p *PPU) readStatus() uint8 {
	p.scrollNext = scrollDirX
	p.addrNext = addrByteHi
	return p.PPUSTATUS
}

func (p *PPU) vramIncrement() uint16 {
	if p.PPUCTRL&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) writeData(value uint8) {
	p.writeVRAM(p.addrVal, value)
	p.addrVal += p.vramIncrement()
}

func (p *PPU) readData() uint8 {
	addr := p.addrVal
	value := p.readVRAM(addr)
	p.addrVal += p.vramIncrement()

	if addr < 0x3F00 {
		buffered := p.readBuffer
		p.readBuffer = value
		return buffered
	}
	// Palette reads bypass the buffer, but still refresh it from the
	// nametable mirror one page below, matching real PPU behavior.
	p.readBuffer = p.readVRAM(addr - 0x1000)
	return value
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.Cartridge != nil {
			return p.Cartridge.ReadCHR(addr)
		}
		return 0
	case addr < 0x3F00:
		return p.VRAM[p.mirrorNameTableAddress(addr)]
	default:
		return p.PaletteManager.ReadPalette(uint8(addr & 0x1F))
	}
}

func (p *PPU) writeVRAM(addr uint16, value uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		if p.Cartridge != nil {
			p.Cartridge.WriteCHR(addr, value)
		}
	case addr < 0x3F00:
		p.VRAM[p.mirrorNameTableAddress(addr)] = value
	default:
		p.PaletteManager.WritePalette(uint8(addr&0x1F), value)
	}
}

// mirrorNameTableAddress folds the 4 KiB logical nametable window down to
// the 2 KiB of physical VRAM the NES actually has by masking the offset
// with 0x7FF. Every mirroring mode the cartridge reports takes this same
// path, so $2800-$2FFF always aliases $2000-$27FF; four-screen VRAM is not
// modeled.
func (p *PPU) mirrorNameTableAddress(addr uint16) uint16 {
	offset := addr - 0x2000
	mirroring := 0
	if p.Cartridge != nil {
		mirroring = p.Cartridge.GetMirroring()
	}
	switch mirroring {
	case 1: // vertical
		return 0x2000 + (offset & 0x7FF)
	default: // horizontal, and the horizontal-via-mask fallback
		return 0x2000 + (offset & 0x7FF)
	}
}

// Step advances the PPU in CyclesPerScanline-cycle quanta until it has
// caught up to runToCycle, rendering each visible scanline as it passes
// and consulting the mapper's scanline IRQ hook once per scanline.
func (p *PPU) Step(runToCycle uint64) StepResult {
	var result StepResult

	p.PaletteManager.SetEmphasis(p.PPUMASK & 0xE0)

	for p.Cy+CyclesPerScanline <= runToCycle {
		if p.Scanline < ScreenHeight {
			p.renderScanline()
		}

		p.Scanline++

		if p.Cartridge != nil && p.Cartridge.NextScanline() {
			result.ScanlineIRQ = true
		}

		switch p.Scanline {
		case VBlankScanline:
			p.PPUSTATUS |= PPUSTATUSVBlank
			p.PPUSTATUS &^= PPUSTATUSSprite0Hit
			if p.PPUCTRL&PPUCTRLNMIEnable != 0 {
				result.VBlankNMI = true
			}
			logger.LogPPU("VBlank start, frame=%d", p.Frame)
		case LastScanline:
			result.NewFrame = true
			p.Scanline = 0
			p.PPUSTATUS &^= PPUSTATUSVBlank
			p.Frame++
		}

		p.Cy += CyclesPerScanline
	}

	return result
}

// PPUCTRL/PPUMASK/PPUSTATUS flag bits.
const (
	PPUCTRLNameTable   = 0x03
	PPUCTRLIncrement   = 0x04
	PPUCTRLSpriteTable = 0x08
	PPUCTRLBGTable     = 0x10
	PPUCTRLSpriteSize  = 0x20
	PPUCTRLMasterSlave = 0x40
	PPUCTRLNMIEnable   = 0x80

	PPUMASKGreyscale      = 0x01
	PPUMASKBGLeft         = 0x02
	PPUMASKSpriteLeft     = 0x04
	PPUMASKBGShow         = 0x08
	PPUMASKSpriteShow     = 0x10
	PPUMASKRedEmphasize   = 0x20
	PPUMASKGreenEmphasize = 0x40
	PPUMASKBlueEmphasize  = 0x80

	PPUSTATUSOverflow   = 0x20
	PPUSTATUSSprite0Hit = 0x40
	PPUSTATUSVBlank     = 0x80
)

// GetFramebuffer returns the completed frame as a flat RGB byte slice
// (ScreenWidth*ScreenHeight*3 bytes, 3 bytes per pixel, no alpha channel).
func (p *PPU) GetFramebuffer() []uint8 {
	return p.FrameBuffer[:]
}
