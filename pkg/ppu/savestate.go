package ppu

import "github.com/mochines/nescore/pkg/savestate"

// Save writes the PPU's regs bundle (control/mask/status/OAM address, the
// scroll and address write latches), then VRAM, OAM, scanline, the PPUDATA
// read buffer, the shadow scroll registers, and the cycle count — in that
// order, matching the regs/vram/oam/scanline/ppudata_buffer/scroll_x/
// scroll_y/cy traversal.
func (p *PPU) Save(w *savestate.Writer) {
	w.WriteU8(p.PPUCTRL)
	w.WriteU8(p.PPUMASK)
	w.WriteU8(p.PPUSTATUS)
	w.WriteU8(p.OAMADDR)
	w.WriteU8(p.scrollX)
	w.WriteU8(p.scrollY)
	w.WriteBool(p.scrollNext == scrollDirY)
	w.WriteU16(p.addrVal)
	w.WriteBool(p.addrNext == addrByteLo)

	w.WriteBytes(p.VRAM[:])
	w.WriteBytes(p.OAM[:])

	w.WriteU16(uint16(p.Scanline))
	w.WriteU8(p.readBuffer)
	w.WriteU16(p.shadowScrollX)
	w.WriteU16(p.shadowScrollY)
	w.WriteU64(p.Cy)
}

// Load restores the PPU's state. Cartridge and PaletteManager must already
// be set.
func (p *PPU) Load(r *savestate.Reader) error {
	p.PPUCTRL = r.ReadU8()
	p.PPUMASK = r.ReadU8()
	p.PPUSTATUS = r.ReadU8()
	p.OAMADDR = r.ReadU8()
	p.scrollX = r.ReadU8()
	p.scrollY = r.ReadU8()
	if r.ReadBool() {
		p.scrollNext = scrollDirY
	} else {
		p.scrollNext = scrollDirX
	}
	p.addrVal = r.ReadU16()
	if r.ReadBool() {
		p.addrNext = addrByteLo
	} else {
		p.addrNext = addrByteHi
	}

	r.ReadBytes(p.VRAM[:])
	r.ReadBytes(p.OAM[:])

	p.Scanline = int(r.ReadU16())
	p.readBuffer = r.ReadU8()
	p.shadowScrollX = r.ReadU16()
	p.shadowScrollY = r.ReadU16()
	p.Cy = r.ReadU64()
	return r.Err()
}
