package ppu

// spritePriority mirrors the OAM attribute byte's bit 5: AboveBg draws over
// an opaque background pixel, BelowBg loses to one.
type spritePriority int

const (
	spriteAboveBg spritePriority = iota
	spriteBelowBg
)

// Sprite attribute byte flags.
const (
	spriteFlipHorizontal = 0x40
	spriteFlipVertical   = 0x80
	spritePriorityBit    = 0x20
	spritePaletteMask    = 0x03
)

type visibleSprite struct {
	index int
	y, tileIndex, attr, x uint8
}

func (p *PPU) spriteAt(index int) visibleSprite {
	base := index * 4
	return visibleSprite{
		index:     index,
		y:         p.OAM[base] + 1,
		tileIndex: p.OAM[base+1],
		attr:      p.OAM[base+2],
		x:         p.OAM[base+3],
	}
}

func (p *PPU) spriteHeight() int {
	if p.PPUCTRL&PPUCTRLSpriteSize != 0 {
		return 16
	}
	return 8
}

func (s visibleSprite) onScanline(height int, y uint8) bool {
	return y >= s.y && int(y) < int(s.y)+height
}

// computeVisibleSprites scans OAM in index order, collecting up to 8
// sprites that intersect this scanline and flagging overflow on the 9th.
func (p *PPU) computeVisibleSprites() []visibleSprite {
	height := p.spriteHeight()
	y := uint8(p.Scanline)

	var visible []visibleSprite
	for i := 0; i < 64; i++ {
		s := p.spriteAt(i)
		if !s.onScanline(height, y) {
			continue
		}
		if len(visible) >= 8 {
			p.PPUSTATUS |= PPUSTATUSOverflow
			break
		}
		visible = append(visible, s)
	}
	return visible
}

// getPatternPixel reads the 2-bit color index of pixel (x,y) within a tile
// from CHR space, honoring the given pattern table base.
func (p *PPU) getPatternPixel(tableBase uint16, tile uint16, x, y uint8) uint8 {
	offset := tableBase + tile*16 + uint16(y%8)
	plane0 := p.readVRAM(offset)
	plane1 := p.readVRAM(offset + 8)
	bit0 := (plane0 >> (7 - x%8)) & 1
	bit1 := (plane1 >> (7 - x%8)) & 1
	return bit1<<1 | bit0
}

// nametableAddr resolves a tile coordinate (in units of 8x8 tiles, already
// wrapped across the 2x2 logical nametable grid) to its base address and
// position within that table.
func nametableAddr(tileX, tileY uint16) (base uint16, x, y uint8) {
	tileX %= 64
	tileY %= 60

	switch {
	case tileX < 32 && tileY < 30:
		base = 0x2000
	case tileX >= 32 && tileY < 30:
		base = 0x2400
	case tileX < 32 && tileY >= 30:
		base = 0x2800
	default:
		base = 0x2C00
	}
	return base, uint8(tileX % 32), uint8(tileY % 30)
}

// rgbColor is an (R,G,B) triplet, the NES PPU's native pixel format per the
// external screen buffer's byte layout.
type rgbColor struct {
	r, g, b uint8
}

// getBackgroundPixel returns the resolved color for screen column x on the
// current scanline, or ok=false if the background is transparent there.
func (p *PPU) getBackgroundPixel(x uint8) (color rgbColor, ok bool) {
	scrolledX := uint16(x) + p.shadowScrollX
	scrolledY := uint16(p.Scanline) + p.shadowScrollY

	base, tileX, tileY := nametableAddr(scrolledX/8, scrolledY/8)
	xsub, ysub := uint8(scrolledX%8), uint8(scrolledY%8)

	tile := p.readVRAM(base + 32*uint16(tileY) + uint16(tileX))

	bgTable := uint16(0)
	if p.PPUCTRL&PPUCTRLBGTable != 0 {
		bgTable = 0x1000
	}
	patternColor := p.getPatternPixel(bgTable, uint16(tile), xsub, ysub)
	if patternColor == 0 {
		return rgbColor{}, false
	}

	group := tileY/4*8 + tileX/4
	attrByte := p.readVRAM(base + 0x3C0 + uint16(group))

	left, top := tileX%4 < 2, tileY%4 < 2
	var attrColor uint8
	switch {
	case left && top:
		attrColor = attrByte & 0x03
	case !left && top:
		attrColor = (attrByte >> 2) & 0x03
	case left && !top:
		attrColor = (attrByte >> 4) & 0x03
	default:
		attrColor = (attrByte >> 6) & 0x03
	}

	r, g, b := p.PaletteManager.GetBackgroundColor(attrColor, patternColor)
	return rgbColor{r, g, b}, true
}

type resolvedSpriteColor struct {
	priority spritePriority
	color    rgbColor
}

// getSpritePixel finds the highest-priority visible sprite covering screen
// column x, honoring 8x8/8x16 sizing and flips, and flags sprite-0 hit.
func (p *PPU) getSpritePixel(visible []visibleSprite, x uint8, backgroundOpaque bool) (resolvedSpriteColor, bool) {
	height := p.spriteHeight()
	spriteTable := uint16(0)
	if p.PPUCTRL&PPUCTRLSpriteTable != 0 {
		spriteTable = 0x1000
	}

	for _, s := range visible {
		if x < s.x || int(x) >= int(s.x)+8 {
			continue
		}
		if !s.onScanline(height, uint8(p.Scanline)) {
			continue
		}

		px := x - s.x
		if s.attr&spriteFlipHorizontal != 0 {
			px = 7 - px
		}
		py := uint8(p.Scanline) - s.y
		if s.attr&spriteFlipVertical != 0 {
			py = uint8(height-1) - py
		}

		var tile uint16
		table := spriteTable
		if height == 16 {
			tile = uint16(s.tileIndex &^ 1)
			if s.tileIndex&1 != 0 {
				table = 0x1000
			} else {
				table = 0x0000
			}
			if py >= 8 {
				tile++
				py -= 8
			}
		} else {
			tile = uint16(s.tileIndex)
		}

		patternColor := p.getPatternPixel(table, tile, px, py)
		if patternColor == 0 {
			continue
		}

		if s.index == 0 && backgroundOpaque {
			p.PPUSTATUS |= PPUSTATUSSprite0Hit
		}

		palette := s.attr & spritePaletteMask
		priority := spriteAboveBg
		if s.attr&spritePriorityBit != 0 {
			priority = spriteBelowBg
		}
		r, g, b := p.PaletteManager.GetSpriteColor(palette, patternColor)
		return resolvedSpriteColor{priority: priority, color: rgbColor{r, g, b}}, true
	}
	return resolvedSpriteColor{}, false
}

// renderScanline composites background and sprites for the current
// scanline into FrameBuffer, one call per scanline rather than per dot.
func (p *PPU) renderScanline() {
	showBG := p.PPUMASK&PPUMASKBGShow != 0
	showSprites := p.PPUMASK&PPUMASKSpriteShow != 0

	var visible []visibleSprite
	if showSprites {
		visible = p.computeVisibleSprites()
	}

	br, bg, bb := p.PaletteManager.GetBackgroundColor(0, 0)
	backdrop := rgbColor{br, bg, bb}
	rowBase := p.Scanline * ScreenWidth

	for x := 0; x < ScreenWidth; x++ {
		var bgColor rgbColor
		bgOpaque := false
		if showBG && !(x < 8 && p.PPUMASK&PPUMASKBGLeft == 0) {
			bgColor, bgOpaque = p.getBackgroundPixel(uint8(x))
		}

		var spriteColor rgbColor
		spriteOpaque := false
		spritePrio := spriteAboveBg
		if showSprites && !(x < 8 && p.PPUMASK&PPUMASKSpriteLeft == 0) {
			if sc, ok := p.getSpritePixel(visible, uint8(x), bgOpaque); ok {
				spriteColor, spriteOpaque, spritePrio = sc.color, true, sc.priority
			}
		}

		var final rgbColor
		switch {
		case !bgOpaque && !spriteOpaque:
			final = backdrop
		case bgOpaque && !spriteOpaque:
			final = bgColor
		case !bgOpaque && spriteOpaque:
			final = spriteColor
		case spritePrio == spriteAboveBg:
			final = spriteColor
		default:
			final = bgColor
		}

		off := (rowBase + x) * 3
		p.FrameBuffer[off+0] = final.r
		p.FrameBuffer[off+1] = final.g
		p.FrameBuffer[off+2] = final.b
	}
}
