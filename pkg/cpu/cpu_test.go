package cpu

import (
	"testing"

	"github.com/mochines/nescore/pkg/memory"
)

// ramCartridge backs the $6000-$FFFF window with plain RAM so tests can
// write the interrupt vectors.
type ramCartridge struct{ mem [0x10000]uint8 }

func (r *ramCartridge) ReadPRG(addr uint16) uint8         { return r.mem[addr] }
func (r *ramCartridge) WritePRG(addr uint16, value uint8) { r.mem[addr] = value }

// newTestCPU wires a CPU to a bus with a RAM-backed cartridge and the reset
// vector pointed at $0200, where tests place their program bytes.
func newTestCPU() (*CPU, *memory.Memory) {
	mem := memory.New()
	mem.SetCartridge(&ramCartridge{})
	mem.Storeb(0xFFFC, 0x00)
	mem.Storeb(0xFFFD, 0x02)

	c := New(mem)
	c.Reset()
	return c, mem
}

func TestReset(t *testing.T) {
	c, _ := newTestCPU()

	if c.PC != 0x0200 {
		t.Errorf("PC = $%04X, want $0200", c.PC)
	}
	if c.S != 0xFD {
		t.Errorf("S = $%02X, want $FD", c.S)
	}
	if !c.GetFlag(FlagI) {
		t.Error("I flag should be set after reset")
	}
}

func TestFlags(t *testing.T) {
	c, _ := newTestCPU()

	c.SetFlag(FlagC, true)
	if !c.GetFlag(FlagC) {
		t.Error("FlagC should be set")
	}
	c.SetFlag(FlagC, false)
	if c.GetFlag(FlagC) {
		t.Error("FlagC should be clear")
	}

	c.setZN(0x00)
	if !c.GetFlag(FlagZ) || c.GetFlag(FlagN) {
		t.Errorf("setZN(0x00): P=$%02X, want Z set and N clear", c.P)
	}
	c.setZN(0x80)
	if c.GetFlag(FlagZ) || !c.GetFlag(FlagN) {
		t.Errorf("setZN(0x80): P=$%02X, want Z clear and N set", c.P)
	}
}

func TestLDAImmediate(t *testing.T) {
	c, mem := newTestCPU()
	mem.Storeb(0x0200, 0xA9) // LDA #$42
	mem.Storeb(0x0201, 0x42)

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x42 {
		t.Errorf("A = $%02X, want $42", c.A)
	}
	if cycles != 2 {
		t.Errorf("cycles = %d, want 2", cycles)
	}
	if c.PC != 0x0202 {
		t.Errorf("PC = $%04X, want $0202", c.PC)
	}
}

func TestLDAZeroPageWrap(t *testing.T) {
	c, mem := newTestCPU()
	mem.Storeb(0x0200, 0xB5) // LDA $FF,X
	mem.Storeb(0x0201, 0xFF)
	mem.Storeb(0x0001, 0x99) // wraps to zero page $00 + X(=2) = $01
	c.X = 2

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0x99 {
		t.Errorf("A = $%02X, want $99 (zero-page X index should wrap within page 0)", c.A)
	}
}

func TestADCOverflow(t *testing.T) {
	c, mem := newTestCPU()
	mem.Storeb(0x0200, 0x69) // ADC #$50
	mem.Storeb(0x0201, 0x50)
	c.A = 0x50

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0xA0 {
		t.Errorf("A = $%02X, want $A0", c.A)
	}
	if !c.GetFlag(FlagV) {
		t.Error("signed overflow (0x50+0x50) should set V")
	}
	if c.GetFlag(FlagC) {
		t.Error("0x50+0x50 should not set carry")
	}
}

func TestSBCBorrow(t *testing.T) {
	c, mem := newTestCPU()
	mem.Storeb(0x0200, 0xE9) // SBC #$01
	mem.Storeb(0x0201, 0x01)
	c.A = 0x00
	c.SetFlag(FlagC, true) // carry set means "no borrow" going in

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.A != 0xFF {
		t.Errorf("A = $%02X, want $FF", c.A)
	}
	if c.GetFlag(FlagC) {
		t.Error("0x00-0x01 should clear carry (borrow occurred)")
	}
}

func TestJMPIndirectPageBug(t *testing.T) {
	c, mem := newTestCPU()
	mem.Storeb(0x02FF, 0x34) // low byte of target
	mem.Storeb(0x0300, 0x12) // a bug-free CPU would read the high byte here...
	mem.Storeb(0x0200, 0x6C) // JMP ($02FF) — the bug wraps and reads $0200 for the high byte instead
	mem.Storeb(0x0201, 0xFF)
	mem.Storeb(0x0202, 0x02)

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	want := uint16(0x6C34) // high byte fetched from $0200 (still holding the JMP opcode), not $0300
	if c.PC != want {
		t.Errorf("PC = $%04X, want $%04X (indirect JMP page-wrap bug)", c.PC, want)
	}
}

func TestPushPopWord(t *testing.T) {
	c, _ := newTestCPU()
	c.pushw(0x1234)
	if got := c.popw(); got != 0x1234 {
		t.Errorf("popw() = $%04X, want $1234", got)
	}
}

func TestBRKAndRTI(t *testing.T) {
	c, mem := newTestCPU()
	mem.Storeb(0xFFFE, 0x00)
	mem.Storeb(0xFFFF, 0x03)
	mem.Storeb(0x0200, 0x00) // BRK

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x0300 {
		t.Errorf("PC after BRK = $%04X, want $0300", c.PC)
	}
	if !c.GetFlag(FlagI) {
		t.Error("BRK should set I")
	}

	mem.Storeb(0x0300, 0x40) // RTI
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.PC != 0x0202 {
		t.Errorf("PC after RTI = $%04X, want $0202 (return to BRK+2)", c.PC)
	}
}

func TestInvalidOpcode(t *testing.T) {
	c, mem := newTestCPU()
	mem.Storeb(0x0200, 0x02) // unofficial/illegal opcode (KIL)

	_, err := c.Step()
	if err == nil {
		t.Fatal("expected InvalidOpcode error")
	}
	if _, ok := err.(*InvalidOpcode); !ok {
		t.Errorf("err = %T, want *InvalidOpcode", err)
	}
	if c.PC != 0x0200 {
		t.Errorf("PC should not advance past an invalid opcode, got $%04X", c.PC)
	}
}

func TestOAMDMACycleCost(t *testing.T) {
	c, mem := newTestCPU()
	mem.Storeb(0x0200, 0x8D) // STA $4014
	mem.Storeb(0x0201, 0x14)
	mem.Storeb(0x0202, 0x40)
	c.A = 0x02

	cycles, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 4+512 {
		t.Errorf("cycles = %d, want %d (STA abs + flat 512-cycle DMA)", cycles, 4+512)
	}
}
