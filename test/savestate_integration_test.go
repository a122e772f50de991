package test

import (
	"bytes"
	"testing"

	"github.com/mochines/nescore/pkg/cartridge"
	"github.com/mochines/nescore/pkg/nes"
)

// TestSaveLoadStateRoundTrip runs a program partway, snapshots the system,
// mutates it further, then restores the snapshot and checks the restored
// state matches what was saved rather than whatever ran after.
func TestSaveLoadStateRoundTrip(t *testing.T) {
	program := []uint8{
		0xA9, 0x00, // LDA #$00
		0x69, 0x01, // loop: ADC #$01
		0x4C, 0x02, 0x80, // JMP loop
	}

	rom := createTestROM(program)
	cart, err := cartridge.LoadFromReader(bytes.NewReader(rom))
	if err != nil {
		t.Fatalf("Failed to load test ROM: %v", err)
	}

	system := nes.NewNES()
	system.LoadCartridge(cart)
	system.Reset()

	for i := 0; i < 50; i++ {
		if err := system.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}

	var snapshot bytes.Buffer
	if err := system.Save(&snapshot); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	savedA := system.CPU.A
	savedPC := system.CPU.PC
	savedCy := system.CPU.Cy

	for i := 0; i < 50; i++ {
		if err := system.Step(); err != nil {
			t.Fatalf("Step failed: %v", err)
		}
	}
	if system.CPU.A == savedA && system.CPU.PC == savedPC {
		t.Fatal("test program did not change state after the snapshot; nothing would be exercised by the restore")
	}

	if err := system.Load(bytes.NewReader(snapshot.Bytes())); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if system.CPU.A != savedA {
		t.Errorf("A after load = %#02x, want %#02x", system.CPU.A, savedA)
	}
	if system.CPU.PC != savedPC {
		t.Errorf("PC after load = %#04x, want %#04x", system.CPU.PC, savedPC)
	}
	if system.CPU.Cy != savedCy {
		t.Errorf("Cy after load = %d, want %d", system.CPU.Cy, savedCy)
	}
}

// TestSaveStateIncludesRAM checks that work RAM contents survive a
// save/load cycle, not just CPU registers.
func TestSaveStateIncludesRAM(t *testing.T) {
	system := nes.NewNES()
	system.Memory.Storeb(0x0010, 0x42)
	system.Memory.Storeb(0x0123, 0x99)

	var snapshot bytes.Buffer
	if err := system.Save(&snapshot); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	system.Memory.Storeb(0x0010, 0x00)
	system.Memory.Storeb(0x0123, 0x00)

	if err := system.Load(bytes.NewReader(snapshot.Bytes())); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v := system.Memory.Loadb(0x0010); v != 0x42 {
		t.Errorf("RAM[0x0010] after load = %#02x, want 0x42", v)
	}
	if v := system.Memory.Loadb(0x0123); v != 0x99 {
		t.Errorf("RAM[0x0123] after load = %#02x, want 0x99", v)
	}
}

// TestSaveStateIncludesPPUAndAPU checks that PPU/APU register state
// survives a save/load cycle.
func TestSaveStateIncludesPPUAndAPU(t *testing.T) {
	system := nes.NewNES()
	system.Memory.Storeb(0x2000, 0x80) // PPUCTRL
	system.Memory.Storeb(0x4000, 0xBF) // Pulse1 duty=10b, volume=0x0F
	system.Memory.Storeb(0x4003, 0x02) // Pulse1 timer high/length, enables length load

	var snapshot bytes.Buffer
	if err := system.Save(&snapshot); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	system.PPU.PPUCTRL = 0x00
	system.APU.Pulse1.DutyCycle = 0
	system.APU.Pulse1.Volume = 0

	if err := system.Load(bytes.NewReader(snapshot.Bytes())); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if system.PPU.PPUCTRL != 0x80 {
		t.Errorf("PPUCTRL after load = %#02x, want 0x80", system.PPU.PPUCTRL)
	}
	if system.APU.Pulse1.DutyCycle != 0x02 {
		t.Errorf("Pulse1.DutyCycle after load = %d, want 2", system.APU.Pulse1.DutyCycle)
	}
	if system.APU.Pulse1.Volume != 0x0F {
		t.Errorf("Pulse1.Volume after load = %d, want 0x0F", system.APU.Pulse1.Volume)
	}
}
