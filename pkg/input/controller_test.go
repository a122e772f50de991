package input

import "testing"

func TestReadOrderIsABSelectStartUpDownLeftRight(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonStart, true)
	c.SetButton(ButtonRight, true)

	c.Write(1)
	c.Write(0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 1}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Errorf("Read() #%d = %d, want %d", i, got, w)
		}
	}
}

func TestReadPastEighthBitReturnsOne(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)

	for i := 0; i < buttonCount; i++ {
		c.Read()
	}
	if got := c.Read(); got != 1 {
		t.Errorf("Read() past the 8th bit = %d, want 1", got)
	}
}

func TestStrobeHighFreezesOnButtonA(t *testing.T) {
	c := New()
	c.SetButton(ButtonA, true)
	c.Write(1)

	for i := 0; i < 3; i++ {
		if got := c.Read(); got != 1 {
			t.Errorf("Read() while strobed high #%d = %d, want 1 (button A held)", i, got)
		}
	}
}

func TestWriteRelatchesAndRewindsIndex(t *testing.T) {
	c := New()
	c.Write(1)
	c.Write(0)
	c.Read()
	c.Read()

	c.SetButton(ButtonB, true)
	c.Write(1)
	c.Write(0)

	if got := c.Read(); got != 0 {
		t.Errorf("Read() after relatch = %d, want button A's bit (0)", got)
	}
}

func TestGetButtonsAndIsPressed(t *testing.T) {
	c := New()
	c.SetButton(ButtonB, true)
	c.SetButton(ButtonDown, true)

	if !c.IsPressed(ButtonB) {
		t.Error("IsPressed(ButtonB) = false, want true")
	}
	if c.IsPressed(ButtonA) {
		t.Error("IsPressed(ButtonA) = true, want false")
	}

	want := uint8(1<<ButtonB | 1<<ButtonDown)
	if got := c.GetButtons(); got != want {
		t.Errorf("GetButtons() = %#02x, want %#02x", got, want)
	}
}
