package savestate

import (
	"bytes"
	"testing"
)

func TestPrimitiveRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteU8(0xAB)
	w.WriteU16(0x1234)
	w.WriteU64(0x0102030405060708)
	w.WriteBool(true)
	w.WriteBool(false)
	w.WriteBytes([]byte{1, 2, 3, 4})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	r := NewReader(&buf)
	if v := r.ReadU8(); v != 0xAB {
		t.Errorf("ReadU8 = %#x, want 0xAB", v)
	}
	if v := r.ReadU16(); v != 0x1234 {
		t.Errorf("ReadU16 = %#x, want 0x1234", v)
	}
	if v := r.ReadU64(); v != 0x0102030405060708 {
		t.Errorf("ReadU64 = %#x, want 0x0102030405060708", v)
	}
	if v := r.ReadBool(); !v {
		t.Error("ReadBool #1 = false, want true")
	}
	if v := r.ReadBool(); v {
		t.Error("ReadBool #2 = true, want false")
	}
	raw := make([]byte, 4)
	r.ReadBytes(raw)
	if !bytes.Equal(raw, []byte{1, 2, 3, 4}) {
		t.Errorf("ReadBytes = %v, want [1 2 3 4]", raw)
	}
	if err := r.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestU16LittleEndian(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.WriteU16(0x1234)
	w.Flush()

	got := buf.Bytes()
	want := []byte{0x34, 0x12}
	if !bytes.Equal(got, want) {
		t.Errorf("WriteU16 bytes = %v, want %v", got, want)
	}
}

func TestShortReadIsAnError(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	r.ReadU64()
	if r.Err() == nil {
		t.Error("expected an error reading u64 from a single byte")
	}
}
