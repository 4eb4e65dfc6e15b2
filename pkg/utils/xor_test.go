package utils

import (
	"bytes"
	"testing"
)

func TestXORWords_Symmetric(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04, 0xAA, 0xBB, 0xCC, 0xDD}
	key := uint32(0xDEADBEEF)

	enc := XORWords(data, key)
	if bytes.Equal(enc, data) {
		t.Fatal("encoded data should differ from input")
	}
	dec := XORWords(enc, key)
	if !bytes.Equal(dec, data) {
		t.Errorf("round trip = %x, want %x", dec, data)
	}
}

func TestXORWords_LittleEndian(t *testing.T) {
	got := XORWords([]byte{0, 0, 0, 0}, 0x11223344)
	want := []byte{0x44, 0x33, 0x22, 0x11}
	if !bytes.Equal(got, want) {
		t.Errorf("XORWords = %x, want %x", got, want)
	}
}

func TestXORWords_DoesNotMutateInput(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	_ = XORWords(data, 0xFFFFFFFF)
	if !bytes.Equal(data, []byte{1, 2, 3, 4, 5}) {
		t.Errorf("input mutated: %x", data)
	}
}

func TestXORUint16_UsesLowHalf(t *testing.T) {
	if got := XORUint16(0x00FF, 0xABCD1234); got != 0x12CB {
		t.Errorf("XORUint16 = 0x%04x, want 0x12cb", got)
	}
	if got := XORUint32(999999, 0); got != 999999 {
		t.Errorf("XORUint32 with zero key = %d", got)
	}
}
