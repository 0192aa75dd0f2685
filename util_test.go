// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"testing"
)

func TestGetBit(t *testing.T) {
	for i := uint(0); i < 8; i++ {
		b := byte(1 << i)
		got := getBit(b, i)
		if !got {
			t.Errorf("getBit(%v, %v) = %v, expected %v", b, i, got, true)
		}
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		input  []byte
		output int
	}{
		{[]byte{}, 0},
		{[]byte{0x01}, 1},
		{[]byte{0xF1, 0xF2}, 0xF1F2},
		{[]byte{0xF1, 0xF2, 0xF3}, 0xF1F2F3},
		{[]byte{0xF1, 0xF2, 0xF3, 0xF4}, 0xF1F2F3F4},
	}

	for ii, tt := range tests {
		got := getInt(tt.input)
		if got != tt.output {
			t.Errorf("[%d] getInt(%v) = %v, expected %v", ii, tt.input, got, tt.output)
		}
	}
}

// TestSyncsafeRoundTrip covers invariant 3: toSyncsafe/fromSyncsafe must
// round-trip every 28-bit value, and every encoded byte must have its top
// bit clear.
func TestSyncsafeRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 127, 128, 129, 16384, 0x0fffffff}
	for _, v := range values {
		enc := toSyncsafe(v)
		for i, b := range enc {
			if b&0x80 != 0 {
				t.Errorf("toSyncsafe(%d)[%d] = %#x, top bit set", v, i, b)
			}
		}
		got := fromSyncsafe(enc[:])
		if got != v {
			t.Errorf("fromSyncsafe(toSyncsafe(%d)) = %d, want %d", v, got, v)
		}
	}
}

func TestFromSyncsafeKnownBytes(t *testing.T) {
	// 0x00 0x00 0x02 0x01 -> (2<<7)|1 = 257, per the two equivalent
	// formulas spec.md §4.4 states for decoding a syncsafe integer.
	got := fromSyncsafe([]byte{0x00, 0x00, 0x02, 0x01})
	if got != 257 {
		t.Errorf("fromSyncsafe(0x00000201) = %d, want 257", got)
	}
}

func TestReadUint32LittleEndian(t *testing.T) {
	r := bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	got, err := readUint32LittleEndian(r)
	if err != nil {
		t.Fatal(err)
	}
	if want := uint32(0x04030201); got != want {
		t.Errorf("readUint32LittleEndian = %#x, want %#x", got, want)
	}
}

func TestReadUint32BigEndian(t *testing.T) {
	r := bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	got, err := readUint32BigEndian(r)
	if err != nil {
		t.Fatal(err)
	}
	if want := uint32(0x01020304); got != want {
		t.Errorf("readUint32BigEndian = %#x, want %#x", got, want)
	}
}

func TestNulPad(t *testing.T) {
	got := nulPad([]byte("ab"), 5)
	want := []byte{'a', 'b', 0, 0, 0}
	if !bytes.Equal(got, want) {
		t.Errorf("nulPad = %v, want %v", got, want)
	}
}

func TestTrimNulSpace(t *testing.T) {
	got := trimNulSpace([]byte("abc \x00\x00"))
	if string(got) != "abc" {
		t.Errorf("trimNulSpace = %q, want %q", got, "abc")
	}
}
