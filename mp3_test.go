// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"testing"
)

func TestDecodeMP3HeaderFrameLength(t *testing.T) {
	h, err := decodeMP3Header([]byte{0xFF, 0xFB, 0x90, 0x40})
	if err != nil {
		t.Fatalf("decodeMP3Header: %v", err)
	}
	if h.Version != mpegV1 {
		t.Errorf("Version = %v, want mpegV1", h.Version)
	}
	if h.Layer != 3 {
		t.Errorf("Layer = %v, want 3", h.Layer)
	}
	if got, want := h.bitrate(), 128; got != want {
		t.Errorf("bitrate = %d, want %d", got, want)
	}
	if got, want := h.sampleRate(), 44100; got != want {
		t.Errorf("sampleRate = %d, want %d", got, want)
	}
	if got, want := h.frameLength(), 417; got != want {
		t.Errorf("frameLength = %d, want %d", got, want)
	}
}

func TestDecodeMP3HeaderRejectsBadSync(t *testing.T) {
	if _, err := decodeMP3Header([]byte{0x00, 0x00, 0x00, 0x00}); err == nil {
		t.Fatal("expected an error for a non-sync header")
	}
}

func TestSyncMP3FindsFrameAfterJunk(t *testing.T) {
	frame := []byte{0xFF, 0xFB, 0x90, 0x40}
	payload := make([]byte, 417)
	copy(payload, frame)

	var buf bytes.Buffer
	buf.Write([]byte{0x00, 0x01, 0x02}) // leading junk, no sync byte
	buf.Write(payload)
	buf.Write(payload) // second frame so the look-ahead header validates

	r := bytes.NewReader(buf.Bytes())
	res, err := syncMP3(r)
	if err != nil {
		t.Fatalf("syncMP3: %v", err)
	}
	if res.Offset != 3 {
		t.Errorf("Offset = %d, want 3", res.Offset)
	}
	if res.Length != 417 {
		t.Errorf("Length = %d, want 417", res.Length)
	}
}
