// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func buildVorbisPayload(vendor string, entries []string) []byte {
	var b bytes.Buffer
	writeLenPrefixed := func(s string) {
		var lenBuf [4]byte
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
		b.Write(lenBuf[:])
		b.WriteString(s)
	}
	writeLenPrefixed(vendor)
	var countBuf [4]byte
	binary.LittleEndian.PutUint32(countBuf[:], uint32(len(entries)))
	b.Write(countBuf[:])
	for _, e := range entries {
		writeLenPrefixed(e)
	}
	return b.Bytes()
}

func buildFLACFile(vorbisPayload []byte) []byte {
	var b bytes.Buffer
	b.WriteString("fLaC")

	header := make([]byte, 4)
	header[0] = 0x80 | byte(flacVorbisCommentBlock) // last block
	size := len(vorbisPayload)
	header[1] = byte(size >> 16)
	header[2] = byte(size >> 8)
	header[3] = byte(size)
	b.Write(header)
	b.Write(vorbisPayload)
	return b.Bytes()
}

func TestReadFLACTagsVorbisComment(t *testing.T) {
	payload := buildVorbisPayload("test-encoder", []string{"TITLE=Song", "ARTIST=Band"})
	data := buildFLACFile(payload)

	c, err := ReadFLACTags(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadFLACTags: %v", err)
	}
	if v, _ := c.Get("name"); v != "Song" {
		t.Errorf("name = %v, want Song", v)
	}
	if v, _ := c.Get("artist"); v != "Band" {
		t.Errorf("artist = %v, want Band", v)
	}
}

func TestReadFLACTagsRejectsBadMagic(t *testing.T) {
	if _, err := ReadFLACTags(bytes.NewReader([]byte("XXXX0000"))); err == nil {
		t.Fatal("expected an error for a non-fLaC magic")
	}
}
