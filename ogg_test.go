// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"testing"
)

// buildOGGPage assembles one OGG page: "OggS" + 22-byte common header +
// page_segments count + segment table + payload. continuation sets bit 0
// of header_type_flag.
func buildOGGPage(payload []byte, continuation bool) []byte {
	var b bytes.Buffer
	b.WriteString("OggS")
	b.WriteByte(0) // stream_structure_version
	ht := byte(0)
	if continuation {
		ht |= 0x01
	}
	b.WriteByte(ht)
	b.Write(make([]byte, 8)) // granule position
	b.Write(make([]byte, 4)) // serial number
	b.Write(make([]byte, 4)) // page sequence number
	b.Write(make([]byte, 4)) // crc

	// Lace the payload into 255-byte segments, per spec.md §4.9.
	var segments []byte
	remaining := len(payload)
	for remaining >= 255 {
		segments = append(segments, 255)
		remaining -= 255
	}
	segments = append(segments, byte(remaining))
	b.WriteByte(byte(len(segments)))
	b.Write(segments)
	b.Write(payload)
	return b.Bytes()
}

func buildOGGFile(commentPayload []byte) []byte {
	idPacket := make([]byte, 30)
	idPacket[0] = oggIdentificationPacket
	page0 := buildOGGPage(idPacket, false)

	var commentPacket bytes.Buffer
	commentPacket.WriteByte(oggCommentPacket)
	commentPacket.WriteString("vorbis")
	commentPacket.Write(commentPayload)
	page1 := buildOGGPage(commentPacket.Bytes(), false)

	var out bytes.Buffer
	out.Write(page0)
	out.Write(page1)
	return out.Bytes()
}

func TestReadOGGTagsVorbisComment(t *testing.T) {
	payload := buildVorbisPayload("test-encoder", []string{"TITLE=Song", "ALBUM=Record"})
	data := buildOGGFile(payload)

	c, err := ReadOGGTags(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadOGGTags: %v", err)
	}
	if v, _ := c.Get("name"); v != "Song" {
		t.Errorf("name = %v, want Song", v)
	}
	if v, _ := c.Get("album"); v != "Record" {
		t.Errorf("album = %v, want Record", v)
	}
}

func TestReadOGGTagsRejectsBadMagic(t *testing.T) {
	if _, err := ReadOGGTags(bytes.NewReader([]byte("XXXX"))); err == nil {
		t.Fatal("expected an error for a non-OggS magic")
	}
}
