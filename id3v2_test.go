// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"testing"
)

// buildID3v23TALB encodes a minimal ID3v2.3 tag with a single TALB frame
// whose payload is ISO-8859-1 encoding byte 0x00 followed by album.
func buildID3v23TALB(album string) []byte {
	payload := append([]byte{encLatin1}, []byte(album)...)
	frame := make([]byte, 10+len(payload))
	copy(frame[0:4], "TALB")
	sz := putUint32BE(uint32(len(payload)))
	copy(frame[4:8], sz)
	// frame[8:10] flags already zero
	copy(frame[10:], payload)

	var header [10]byte
	copy(header[0:3], "ID3")
	header[3] = 3 // version
	header[4] = 0 // revision
	header[5] = 0 // flags
	sync := toSyncsafe(uint32(len(frame)))
	copy(header[6:10], sync[:])

	return append(header[:], frame...)
}

func TestReadID3v2TagsTALB(t *testing.T) {
	data := buildID3v23TALB("Album")
	r := bytes.NewReader(data)

	res, err := ReadID3v2Tags(r)
	if err != nil {
		t.Fatalf("ReadID3v2Tags: %v", err)
	}
	if res.Version != 3 {
		t.Errorf("Version = %d, want 3", res.Version)
	}
	if want := int64(len(data)); res.End != want {
		t.Errorf("End = %d, want %d", res.End, want)
	}
	album, ok := res.Container.Get("album")
	if !ok || album.(string) != "Album" {
		t.Errorf("album = %v, %v; want \"Album\", true", album, ok)
	}
}

func TestReadID3v2RejectsBadMagic(t *testing.T) {
	r := bytes.NewReader([]byte("XX3\x03\x00\x00\x00\x00\x00\x00"))
	if _, err := ReadID3v2Tags(r); err == nil {
		t.Fatal("expected an error for a non-ID3 magic")
	}
}

func TestID3v2EncodeDecodeRoundTrip(t *testing.T) {
	c := NewMetadataContainer()
	if err := c.Set("album", "Round Trip"); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("name", "Title"); err != nil {
		t.Fatal(err)
	}

	encoded, err := encodeID3v2(c, 3, false, 0)
	if err != nil {
		t.Fatalf("encodeID3v2: %v", err)
	}

	res, err := ReadID3v2Tags(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("ReadID3v2Tags on encoded bytes: %v", err)
	}
	album, _ := res.Container.Get("album")
	name, _ := res.Container.Get("name")
	if album != "Round Trip" {
		t.Errorf("album = %v, want %q", album, "Round Trip")
	}
	if name != "Title" {
		t.Errorf("name = %v, want %q", name, "Title")
	}
}

func TestID3v2VolumeRoundTrip(t *testing.T) {
	for _, version := range []int{2, 3, 4} {
		c := NewMetadataContainer()
		if err := c.Set("volume", 12.5); err != nil {
			t.Fatal(err)
		}
		encoded, err := encodeID3v2(c, version, false, 0)
		if err != nil {
			t.Fatalf("version %d: encodeID3v2: %v", version, err)
		}
		res, err := ReadID3v2Tags(bytes.NewReader(encoded))
		if err != nil {
			t.Fatalf("version %d: ReadID3v2Tags: %v", version, err)
		}
		v, ok := res.Container.Get("volume")
		if !ok {
			t.Fatalf("version %d: volume not set after round trip", version)
		}
		pct := v.(float64)
		if pct < 12.0 || pct > 13.0 {
			t.Errorf("version %d: volume round-tripped to %v, want ~12.5", version, pct)
		}
	}
}
