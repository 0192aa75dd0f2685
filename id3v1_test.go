// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"testing"
)

func buildID3v1(name, artist, album, year, comment string, track, genre byte) []byte {
	var b [128]byte
	copy(b[0:3], "TAG")
	copy(b[3:33], name)
	copy(b[33:63], artist)
	copy(b[63:93], album)
	copy(b[93:97], year)
	copy(b[97:125], comment)
	b[125] = 0
	b[126] = track
	b[127] = genre
	return b[:]
}

func TestReadID3v1Tags(t *testing.T) {
	data := buildID3v1("Title", "Artist", "Album", "1999", "Comment", 5, 0)
	r := bytes.NewReader(data)

	c, err := ReadID3v1Tags(r)
	if err != nil {
		t.Fatalf("ReadID3v1Tags: %v", err)
	}
	if v, _ := c.Get("name"); v != "Title" {
		t.Errorf("name = %v, want Title", v)
	}
	if v, _ := c.Get("artist"); v != "Artist" {
		t.Errorf("artist = %v, want Artist", v)
	}
	if v, _ := c.Get("album"); v != "Album" {
		t.Errorf("album = %v, want Album", v)
	}
	if v, ok := c.Get("year"); !ok || v.(uint16) != 1999 {
		t.Errorf("year = %v, %v; want 1999, true", v, ok)
	}
	if v, _ := c.Get("comment"); v != "Comment" {
		t.Errorf("comment = %v, want Comment", v)
	}
	track, ok := c.Get("track")
	if !ok || track.(UintPair).A != 5 {
		t.Errorf("track = %v, %v; want 5, true", track, ok)
	}
}

func TestReadID3v1TagsRejectsMissingMagic(t *testing.T) {
	data := make([]byte, 128)
	r := bytes.NewReader(data)
	if _, err := ReadID3v1Tags(r); err != ErrNotID3v1 {
		t.Errorf("err = %v, want ErrNotID3v1", err)
	}
}

func TestEncodeID3v1RoundTrip(t *testing.T) {
	c := NewMetadataContainer()
	for field, value := range map[string]interface{}{
		"name":   "Title",
		"artist": "Artist",
		"album":  "Album",
	} {
		if err := c.Set(field, value); err != nil {
			t.Fatalf("Set(%q): %v", field, err)
		}
	}
	if err := c.Set("comment", "Hello"); err != nil {
		t.Fatal(err)
	}

	encoded := EncodeID3v1(c)
	decoded, err := decodeID3v1(encoded[:])
	if err != nil {
		t.Fatalf("decodeID3v1: %v", err)
	}
	if v, _ := decoded.Get("name"); v != "Title" {
		t.Errorf("name = %v, want Title", v)
	}
	if v, _ := decoded.Get("artist"); v != "Artist" {
		t.Errorf("artist = %v, want Artist", v)
	}
}
