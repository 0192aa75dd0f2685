// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"testing"
)

func buildMP4Atom(fourcc string, payload []byte) []byte {
	out := make([]byte, 8+len(payload))
	copy(out[0:4], putUint32BE(uint32(8+len(payload))))
	copy(out[4:8], fourcc)
	copy(out[8:], payload)
	return out
}

func buildMP4TextAtom(fourcc, value string) []byte {
	dataPayload := append([]byte{1, 0, 0, 0, 0, 0, 0, 0}, []byte(value)...)
	dataAtom := buildMP4Atom("data", dataPayload)
	return buildMP4Atom(fourcc, dataAtom)
}

func buildMP4File(ilstChildren ...[]byte) []byte {
	var ilstPayload bytes.Buffer
	for _, c := range ilstChildren {
		ilstPayload.Write(c)
	}
	ilst := buildMP4Atom("ilst", ilstPayload.Bytes())

	metaPayload := append([]byte{0, 0, 0, 0}, ilst...)
	meta := buildMP4Atom("meta", metaPayload)
	udta := buildMP4Atom("udta", meta)
	moov := buildMP4Atom("moov", udta)
	ftyp := buildMP4Atom("ftyp", make([]byte, 8))

	var out bytes.Buffer
	out.Write(ftyp)
	out.Write(moov)
	return out.Bytes()
}

func TestReadMP4TagsTextAtom(t *testing.T) {
	nam := buildMP4TextAtom("\xa9nam", "Title")
	alb := buildMP4TextAtom("\xa9alb", "Album")
	data := buildMP4File(nam, alb)

	c, err := ReadMP4Tags(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadMP4Tags: %v", err)
	}
	if v, _ := c.Get("name"); v != "Title" {
		t.Errorf("name = %v, want Title", v)
	}
	if v, _ := c.Get("album"); v != "Album" {
		t.Errorf("album = %v, want Album", v)
	}
}

func TestReadMP4TagsTrackPair(t *testing.T) {
	trknPayload := append([]byte{1, 0, 0, 0, 0, 0, 0, 0}, 0, 0, 0, 3, 0, 10, 0, 0)
	dataAtom := buildMP4Atom("data", trknPayload)
	trkn := buildMP4Atom("trkn", dataAtom)
	data := buildMP4File(trkn)

	c, err := ReadMP4Tags(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadMP4Tags: %v", err)
	}
	v, ok := c.Get("track")
	if !ok {
		t.Fatal("track not set")
	}
	pair := v.(UintPair)
	if pair.A != 3 || pair.B != 10 {
		t.Errorf("track = %+v, want {3 10}", pair)
	}
}

func TestReadMP4TagsRejectsMissingFtyp(t *testing.T) {
	data := buildMP4Atom("moov", nil)
	if _, err := ReadMP4Tags(bytes.NewReader(data)); err == nil {
		t.Fatal("expected an error when the first atom is not ftyp")
	}
}
