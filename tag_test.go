// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"io"
	"testing"
)

// memSource is an in-memory io.ReadWriteSeeker backing a []byte, used to
// exercise MP3Editor's Save (in-place rewrite) without touching disk.
type memSource struct {
	buf []byte
	pos int64
}

func newMemSource(b []byte) *memSource {
	out := make([]byte, len(b))
	copy(out, b)
	return &memSource{buf: out}
}

func (m *memSource) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memSource) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:end], p)
	m.pos += int64(n)
	return n, nil
}

func (m *memSource) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = m.pos + offset
	case io.SeekEnd:
		target = int64(len(m.buf)) + offset
	}
	m.pos = target
	return m.pos, nil
}

func buildBareMP3Frame() []byte {
	frame := []byte{0xFF, 0xFB, 0x90, 0x40}
	payload := make([]byte, 417)
	copy(payload, frame)
	out := make([]byte, 0, 417*2)
	out = append(out, payload...)
	out = append(out, payload...)
	return out
}

func TestOpenDispatchesFLAC(t *testing.T) {
	payload := buildVorbisPayload("enc", []string{"TITLE=FLAC Song"})
	data := buildFLACFile(payload)

	v, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if name, _ := v.Get("name"); name != "FLAC Song" {
		t.Errorf("name = %v, want \"FLAC Song\"", name)
	}
}

func TestOpenDispatchesBareMP3(t *testing.T) {
	id3v2 := buildID3v23TALB("MP3 Album")
	data := append(append([]byte{}, id3v2...), buildBareMP3Frame()...)

	v, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if album, _ := v.Get("album"); album != "MP3 Album" {
		t.Errorf("album = %v, want \"MP3 Album\"", album)
	}
}

func TestOpenNoTagsFound(t *testing.T) {
	data := make([]byte, 16)
	if _, err := Open(bytes.NewReader(data)); err != ErrNoTagsFound {
		t.Errorf("err = %v, want ErrNoTagsFound", err)
	}
}

func TestMP3EditorSaveRoundTrip(t *testing.T) {
	id3v2 := buildID3v23TALB("Original")
	mp3 := buildBareMP3Frame()
	src := newMemSource(append(append([]byte{}, id3v2...), mp3...))

	e, err := OpenMP3Editor(src)
	if err != nil {
		t.Fatalf("OpenMP3Editor: %v", err)
	}
	if err := e.Set("album", "Updated"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := e.Save(3, false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	v, err := Open(bytes.NewReader(src.buf))
	if err != nil {
		t.Fatalf("re-Open after Save: %v", err)
	}
	if album, _ := v.Get("album"); album != "Updated" {
		t.Errorf("album after Save = %v, want Updated", album)
	}
}

func TestMP3EditorDump(t *testing.T) {
	id3v2 := buildID3v23TALB("Original")
	mp3 := buildBareMP3Frame()
	src := newMemSource(append(append([]byte{}, id3v2...), mp3...))

	e, err := OpenMP3Editor(src)
	if err != nil {
		t.Fatalf("OpenMP3Editor: %v", err)
	}
	if err := e.Set("name", "New Title"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var out bytes.Buffer
	if err := e.Dump(&out, 3, false, 0); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	v, err := Open(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("Open dumped bytes: %v", err)
	}
	if name, _ := v.Get("name"); name != "New Title" {
		t.Errorf("name = %v, want \"New Title\"", name)
	}
}
