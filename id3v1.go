// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"errors"
	"io"
)

// ErrNotID3v1 is returned by ReadID3v1Tags when the last 128 bytes of the
// source do not carry the "TAG" magic.
var ErrNotID3v1 = errors.New("tag: not ID3v1")

const id3v1Size = 128

// ReadID3v1Tags decodes the fixed 128-byte ID3v1 trailer at the end of
// r, per spec.md §4.6. It leaves r positioned at the end of the source
// and does not restore the previous position; callers combining this with
// MP3 sync seek r again before scanning.
func ReadID3v1Tags(r io.ReadSeeker) (*MetadataContainer, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if end < id3v1Size {
		return nil, ErrNotID3v1
	}
	if _, err := r.Seek(end-id3v1Size, io.SeekStart); err != nil {
		return nil, err
	}
	b, err := readBytes(r, id3v1Size)
	if err != nil {
		return nil, err
	}
	if string(b[0:3]) != "TAG" {
		return nil, ErrNotID3v1
	}
	return decodeID3v1(b)
}

func decodeID3v1(b []byte) (*MetadataContainer, error) {
	c := NewMetadataContainer()

	name := string(trimNulSpace(b[3:33]))
	artist := string(trimNulSpace(b[33:63]))
	album := string(trimNulSpace(b[63:93]))
	year := string(trimNulSpace(b[93:97]))
	commentField := b[97:127]
	genreByte := b[127]

	setTextIfPresent(c, "name", name)
	setTextIfPresent(c, "artist", artist)
	setTextIfPresent(c, "album", album)
	if year != "" {
		_ = c.Set("year", year)
	}

	var commentText string
	if commentField[28] == 0x00 && commentField[29] != 0x00 {
		commentText = string(trimNulSpace(commentField[:28]))
		_ = c.Set("track", int(commentField[29]))
	} else {
		commentText = string(trimNulSpace(commentField))
	}
	setTextIfPresent(c, "comment", commentText)

	if genreByte != 0xFF {
		if name, ok := genreByIndex(int(genreByte)); ok {
			_ = c.Set("genre", name)
		}
	}

	c.Reset()
	return c, nil
}

func setTextIfPresent(c *MetadataContainer, field, value string) {
	if value == "" {
		return
	}
	_ = c.Set(field, value)
}

// EncodeID3v1 serializes c into a fixed 128-byte ID3v1 trailer. Track is
// written only when in [1,255]; an unrecognised or absent genre writes
// 0xFF.
func EncodeID3v1(c *MetadataContainer) [128]byte {
	var b [128]byte
	copy(b[0:3], "TAG")

	writeFixedText(b[3:33], textOf(c, "name"))
	writeFixedText(b[33:63], textOf(c, "artist"))
	writeFixedText(b[63:93], textOf(c, "album"))
	writeFixedText(b[93:97], textOf(c, "year"))

	comment := textOf(c, "comment")
	track, hasTrack := c.Get("track")
	if hasTrack {
		pair := track.(UintPair)
		if pair.A >= 1 && pair.A <= 255 {
			writeFixedText(b[97:125], comment)
			b[125] = 0
			b[126] = byte(pair.A)
			writeGenreByte(b[127:128], c)
			return b
		}
	}
	writeFixedText(b[97:127], comment)
	writeGenreByte(b[127:128], c)
	return b
}

func writeGenreByte(dst []byte, c *MetadataContainer) {
	dst[0] = 0xFF
	if g, ok := c.Get("genre"); ok {
		if idx, ok := genreIndexByName(g.(string)); ok {
			dst[0] = byte(idx)
		}
	}
}

func textOf(c *MetadataContainer, field string) string {
	v, ok := c.Get(field)
	if !ok {
		return ""
	}
	if year, isUint16 := v.(uint16); isUint16 && field == "year" {
		return uint16ToDecimal(year)
	}
	s, _ := v.(string)
	return s
}

func uint16ToDecimal(n uint16) string {
	if n == 0 {
		return ""
	}
	digits := [5]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

func writeFixedText(dst []byte, s string) {
	b, err := latin1Encoder.Bytes([]byte(s))
	if err != nil {
		b = []byte(s)
	}
	copy(dst, nulPad(b, len(dst)))
}
