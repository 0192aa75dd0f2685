// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// vorbisAliases maps a lowercase VorbisComment key to the attribute it
// populates, per spec.md §4.9 ("resolve via the vorbis-tag alias table").
// TRACKNUMBER/TRACKTOTAL and DISCNUMBER/DISCTOTAL are paired separately.
var vorbisAliases = map[string]string{
	"title":           "name",
	"artist":          "artist",
	"album":           "album",
	"albumartist":     "album_artist",
	"composer":        "composer",
	"genre":           "genre",
	"date":            "year",
	"comment":         "comment",
	"description":     "comment",
	"lyrics":          "lyrics",
	"encoder":         "encoder",
	"compilation":     "compilation",
	"bpm":             "bpm",
	"grouping":        "grouping",
	"albumartistsort": "sort_album_artist",
	"artistsort":      "sort_artist",
	"albumsort":       "sort_album",
	"composersort":    "sort_composer",
	"titlesort":       "sort_name",
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// decodeVorbisComments implements the shared payload format of spec.md
// §4.9, hosted verbatim inside both a FLAC VorbisComment block and an OGG
// comment packet: a little-endian u32 length + UTF-8 vendor string, a u32
// count, then count entries of u32 length + UTF-8 "key=value".
func decodeVorbisComments(r io.Reader) (*MetadataContainer, error) {
	vendorLen, err := readUint32LittleEndian(r)
	if err != nil {
		return nil, err
	}
	if _, err := readString(r, uint(vendorLen)); err != nil {
		return nil, err
	}

	count, err := readUint32LittleEndian(r)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]string)
	for i := uint32(0); i < count; i++ {
		entryLen, err := readUint32LittleEndian(r)
		if err != nil {
			return nil, err
		}
		entry, err := readString(r, uint(entryLen))
		if err != nil {
			return nil, err
		}
		idx := strings.IndexByte(entry, '=')
		if idx < 0 {
			continue
		}
		raw[strings.ToLower(entry[:idx])] = entry[idx+1:]
	}

	c := NewMetadataContainer()
	applyVorbisFields(raw, c)
	c.Reset()
	return c, nil
}

func applyVorbisFields(raw map[string]string, c *MetadataContainer) {
	for key, attr := range vorbisAliases {
		v, ok := raw[key]
		if !ok {
			continue
		}
		if attr == "genre" {
			setVorbisGenre(c, v)
			continue
		}
		_ = c.Set(attr, v)
	}
	setVorbisPair(c, "track", "tracknumber", "tracktotal", raw)
	setVorbisPair(c, "disk", "discnumber", "disctotal", raw)
}

// setVorbisGenre implements "GENRE values that are pure digits parse as
// index; otherwise treat the (N) form as in ID3v2" (the latter is handled
// by validateGenre's own resolveGenreText call).
func setVorbisGenre(c *MetadataContainer, v string) {
	if allDigits(v) {
		n, _ := strconv.Atoi(v)
		_ = c.Set("genre", n)
		return
	}
	_ = c.Set("genre", v)
}

func setVorbisPair(c *MetadataContainer, attr, numKey, totKey string, raw map[string]string) {
	n, hasN := raw[numKey]
	t, hasT := raw[totKey]
	if !hasN && !hasT {
		return
	}
	a, _ := strconv.Atoi(n)
	b, _ := strconv.Atoi(t)
	if a == 0 && b == 0 {
		return
	}
	_ = c.Set(attr, fmt.Sprintf("%d/%d", a, b))
}
