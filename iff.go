// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"errors"
	"io"
)

var errNotIFF = errors.New("tag: not an IFF/RIFF container")

// iffLeafAttrs maps a leaf chunk id to the TEXT attribute it populates,
// per spec.md §4.7 (sourced from original_source/new.py's IFF_IDS).
var iffLeafAttrs = map[string]string{
	"IART": "artist",
	"AUTH": "artist",
	"ICMT": "comment",
	"ANNO": "comment",
	"ICRD": "year",
	"INAM": "name",
	"NAME": "name",
	"IGNR": "genre",
	"ISFT": "encoder",
}

var iffContainerIDs = map[string]bool{
	"RIFF": true, "FORM": true, "LIST": true, "CAT ": true,
}

// iffDecodeResult is what ReadIFFTags returns: the populated container
// plus, when an embedded MP3 `data` chunk was found, its span (so the
// caller can decide whether the file is MP3-editable).
type iffDecodeResult struct {
	Container *MetadataContainer
	MP3Start  int64
	MP3End    int64
	HasMP3    bool
}

// ReadIFFTags walks an IFF/AIFF/RIFF container starting at the source's
// current position, dispatching known leaf chunks to TEXT attributes, an
// `ID3 ` chunk to the ID3v2 decoder, and a `data` chunk to an MP3 sync
// attempt.
func ReadIFFTags(r io.ReadSeeker) (*iffDecodeResult, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	id, err := readString(r, 4)
	if err != nil {
		return nil, newDecodeError("iff", err)
	}
	if !iffContainerIDs[id] {
		return nil, newDecodeError("iff", errNotIFF)
	}
	bigEndian := id != "RIFF"

	size, err := readChunkSize(r, bigEndian)
	if err != nil {
		return nil, newDecodeError("iff", err)
	}
	end := start + 8 + int64(size)

	c := NewMetadataContainer()
	res := &iffDecodeResult{Container: c}

	if _, err := readBytes(r, 4); err != nil { // form-type, unused
		return nil, newDecodeError("iff", err)
	}

	if err := walkIFFChunks(r, end, bigEndian, c, res); err != nil {
		return nil, err
	}
	c.Reset()
	return res, nil
}

func readChunkSize(r io.Reader, bigEndian bool) (uint32, error) {
	if bigEndian {
		return readUint32BigEndian(r)
	}
	return readUint32LittleEndian(r)
}

// walkIFFChunks reads sibling chunks until pos reaches end, recursing into
// container chunks and dispatching leaves per spec.md §4.7.
func walkIFFChunks(r io.ReadSeeker, end int64, bigEndian bool, c *MetadataContainer, res *iffDecodeResult) error {
	for {
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return newDecodeError("iff", err)
		}
		if pos+8 > end {
			return nil
		}

		id, err := readString(r, 4)
		if err != nil {
			return newDecodeError("iff", err)
		}
		size, err := readChunkSize(r, bigEndian)
		if err != nil {
			return newDecodeError("iff", err)
		}
		payloadStart := pos + 8
		payloadEnd := payloadStart + int64(size)
		if payloadEnd > end {
			return nil
		}
		nextPos := payloadEnd
		if size%2 == 1 {
			nextPos++ // even-padding rule
		}

		switch {
		case iffContainerIDs[id]:
			if _, err := readBytes(r, 4); err != nil { // nested form-type
				return newDecodeError("iff", err)
			}
			if err := walkIFFChunks(r, payloadEnd, bigEndian, c, res); err != nil {
				return err
			}
		case id == "ID3 ":
			sub, err := ReadID3v2Tags(r)
			if err == nil {
				mergeContainer(c, sub.Container)
			}
		case id == "data":
			if sync, err := syncMP3(r); err == nil {
				res.HasMP3 = true
				res.MP3Start = sync.Offset
				res.MP3End = payloadEnd
			}
		default:
			if attr, known := iffLeafAttrs[id]; known {
				payload, err := readBytes(r, uint(size))
				if err == nil {
					text := string(bytes.TrimRight(payload, "\x00 "))
					_ = c.Set(attr, text)
				}
			}
		}

		if _, err := r.Seek(nextPos, io.SeekStart); err != nil {
			return newDecodeError("iff", err)
		}
	}
}

// mergeContainer copies every set public field from src into dst,
// without overwriting a field dst already has.
func mergeContainer(dst, src *MetadataContainer) {
	for _, name := range src.IteratePublic() {
		if _, has := dst.Get(name); has {
			continue
		}
		if v, ok := src.Get(name); ok {
			_ = dst.Set(name, v)
		}
	}
}

