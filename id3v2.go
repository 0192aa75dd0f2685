// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"io"
)

// id3v2Header is the 10-byte ID3v2 tag header (spec.md §4.4).
type id3v2Header struct {
	Version  int
	Revision byte
	Flags    byte
	Size     uint32 // tag size, excludes the 10-byte header itself
}

const id3v2HeaderSize = 10

func readID3v2Header(r io.Reader) (*id3v2Header, error) {
	b, err := readBytes(r, id3v2HeaderSize)
	if err != nil {
		return nil, newDecodeError("id3v2", err)
	}
	if string(b[0:3]) != "ID3" {
		return nil, newDecodeError("id3v2", errNotID3v2)
	}
	version := int(b[3])
	if version != 2 && version != 3 && version != 4 {
		return nil, newDecodeError("id3v2", errUnsupportedID3v2Version)
	}
	// b[4] (revision) and any non-zero flags byte are both ignored: neither
	// aborts decoding, per spec.md §4.4 and the Open Question in §9.
	return &id3v2Header{
		Version:  version,
		Revision: b[4],
		Flags:    b[5],
		Size:     fromSyncsafe(b[6:10]),
	}, nil
}

type errID3v2 string

func (e errID3v2) Error() string { return string(e) }

const (
	errNotID3v2                 = errID3v2("expected \"ID3\" magic")
	errUnsupportedID3v2Version  = errID3v2("unsupported ID3v2 version")
)

// frameHeaderSize returns the size in bytes of one frame header
// (tag-id + size + flags) for an ID3v2 version.
func frameHeaderSize(version int) int {
	if version == 2 {
		return 6
	}
	return 10
}

// readFrameHeader reads one frame header and returns its tag-id and
// declared payload size. The size field is syncsafe only for v4.
func readFrameHeader(r io.Reader, version int) (tagID string, size int, err error) {
	if version == 2 {
		tagID, err = readString(r, 3)
		if err != nil {
			return "", 0, err
		}
		n, err := readInt(r, 3)
		return tagID, n, err
	}

	tagID, err = readString(r, 4)
	if err != nil {
		return "", 0, err
	}
	sizeBytes, err := readBytes(r, 4)
	if err != nil {
		return "", 0, err
	}
	if version == 4 {
		size = int(fromSyncsafe(sizeBytes))
	} else {
		size = getInt(sizeBytes)
	}
	if _, err = readBytes(r, 2); err != nil { // frame flags: ignored, see §4.4/§9
		return "", 0, err
	}
	return tagID, size, nil
}

// isValidTagID matches the frame-id grammar ^[A-Z0-9 ]{3,4}$.
func isValidTagID(s string) bool {
	if len(s) < 3 || len(s) > 4 {
		return false
	}
	for _, c := range s {
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == ' ') {
			return false
		}
	}
	return true
}

// id3v2DecodeResult carries everything ReadID3v2Tags produces beyond the
// MetadataContainer: the span of the tag (for MP3 span partitioning) and
// the version, needed so MP3Editor.Save can default to the source's
// existing version.
type id3v2DecodeResult struct {
	Container *MetadataContainer
	Version   int
	Start     int64
	End       int64 // exclusive, start of the first byte after the tag
}

// ReadID3v2Tags decodes an ID3v2.{2,3,4} tag starting at the source's
// current position (expected to be offset 0), per spec.md §4.4.
func ReadID3v2Tags(r io.ReadSeeker) (*id3v2DecodeResult, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	h, err := readID3v2Header(r)
	if err != nil {
		return nil, err
	}

	c := NewMetadataContainer()
	if err := readID3v2Frames(r, h, c); err != nil {
		return nil, err
	}
	c.Reset()

	return &id3v2DecodeResult{
		Container: c,
		Version:   h.Version,
		Start:     start,
		End:       start + id3v2HeaderSize + int64(h.Size),
	}, nil
}

// readID3v2Frames implements the per-spec frame loop: stop on short
// remaining bytes, an invalid tag-id, or a frame size exceeding what
// remains. A single frame's decode/validation failure is swallowed
// (partial recovery) and scanning continues.
func readID3v2Frames(r io.Reader, h *id3v2Header, c *MetadataContainer) error {
	hs := frameHeaderSize(h.Version)
	remaining := int(h.Size)

	for remaining >= hs {
		tagID, size, err := readFrameHeader(r, h.Version)
		if err != nil {
			return newDecodeError("id3v2", err)
		}
		remaining -= hs

		if !isValidTagID(tagID) {
			// Treat the rest of the tag as padding and stop, per spec.md §4.4.
			if size > 0 && size <= remaining {
				if _, err := readBytes(r, uint(size)); err != nil {
					return nil
				}
			}
			return nil
		}
		if size < 0 || size > remaining {
			return nil
		}

		payload, err := readBytes(r, uint(size))
		if err != nil {
			return newDecodeError("id3v2", err)
		}
		remaining -= size

		decodeID3v2Frame(h.Version, tagID, payload, c)
	}
	return nil
}

// decodeID3v2Frame dispatches one frame's payload to the decoder for its
// attribute's kind. Decode/validation failures are swallowed; unrecognised
// tag-ids accumulate into _unknown.
func decodeID3v2Frame(version int, tagID string, payload []byte, c *MetadataContainer) {
	attr, known := id3v2TagsForVersion(version)[tagID]
	if !known {
		c.addUnknownFrame(tagID, payload)
		return
	}

	switch attr {
	case "_comment":
		decodeDictFrame(payload, "_comment", c)
	case "_lyrics":
		decodeDictFrame(payload, "_lyrics", c)
	case "_image":
		decodeImageFrame(version, tagID, payload, c)
	case "volume":
		decodeVolumeFrame(tagID, payload, c)
	default:
		decodeTextFrame(attr, fieldKind(attr), payload, c)
	}
}
