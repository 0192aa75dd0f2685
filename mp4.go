// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"errors"
	"io"
)

var errNotMP4 = errors.New("tag: first atom is not \"ftyp\"")

// mp4AtomAttrs is the fixed atom-fourcc -> attribute map of spec.md §4.8.
var mp4AtomAttrs = map[string]string{
	"\xa9alb": "album",
	"\xa9ART": "artist",
	"\xa9art": "artist",
	"aART":    "album_artist",
	"\xa9wrt": "composer",
	"\xa9day": "year",
	"\xa9nam": "name",
	"\xa9too": "encoder",
	"\xa9grp": "grouping",
	"\xa9lyr": "lyrics",
	"\xa9cmt": "comment",
	"\xa9gen": "genre",
	"gnre":    "genre",
	"trkn":    "track",
	"disk":    "disk",
	"tmpo":    "bpm",
	"cpil":    "compilation",
	"covr":    "image",
	"tvsh":    "video_show",
	"sosn":    "sort_video_show",
	"tven":    "video_episode_id",
	"tves":    "video_episode",
	"tvsn":    "video_season",
	"desc":    "video_description",
	"sonm":    "sort_name",
	"soar":    "sort_artist",
	"soaa":    "sort_album_artist",
	"soco":    "sort_composer",
	"soal":    "sort_album",
}

func readAtomHeader(r io.Reader) (size uint32, fourcc string, err error) {
	size, err = readUint32BigEndian(r)
	if err != nil {
		return 0, "", err
	}
	fourcc, err = readString(r, 4)
	return size, fourcc, err
}

// ReadMP4Tags walks an MPEG-4 atom tree starting at the source's current
// position (expected offset 0), per spec.md §4.8. The first atom must be
// "ftyp"; anything else aborts decoding.
func ReadMP4Tags(r io.ReadSeeker) (*MetadataContainer, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	size, fourcc, err := readAtomHeader(r)
	if err != nil {
		return nil, newDecodeError("mp4", err)
	}
	if fourcc != "ftyp" {
		return nil, newDecodeError("mp4", errNotMP4)
	}
	if _, err := r.Seek(int64(size)-8, io.SeekCurrent); err != nil {
		return nil, newDecodeError("mp4", err)
	}

	c := NewMetadataContainer()
	if err := walkMP4Scope(r, end, "top", c); err != nil {
		return nil, err
	}
	c.Reset()
	return c, nil
}

// walkMP4Scope reads sibling atoms until the source position reaches end,
// recursing into the fixed moov/udta/meta/ilst path and decoding ilst's
// children as tagged values. scope names which container level we are in.
func walkMP4Scope(r io.ReadSeeker, end int64, scope string, c *MetadataContainer) error {
	for {
		pos, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return newDecodeError("mp4", err)
		}
		if pos+8 > end {
			return nil
		}

		size, fourcc, err := readAtomHeader(r)
		if err != nil {
			return newDecodeError("mp4", err)
		}
		if size == 0 {
			return nil // a size of 0 terminates the current scope
		}
		payloadEnd := pos + int64(size)
		if payloadEnd > end {
			return nil
		}

		switch {
		case scope == "top" && fourcc == "moov":
			if err := walkMP4Scope(r, payloadEnd, "moov", c); err != nil {
				return err
			}
		case scope == "moov" && fourcc == "udta":
			if err := walkMP4Scope(r, payloadEnd, "udta", c); err != nil {
				return err
			}
		case scope == "udta" && fourcc == "meta":
			// container-2: payload starts after 4 bytes of version/flags.
			if _, err := readBytes(r, 4); err != nil {
				return newDecodeError("mp4", err)
			}
			if err := walkMP4Scope(r, payloadEnd, "meta", c); err != nil {
				return err
			}
		case scope == "meta" && fourcc == "ilst":
			if err := walkMP4Scope(r, payloadEnd, "ilst", c); err != nil {
				return err
			}
		case scope == "ilst":
			leafLen := int(size) - 8
			if _, known := mp4AtomAttrs[fourcc]; known && leafLen >= 16 {
				if err := decodeIlstLeaf(r, fourcc, leafLen, c); err != nil {
					return newDecodeError("mp4", err)
				}
			} else if _, err := r.Seek(int64(leafLen), io.SeekCurrent); err != nil {
				return newDecodeError("mp4", err)
			}
		default:
			if _, err := r.Seek(payloadEnd-pos-8, io.SeekCurrent); err != nil {
				return newDecodeError("mp4", err)
			}
		}

		if _, err := r.Seek(payloadEnd, io.SeekStart); err != nil {
			return newDecodeError("mp4", err)
		}
	}
}

// decodeIlstLeaf decodes one ilst child's nested "data" atom: the payload
// begins at atom_start+24 (spec.md §4.8): 8-byte leaf header, 8-byte data
// header, 4-byte type-indicator/class, 4-byte locale/reserved.
func decodeIlstLeaf(r io.ReadSeeker, fourcc string, leafPayloadLen int, c *MetadataContainer) error {
	dataSize, dataType, err := readAtomHeader(r)
	if err != nil {
		return err
	}
	if dataType != "data" {
		_, err := r.Seek(int64(leafPayloadLen-8), io.SeekCurrent)
		return err
	}
	typeByte, err := readBytes(r, 1)
	if err != nil {
		return err
	}
	if _, err := readBytes(r, 3); err != nil { // unused class bits
		return err
	}
	if _, err := readBytes(r, 4); err != nil { // locale/reserved
		return err
	}

	valueLen := int(dataSize) - 16
	if valueLen < 0 {
		valueLen = 0
	}
	value, err := readBytes(r, uint(valueLen))
	if err != nil {
		return err
	}

	consumed := 8 + 8 + valueLen
	if remaining := leafPayloadLen - consumed; remaining > 0 {
		if _, err := r.Seek(int64(remaining), io.SeekCurrent); err != nil {
			return err
		}
	}

	decodeMP4Value(fourcc, typeByte[0], value, c)
	return nil
}

// decodeMP4Value implements the per-attribute interpretation table of
// spec.md §4.8.
func decodeMP4Value(fourcc string, typeIndicator byte, value []byte, c *MetadataContainer) {
	attr, known := mp4AtomAttrs[fourcc]
	if !known {
		return
	}

	switch fourcc {
	case "gnre":
		if len(value) >= 2 {
			idx := int(getUint16BE(value)) - 1
			if name, ok := genreByIndex(idx); ok {
				_ = c.Set("genre", name)
			}
		}
	case "trkn", "disk":
		if len(value) >= 6 {
			_ = c.Set(attr, UintPair{A: getUint16BE(value[2:4]), B: getUint16BE(value[4:6])})
		}
	case "tmpo":
		if len(value) >= 2 {
			_ = c.Set(attr, getUint16BE(value))
		}
	case "cpil":
		if len(value) >= 1 {
			_ = c.Set(attr, value[0] != 0)
		}
	case "covr":
		if img, err := newImageFromBytes(value); err == nil {
			_ = c.Set("image", img)
		}
	default:
		switch fieldKind(attr) {
		case KindUint32:
			if len(value) >= 4 {
				_ = c.Set(attr, getUint32BE(value))
			}
		case KindBool:
			if len(value) >= 1 {
				_ = c.Set(attr, value[0] != 0)
			}
		default:
			_ = c.Set(attr, string(value))
		}
	}
}
