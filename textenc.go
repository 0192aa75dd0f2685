// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// ID3v2 text-encoding prefix bytes (spec.md §4.4).
const (
	encLatin1     byte = 0
	encUTF16BOM   byte = 1
	encUTF16BE    byte = 2
	encUTF8       byte = 3
)

var (
	latin1Decoder = charmap.ISO8859_1.NewDecoder()
	latin1Encoder = charmap.ISO8859_1.NewEncoder()
	utf16BOMCodec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	utf16BECodec  = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

// encodingTerminator returns the NUL terminator width used by an ID3v2
// text-encoding byte: 1 byte for Latin-1/UTF-8, 2 bytes for either UTF-16
// form.
func encodingTerminator(enc byte) ([]byte, error) {
	switch enc {
	case encLatin1, encUTF8:
		return []byte{0}, nil
	case encUTF16BOM, encUTF16BE:
		return []byte{0, 0}, nil
	default:
		return nil, fmt.Errorf("invalid text-encoding byte %#x", enc)
	}
}

// decodeText decodes b using the ID3v2 text-encoding byte convention. An
// unrecognised encoding byte is treated as plain ASCII with no
// terminator, per spec.md §4.4's "not one of these, assume ASCII".
func decodeText(enc byte, b []byte) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	switch enc {
	case encLatin1:
		out, _ := latin1Decoder.Bytes(b)
		return string(out), nil
	case encUTF16BOM:
		if len(b) == 1 {
			return "", nil
		}
		out, err := utf16BOMCodec.NewDecoder().Bytes(b)
		if err != nil {
			return "", nil // ignore undecodable, per spec.md §4.4
		}
		return string(out), nil
	case encUTF16BE:
		if len(b) == 1 {
			return "", nil
		}
		out, err := utf16BECodec.NewDecoder().Bytes(b)
		if err != nil {
			return "", nil
		}
		return string(out), nil
	case encUTF8:
		return string(b), nil
	default:
		return asciiFromBytes(b), nil
	}
}

// encodeMinimalText chooses the minimal ID3v2 text encoding for s: Latin-1
// (prefix 0x00) when every rune fits, otherwise UTF-16LE with a BOM
// (prefix 0x01). Returns the encoding byte and the encoded body (without
// terminator).
func encodeMinimalText(s string) (byte, []byte) {
	if b, err := latin1Encoder.Bytes([]byte(s)); err == nil {
		return encLatin1, b
	}
	b, _ := utf16BOMCodec.NewEncoder().Bytes([]byte(s))
	return encUTF16BOM, b
}

// encodeTextAs encodes s using a specific already-chosen encoding byte,
// used when a DICT frame must promote both its key and value to a shared
// encoding (spec.md §4.4: "promote both to UTF-16 so they share a prefix
// byte").
func encodeTextAs(enc byte, s string) []byte {
	switch enc {
	case encLatin1:
		b, err := latin1Encoder.Bytes([]byte(s))
		if err != nil {
			b, _ = utf16BOMCodec.NewEncoder().Bytes([]byte(s))
		}
		return b
	case encUTF16BOM:
		b, _ := utf16BOMCodec.NewEncoder().Bytes([]byte(s))
		return b
	default:
		return []byte(s)
	}
}

// splitAtTerminator splits b at the first occurrence of enc's terminator,
// returning the head (before) and tail (after). If no terminator is
// found, the whole of b is returned as head.
func splitAtTerminator(b []byte, enc byte) (head, tail []byte, found bool) {
	delim, err := encodingTerminator(enc)
	if err != nil {
		return b, nil, false
	}
	i := bytes.Index(b, delim)
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+len(delim):], true
}
