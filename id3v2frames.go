// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"math"
)

// parseSingleTextFrame implements the text-frame decoding rule of
// spec.md §4.4: first byte selects the encoding; an unrecognised byte
// means "assume ASCII, no terminator, no prefix consumed". Trailing text
// after the first terminator is discarded (single-valued frames only).
func parseSingleTextFrame(payload []byte) (string, error) {
	if len(payload) == 0 {
		return "", nil
	}
	enc := payload[0]
	if enc > encUTF8 {
		return asciiFromBytes(payload), nil
	}
	head, _, _ := splitAtTerminator(payload[1:], enc)
	return decodeText(enc, head)
}

func decodeTextFrame(attr string, kind Kind, payload []byte, c *MetadataContainer) {
	text, err := parseSingleTextFrame(payload)
	if err != nil || text == "" {
		return
	}
	_ = c.Set(attr, text) // validation failures are swallowed (partial recovery)
}

// decodeDictFrame decodes a COMM/USLT-shaped frame: encoding byte, 3-byte
// language, NUL-terminated description, then the value. The GAPLESS
// description routes its value through BOOL validation before storage.
func decodeDictFrame(payload []byte, attr string, c *MetadataContainer) {
	if len(payload) < 4 {
		return
	}
	enc := payload[0]
	lang := string(payload[1:4])
	rest := payload[4:]

	descBytes, valueBytes, _ := splitAtTerminator(rest, enc)
	desc, err := decodeText(enc, descBytes)
	if err != nil {
		return
	}
	value, err := decodeText(enc, valueBytes)
	if err != nil {
		return
	}

	if desc == GAPLESS {
		if _, _, err := validateBool("gapless", value); err != nil {
			return
		}
	}

	c.SetDict(attr, DictKey{Language: lang, Key: desc}, value)
}

// decodeImageFrame decodes a PIC (v2) or APIC (v3/v4) frame into the
// _image IDICT, keyed by description.
func decodeImageFrame(version int, tagID string, payload []byte, c *MetadataContainer) {
	if len(payload) < 2 {
		return
	}
	enc := payload[0]
	rest := payload[1:]

	if tagID == "PIC" {
		if len(rest) < 4 {
			return
		}
		rest = rest[3:] // 3-byte format tag, skipped unused
	} else {
		idx := bytes.IndexByte(rest, 0)
		if idx < 0 {
			return
		}
		rest = rest[idx+1:]
	}
	if len(rest) < 1 {
		return
	}
	picType := rest[0]
	rest = rest[1:]

	descBytes, imgBytes, _ := splitAtTerminator(rest, enc)
	desc, err := decodeText(enc, descBytes)
	if err != nil {
		return
	}
	img, err := newImageFromBytes(imgBytes)
	if err != nil {
		return
	}
	c.SetIDict(desc, IDictEntry{Image: img, PictureType: picType})
}

// decodeVolumeFrame implements the RVA2 (v4) and RVA/RVAD (v2/v3) volume
// algebra of spec.md §4.4, converting to the VOLUME percentage kind.
func decodeVolumeFrame(tagID string, payload []byte, c *MetadataContainer) {
	if tagID == "RVA2" {
		idx := bytes.IndexByte(payload, 0)
		if idx < 0 || idx+3 >= len(payload) {
			return
		}
		rest := payload[idx+1:]
		if len(rest) < 3 {
			return
		}
		raw := int16(getUint16BE(rest[1:3]))
		dB := float64(raw) / 512.0
		pct := 100 * (math.Pow(10, dB/20) - 1)
		_ = c.Set("volume", pct)
		return
	}

	// RVA (v2) / RVAD (v3)
	if len(payload) < 2 {
		return
	}
	bitmap := payload[0]
	bitsPerPeak := int(payload[1])
	width := (bitsPerPeak + 7) / 8
	if width <= 0 || len(payload) < 2+2*width {
		return
	}
	right := float64(getInt(payload[2 : 2+width]))
	left := float64(getInt(payload[2+width : 2+2*width]))
	if bitmap&0x01 == 0 {
		right = -right
	}
	if bitmap&0x02 == 0 {
		left = -left
	}
	denom := float64((uint64(1) << uint(bitsPerPeak)) - 1)
	if denom == 0 {
		return
	}
	pct := (right + left) / 2 / denom * 100
	_ = c.Set("volume", pct)
}
