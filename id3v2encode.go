// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// encodeID3v2 serializes c into a complete ID3v2.{2,3,4} tag (header plus
// frames), per spec.md §4.4's "Encoding direction" and padding rules.
// padding is the number of zero bytes appended after the last frame; pass
// 0 for an in-place rewrite where the caller enforces the span itself.
func encodeID3v2(c *MetadataContainer, version int, preserveUnknown bool, padding int) ([]byte, error) {
	var body bytes.Buffer

	for _, attr := range simpleTextAttrs(c) {
		tagID, ok := id3v2AttrToTag(version, attr)
		if !ok {
			continue
		}
		payload := encodeTextFrameValue(fieldKind(attr), c.values[attr])
		if payload == nil {
			continue
		}
		writeFrame(&body, version, tagID, payload)
	}

	if v, ok := c.values["volume"]; ok {
		tagID := id3v2VolumeTag(version)
		writeFrame(&body, version, tagID, encodeVolumeFrame(version, v.(float64)))
	}

	encodeDictFrames(&body, version, id3v2CommentTag(version), c.comment)
	encodeDictFrames(&body, version, id3v2LyricsTag(version), c.lyrics)

	for key, entry := range c.image {
		writeFrame(&body, version, id3v2ImageTag(version), encodeImageFramePayload(id3v2ImageTag(version), key, entry))
	}

	if preserveUnknown {
		for tagID, payloads := range c.unknown {
			for _, payload := range payloads {
				writeFrame(&body, version, tagID, payload)
			}
		}
	}

	if padding > 0 {
		body.Write(make([]byte, padding))
	}

	if body.Len() > 0x0fffffff {
		return nil, newEncodeError("tag body exceeds the syncsafe size field")
	}

	header := make([]byte, id3v2HeaderSize)
	copy(header[0:3], "ID3")
	header[3] = byte(version)
	sz := toSyncsafe(uint32(body.Len()))
	copy(header[6:10], sz[:])

	return append(header, body.Bytes()...), nil
}

// simpleTextAttrs returns the set attributes that encode as a single text
// frame: every public field except the managed dict/idict/volume views.
func simpleTextAttrs(c *MetadataContainer) []string {
	var out []string
	for attr := range c.values {
		switch attr {
		case "volume":
			continue
		}
		out = append(out, attr)
	}
	return out
}

func writeFrame(body *bytes.Buffer, version int, tagID string, payload []byte) {
	body.Write(encodeFrameHeader(version, tagID, len(payload)))
	body.Write(payload)
}

// encodeFrameHeader builds one frame header for version, per the
// version-layout table of spec.md §4.4.
func encodeFrameHeader(version int, tagID string, payloadLen int) []byte {
	if version == 2 {
		h := make([]byte, 6)
		copy(h[0:3], padTagID(tagID, 3))
		copy(h[3:6], putUintN(uint32(payloadLen), 3))
		return h
	}
	h := make([]byte, 10)
	copy(h[0:4], padTagID(tagID, 4))
	if version == 4 {
		sz := toSyncsafe(uint32(payloadLen))
		copy(h[4:8], sz[:])
	} else {
		copy(h[4:8], putUintN(uint32(payloadLen), 4))
	}
	// h[8:10] frame flags left zero.
	return h
}

func padTagID(tagID string, width int) []byte {
	b := make([]byte, width)
	copy(b, tagID)
	return b
}

func putUintN(n uint32, width int) []byte {
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(n & 0xff)
		n >>= 8
	}
	return b
}

// encodeTextFrameValue renders one attribute's stored value as an ID3v2
// text-frame payload: encoding byte, then the minimally-encoded text body.
func encodeTextFrameValue(kind Kind, value interface{}) []byte {
	var s string
	switch kind {
	case KindUint16:
		s = strconv.Itoa(int(value.(uint16)))
	case KindUint32:
		s = strconv.Itoa(int(value.(uint32)))
	case KindUint16x2:
		p := value.(UintPair)
		s = fmt.Sprintf("%d/%d", p.A, p.B)
	case KindBool:
		if value.(bool) {
			s = "1"
		} else {
			s = "0"
		}
	default: // KindText, KindGenre
		s = value.(string)
	}
	enc, body := encodeMinimalText(s)
	return append([]byte{enc}, body...)
}

// encodeDictFrames emits one DICT frame per entry of m (the _comment or
// _lyrics managed dictionary).
func encodeDictFrames(body *bytes.Buffer, version int, tagID string, m map[DictKey]string) {
	for key, value := range m {
		writeFrame(body, version, tagID, encodeDictFramePayload(key, value))
	}
}

// encodeDictFramePayload implements the DICT on-wire layout: encoding
// byte, 3-byte language, description, terminator, value. Mixed-encoding
// key/value pairs are promoted to UTF-16, per spec.md §4.4.
func encodeDictFramePayload(key DictKey, value string) []byte {
	keyEnc, keyBody := encodeMinimalText(key.Key)
	valEnc, valBody := encodeMinimalText(value)

	enc := keyEnc
	if keyEnc != valEnc {
		enc = encUTF16BOM
		keyBody = encodeTextAs(encUTF16BOM, key.Key)
		valBody = encodeTextAs(encUTF16BOM, value)
	}
	term, _ := encodingTerminator(enc)

	lang := key.Language
	if len(lang) > 3 {
		lang = lang[:3]
	}
	langBytes := make([]byte, 3)
	copy(langBytes, lang)

	out := []byte{enc}
	out = append(out, langBytes...)
	out = append(out, keyBody...)
	out = append(out, term...)
	out = append(out, valBody...)
	return out
}

// encodeImageFramePayload implements the IDICT on-wire layout: encoding
// byte, format-or-MIME, picture-type byte, description, terminator, bytes.
func encodeImageFramePayload(tagID string, key string, entry IDictEntry) []byte {
	enc, keyBody := encodeMinimalText(key)
	term, _ := encodingTerminator(enc)

	var out []byte
	out = append(out, enc)
	if tagID == "PIC" {
		out = append(out, padTagID(format3Tag(entry.Image.Format()), 3)...)
	} else {
		out = append(out, []byte(formatToMime(entry.Image.Format()))...)
		out = append(out, 0)
	}
	out = append(out, entry.PictureType)
	out = append(out, keyBody...)
	out = append(out, term...)
	out = append(out, entry.Image.Bytes()...)
	return out
}

func format3Tag(format string) string {
	switch format {
	case "jpeg":
		return "JPG"
	case "png":
		return "PNG"
	case "gif":
		return "GIF"
	default:
		return "UND"
	}
}

func formatToMime(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// encodeVolumeFrame implements the inverse of decodeVolumeFrame: RVA2 for
// v4 (logarithmic, first-channel-only), RVA/RVAD for v2/v3 (linear
// incdec-bitmap average, both channels written identically since VOLUME
// is a single scalar).
func encodeVolumeFrame(version int, pct float64) []byte {
	if version == 4 {
		dB := 20 * math.Log10(pct/100+1)
		raw := int16(math.Round(dB * 512))
		out := []byte{0, 1} // empty identification string + NUL, channel id 1 (master)
		out = append(out, putUint16BE(uint16(raw))...)
		return out
	}

	const bitsPerPeak = 16
	const denom = float64((uint64(1) << bitsPerPeak) - 1)
	bitmap := byte(0x03)
	magnitude := pct
	if magnitude < 0 {
		bitmap = 0x00
		magnitude = -magnitude
	}
	raw := uint16(math.Round(magnitude / 100 * denom))
	out := []byte{bitmap, bitsPerPeak}
	out = append(out, putUint16BE(raw)...) // right
	out = append(out, putUint16BE(raw)...) // left
	return out
}
