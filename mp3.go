// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"errors"
	"io"
)

// mpegVersion and mpegLayer are the decoded forms of an MP3 frame
// header's version/layer bit-fields (spec.md §4.5).
type mpegVersion int

const (
	mpegV25 mpegVersion = iota
	mpegReserved
	mpegV2
	mpegV1
)

// mp3FrameHeader is one decoded 4-byte MP3 frame header.
type mp3FrameHeader struct {
	Version        mpegVersion
	Layer          int // 1, 2, or 3
	Protected      bool
	BitrateIndex   int
	SampleRateIdx  int
	Padding        bool
}

var errNotMP3Frame = errors.New("tag: not a valid MP3 frame header")

// bitrateTable rows, selected by (version, layer): row 0 = v1/L1, row 1 =
// v1/L2, row 2 = v1/L3, row 3 = v2-or-v2.5/L1, row 4 = v2-or-v2.5/L2-or-L3.
var bitrateTable = [5][15]int{
	{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
	{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
	{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
	{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
}

// sampleRateTable rows are indexed by version {v2.5, reserved, v2, v1};
// columns by the 2-bit sample-rate index.
var sampleRateTable = [4][3]int{
	{11025, 12000, 8000},
	{0, 0, 0},
	{22050, 24000, 16000},
	{44100, 48000, 32000},
}

func bitrateRow(v mpegVersion, layer int) int {
	if v == mpegV1 {
		return layer - 1
	}
	if layer == 1 {
		return 3
	}
	return 4
}

// decodeMP3Header parses a 4-byte MP3 frame header per spec.md §4.5,
// rejecting anything whose sync/version/layer/bitrate/sample-rate fields
// are out of range.
func decodeMP3Header(b []byte) (*mp3FrameHeader, error) {
	if len(b) < 4 {
		return nil, errNotMP3Frame
	}
	if b[0] != 0xFF || b[1]&0xE0 != 0xE0 {
		return nil, errNotMP3Frame
	}
	version := mpegVersion((b[1] >> 3) & 0x03)
	if version == mpegReserved {
		return nil, errNotMP3Frame
	}
	rawLayer := (b[1] >> 1) & 0x03
	if rawLayer == 0 {
		return nil, errNotMP3Frame
	}
	layer := 4 - int(rawLayer)
	protected := b[1]&0x01 == 0

	bitrateIdx := int(b[2] >> 4)
	if bitrateIdx < 1 || bitrateIdx > 14 {
		return nil, errNotMP3Frame
	}
	sampleRateIdx := int((b[2] >> 2) & 0x03)
	if sampleRateIdx > 2 {
		return nil, errNotMP3Frame
	}
	padding := getBit(b[2], 1)

	return &mp3FrameHeader{
		Version:       version,
		Layer:         layer,
		Protected:     protected,
		BitrateIndex:  bitrateIdx,
		SampleRateIdx: sampleRateIdx,
		Padding:       padding,
	}, nil
}

func (h *mp3FrameHeader) bitrate() int {
	return bitrateTable[bitrateRow(h.Version, h.Layer)][h.BitrateIndex]
}

func (h *mp3FrameHeader) sampleRate() int {
	return sampleRateTable[h.Version][h.SampleRateIdx]
}

// frameLength implements spec.md §4.5's layer-dependent formula.
func (h *mp3FrameHeader) frameLength() int {
	bitrate := h.bitrate()
	sr := h.sampleRate()
	if sr == 0 {
		return 0
	}
	pad := 0
	if h.Padding {
		pad = 1
	}
	if h.Layer == 1 {
		return (bitrate*12000/sr+pad)*4
	}
	divisor := sr
	if (h.Version == mpegV2 || h.Version == mpegV25) && h.Layer == 3 {
		divisor = sr * 2
	}
	return bitrate*144000/divisor + pad
}

const maxJunk = 65536

// mp3SyncResult is the outcome of a successful sync scan.
type mp3SyncResult struct {
	Offset int64 // absolute offset of the valid frame header
	Header *mp3FrameHeader
	Length int
}

// syncMP3 implements spec.md §4.5's look-ahead sync scan: starting at the
// source's current position, scan up to maxJunk bytes for a 0xFF byte
// whose header validates and whose computed next-frame position also
// holds a valid header.
func syncMP3(r io.ReadSeeker) (*mp3SyncResult, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	limit := start + maxJunk
	if limit > end {
		limit = end
	}

	buf := make([]byte, limit-start)
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, buf); err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	for i := 0; i+4 <= len(buf); i++ {
		if buf[i] != 0xFF {
			continue
		}
		h, err := decodeMP3Header(buf[i : i+4])
		if err != nil {
			continue
		}
		length := h.frameLength()
		if length < 4 {
			continue
		}
		next := i + length
		if next+4 > len(buf) {
			// Cannot verify look-ahead within the window; accept on trust
			// only if this is the last possible candidate before EOF.
			if start+int64(next) >= end {
				return &mp3SyncResult{Offset: start + int64(i), Header: h, Length: length}, nil
			}
			continue
		}
		if _, err := decodeMP3Header(buf[next : next+4]); err != nil {
			continue
		}
		return &mp3SyncResult{Offset: start + int64(i), Header: h, Length: length}, nil
	}
	return nil, errNotMP3Frame
}
