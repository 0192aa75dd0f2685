// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"encoding/binary"
	"io"
)

func getBit(b byte, n uint) bool {
	x := byte(1 << n)
	return (b & x) == x
}

// toSyncsafe packs a 28-bit value into four bytes, each holding 7
// significant bits with the top bit cleared, per spec.md §4.4.
func toSyncsafe(n uint32) [4]byte {
	return [4]byte{
		byte((n >> 21) & 0x7f),
		byte((n >> 14) & 0x7f),
		byte((n >> 7) & 0x7f),
		byte(n & 0x7f),
	}
}

// fromSyncsafe is the inverse of toSyncsafe.
func fromSyncsafe(b []byte) uint32 {
	return (uint32(b[0]&0x7f) << 21) |
		(uint32(b[1]&0x7f) << 14) |
		(uint32(b[2]&0x7f) << 7) |
		uint32(b[3]&0x7f)
}

func getInt(b []byte) int {
	var n int
	for _, x := range b {
		n = n<<8 | int(x)
	}
	return n
}

func getUint32BE(b []byte) uint32 {
	return binary.BigEndian.Uint32(b)
}

func getUint16BE(b []byte) uint16 {
	return binary.BigEndian.Uint16(b)
}

func putUint32BE(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}

func putUint16BE(n uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, n)
	return b
}

func readBytes(r io.Reader, n uint) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(r, b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func readString(r io.Reader, n uint) (string, error) {
	b, err := readBytes(r, n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readInt(r io.Reader, n uint) (int, error) {
	b, err := readBytes(r, n)
	if err != nil {
		return 0, err
	}
	return getInt(b), nil
}

func readUint32LittleEndian(r io.Reader) (uint32, error) {
	b, err := readBytes(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func readUint32BigEndian(r io.Reader) (uint32, error) {
	b, err := readBytes(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func readUint64BigEndian(r io.Reader) (uint64, error) {
	b, err := readBytes(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// nulPad right-pads b with NUL bytes to length n; it truncates if b is
// already longer (ID3v1's writeFixedText relies on this to cut over-long
// fields to their fixed widths).
func nulPad(b []byte, n int) []byte {
	if len(b) >= n {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// trimNulSpace trims trailing NUL and space bytes from a fixed-width
// field, as used throughout ID3v1 and IFF text decoding.
func trimNulSpace(b []byte) []byte {
	i := len(b)
	for i > 0 && (b[i-1] == 0x00 || b[i-1] == ' ') {
		i--
	}
	return b[:i]
}
