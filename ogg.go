// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"errors"
	"io"
)

const (
	oggIdentificationPacket = 1
	oggCommentPacket        = 3
)

var errNotOGG = errors.New("tag: expected \"OggS\" capture pattern")

// ReadOGGTags reads an OGG/VorbisComment stream starting at the source's
// current position, per spec.md §4.9: capture pattern, page header,
// segment-table lacing, then the identification and comment packets.
func ReadOGGTags(r io.ReadSeeker) (*MetadataContainer, error) {
	oggs, err := readString(r, 4)
	if err != nil {
		return nil, newDecodeError("ogg", err)
	}
	if oggs != "OggS" {
		return nil, newDecodeError("ogg", errNotOGG)
	}

	// Skip the remaining 22 bytes of the page header to reach the
	// page_segments count at byte 26.
	if _, err := r.Seek(22, io.SeekCurrent); err != nil {
		return nil, newDecodeError("ogg", err)
	}
	nSeg, err := readInt(r, 1)
	if err != nil {
		return nil, newDecodeError("ogg", err)
	}
	if _, err := r.Seek(int64(nSeg), io.SeekCurrent); err != nil {
		return nil, newDecodeError("ogg", err)
	}

	idType, err := readInt(r, 1)
	if err != nil {
		return nil, newDecodeError("ogg", err)
	}
	if idType != oggIdentificationPacket {
		return nil, newDecodeError("ogg", errors.New("expected identification packet type 1"))
	}
	// Skip the remaining 29 bytes of the common+identification header.
	if _, err := r.Seek(29, io.SeekCurrent); err != nil {
		return nil, newDecodeError("ogg", err)
	}

	packet, err := readOGGPackets(r)
	if err != nil {
		return nil, newDecodeError("ogg", err)
	}
	pr := bytes.NewReader(packet)

	packetType, err := readInt(pr, 1)
	if err != nil {
		return nil, newDecodeError("ogg", err)
	}
	if packetType != oggCommentPacket {
		return nil, newDecodeError("ogg", errors.New("expected comment packet type 3"))
	}
	if _, err := pr.Seek(6, io.SeekCurrent); err != nil { // "vorbis" tag
		return nil, newDecodeError("ogg", err)
	}

	c, err := decodeVorbisComments(pr)
	if err != nil {
		return nil, newDecodeError("ogg", err)
	}
	return c, nil
}

// readOGGPackets reads contiguous OGG pages' segment payloads into a
// single buffer, stopping at the first page whose header_type_flag does
// not mark packet continuation — that page belongs to the next packet.
func readOGGPackets(r io.ReadSeeker) ([]byte, error) {
	var buf bytes.Buffer
	firstPage := true

	for {
		oggs, err := readString(r, 4)
		if err == io.EOF && !firstPage {
			// No further page follows: the comment packet was the last
			// thing in the stream, which also implies it was the last page.
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
		if oggs != "OggS" {
			return nil, errNotOGG
		}

		head, err := readBytes(r, 22)
		if err != nil {
			return nil, err
		}
		continuation := head[1]&0x01 != 0
		if !firstPage && !continuation {
			if _, err := r.Seek(-26, io.SeekCurrent); err != nil {
				return nil, err
			}
			break
		}
		firstPage = false

		nSeg, err := readInt(r, 1)
		if err != nil {
			return nil, err
		}
		segments, err := readBytes(r, uint(nSeg))
		if err != nil {
			return nil, err
		}

		pageSize := 0
		for _, s := range segments {
			pageSize += int(s)
		}
		if _, err := io.CopyN(&buf, r, int64(pageSize)); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
