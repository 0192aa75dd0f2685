// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"errors"
	"io"
)

// flacBlockType is the FLAC metadata block type enumeration.
type flacBlockType byte

const (
	flacStreamInfoBlock    flacBlockType = 0
	flacPaddingBlock       flacBlockType = 1
	flacApplicationBlock   flacBlockType = 2
	flacSeektableBlock     flacBlockType = 3
	flacVorbisCommentBlock flacBlockType = 4 // supported
	flacCueSheetBlock      flacBlockType = 5
	flacPictureBlock       flacBlockType = 6 // supported
)

var errNotFLAC = errors.New("tag: expected \"fLaC\" magic")

// ReadFLACTags reads the metadata blocks of a FLAC stream starting at the
// source's current position, decoding the VorbisComment block (and, when
// present, a PICTURE block) into a MetadataContainer, per spec.md §4.9.
func ReadFLACTags(r io.ReadSeeker) (*MetadataContainer, error) {
	magic, err := readString(r, 4)
	if err != nil {
		return nil, newDecodeError("flac", err)
	}
	if magic != "fLaC" {
		return nil, newDecodeError("flac", errNotFLAC)
	}

	c := NewMetadataContainer()
	for {
		last, err := readFLACBlock(r, c)
		if err != nil {
			return nil, newDecodeError("flac", err)
		}
		if last {
			break
		}
	}
	c.Reset()
	return c, nil
}

// readFLACBlock reads one metadata block header and dispatches its
// payload; unsupported block types are skipped.
func readFLACBlock(r io.ReadSeeker, c *MetadataContainer) (last bool, err error) {
	header, err := readBytes(r, 1)
	if err != nil {
		return false, err
	}
	blockType := header[0]
	if getBit(blockType, 7) {
		blockType ^= 1 << 7
		last = true
	}

	blockLen, err := readInt(r, 3)
	if err != nil {
		return false, err
	}

	switch flacBlockType(blockType) {
	case flacVorbisCommentBlock:
		sub, err := decodeVorbisComments(io.LimitReader(r, int64(blockLen)))
		if err != nil {
			return false, err
		}
		mergeContainer(c, sub)
	case flacPictureBlock:
		if err := decodeFLACPicture(r, c); err != nil {
			return false, err
		}
	default:
		if _, err := r.Seek(int64(blockLen), io.SeekCurrent); err != nil {
			return false, err
		}
	}
	return last, nil
}

// decodeFLACPicture decodes a PICTURE block: picture-type u32, MIME
// length-prefixed string, description length-prefixed UTF-8 string, 4
// u32s of width/height/depth/colors (ignored), then a length-prefixed
// image payload.
func decodeFLACPicture(r io.ReadSeeker, c *MetadataContainer) error {
	picType, err := readUint32BigEndian(r)
	if err != nil {
		return err
	}
	mimeLen, err := readUint32BigEndian(r)
	if err != nil {
		return err
	}
	if _, err := readString(r, uint(mimeLen)); err != nil {
		return err
	}
	descLen, err := readUint32BigEndian(r)
	if err != nil {
		return err
	}
	desc, err := readString(r, uint(descLen))
	if err != nil {
		return err
	}
	if _, err := readBytes(r, 16); err != nil { // width, height, depth, colors
		return err
	}
	dataLen, err := readUint32BigEndian(r)
	if err != nil {
		return err
	}
	data, err := readBytes(r, uint(dataLen))
	if err != nil {
		return err
	}
	img, err := newImageFromBytes(data)
	if err != nil {
		return err
	}
	c.SetIDict(desc, IDictEntry{Image: img, PictureType: byte(picType)})
	return nil
}
