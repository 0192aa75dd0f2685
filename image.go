// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// Image is the opaque image handle the IMAGE attribute kind stores.
// Decoding and re-encoding pixel data is explicitly out of scope for this
// module (spec.md §1); this handle exposes only what the metadata layer
// needs: a format tag, pixel dimensions, and the original bytes.
type Image interface {
	Format() string
	Size() (width, height int)
	Bytes() []byte
}

// rawImage is the IMAGE kind's concrete implementation, backed by the
// standard library's image package purely for format/size sniffing; it
// never re-encodes pixels, only ever hands back the bytes it was given.
type rawImage struct {
	format string
	width  int
	height int
	data   []byte
}

func (r *rawImage) Format() string          { return r.format }
func (r *rawImage) Size() (int, int)        { return r.width, r.height }
func (r *rawImage) Bytes() []byte           { return r.data }

func newImageFromBytes(b []byte) (Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return &rawImage{format: "", width: 0, height: 0, data: b}, nil
	}
	return &rawImage{format: format, width: cfg.Width, height: cfg.Height, data: b}, nil
}

// validateImage implements the IMAGE kind: an existing Image handle is
// kept as-is; anything else is resolved to bytes (path, io.Reader, or a
// raw []byte) and opened through the collaborator above.
func validateImage(field string, value interface{}) (Image, bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, false, nil
	case Image:
		return v, true, nil
	case []byte:
		if len(v) == 0 {
			return nil, false, nil
		}
		img, err := newImageFromBytes(v)
		if err != nil {
			return nil, false, newValidationError(field, err)
		}
		return img, true, nil
	case string:
		if v == "" {
			return nil, false, nil
		}
		b, err := os.ReadFile(v)
		if err != nil {
			return nil, false, newValidationError(field, fmt.Errorf("opening image path %q: %w", v, err))
		}
		img, err := newImageFromBytes(b)
		if err != nil {
			return nil, false, newValidationError(field, err)
		}
		return img, true, nil
	case io.Reader:
		b, err := io.ReadAll(v)
		if err != nil {
			return nil, false, newValidationError(field, fmt.Errorf("reading image handle: %w", err))
		}
		img, err := newImageFromBytes(b)
		if err != nil {
			return nil, false, newValidationError(field, err)
		}
		return img, true, nil
	default:
		return nil, false, newValidationError(field, fmt.Errorf("unsupported image value type %T", value))
	}
}

// imagesEqual implements the equality rule used by MetadataContainer.Equal:
// format, dimensions, and a 512-byte sample of the content must match,
// avoiding a full-content comparison for large embedded artwork.
func imagesEqual(a, b Image) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Format() != b.Format() {
		return false
	}
	aw, ah := a.Size()
	bw, bh := b.Size()
	if aw != bw || ah != bh {
		return false
	}
	return bytes.Equal(sample512(a.Bytes()), sample512(b.Bytes()))
}

func sample512(b []byte) []byte {
	if len(b) <= 512 {
		return b
	}
	return b[:512]
}
