// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"io"
	"os"
)

// Source is a caller-supplied seekable byte source: any io.ReadSeeker,
// such as an *os.File or an in-memory *bytes.Reader. acquireSource also
// accepts a filesystem path (a string) and opens it itself. Together they
// form the "seekable source adapter" of spec.md §4.3.
type Source interface {
	io.ReadSeeker
}

// WritableSource is a Source that also supports writing, required for
// MP3 in-place rewriting.
type WritableSource interface {
	Source
	io.Writer
}

// acquired is the result of opening a Source: the handle to operate on,
// whether this library owns it (and must close it), and the position to
// restore on a borrowed handle.
type acquired struct {
	source     Source
	owned      bool
	restorePos int64
	hasRestore bool
}

// acquireSource resolves one of: a filesystem path, or a caller-supplied
// handle. On a borrowed handle the current position is recorded so it can
// be restored by release(); an owned (path-opened) handle is closed on
// release unless keepOpen is requested.
func acquireSource(src interface{}, write bool) (*acquired, error) {
	switch v := src.(type) {
	case string:
		flag := os.O_RDONLY
		if write {
			flag = os.O_RDWR
		}
		f, err := os.OpenFile(v, flag, 0)
		if err != nil {
			return nil, err
		}
		return &acquired{source: f, owned: true}, nil
	case Source:
		pos, err := v.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		return &acquired{source: v, owned: false, restorePos: pos, hasRestore: true}, nil
	default:
		return nil, newDecodeError("source", errUnsupportedSource)
	}
}

var errUnsupportedSource = errSourceKind("unsupported source: expected a path, *os.File, or io.ReadSeeker")

type errSourceKind string

func (e errSourceKind) Error() string { return string(e) }

// release restores a borrowed handle's position, or closes an owned
// handle, unless keepOpen was requested for an owned, editable handle.
func (a *acquired) release(keepOpen bool) error {
	if a.owned {
		if keepOpen {
			return nil
		}
		if c, ok := a.source.(io.Closer); ok {
			return c.Close()
		}
		return nil
	}
	if a.hasRestore {
		_, err := a.source.Seek(a.restorePos, io.SeekStart)
		return err
	}
	return nil
}
