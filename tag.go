// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tag reads and, for MP3, rewrites audio-file metadata across
// MP3 (ID3v1, ID3v2.{2,3,4}), IFF (AIFF/RIFF), MPEG-4 (M4A), FLAC and OGG.
package tag

import (
	"io"
)

// decodedMedia is the internal result format-dispatch decoders converge
// on, carrying the spans a later MP3Editor needs in addition to the
// populated container.
type decodedMedia struct {
	Container *MetadataContainer

	Editable bool

	HasID3v2     bool
	ID3v2Version int
	ID3v2Start   int64
	ID3v2End     int64

	HasMP3   bool
	MP3Start int64
	MP3End   int64

	HasID3v1   bool
	ID3v1Start int64
}

// decodeSource implements the format dispatch of spec.md §4.10:
// `first-success([FLAC, M4A, OGG, IFF, MP3])`. The format is identified
// by its leading magic bytes rather than by exhaustively retrying every
// decoder on failure, since each of these magics is unambiguous; MP3 (no
// distinguishing magic) is always the fallback.
func decodeSource(r io.ReadSeeker) (*decodedMedia, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	head := make([]byte, 12)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, err
	}
	head = head[:n]
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch {
	case len(head) >= 4 && string(head[0:4]) == "fLaC":
		c, err := ReadFLACTags(r)
		if err != nil {
			return nil, err
		}
		return &decodedMedia{Container: c}, nil

	case len(head) >= 8 && string(head[4:8]) == "ftyp":
		c, err := ReadMP4Tags(r)
		if err != nil {
			return nil, err
		}
		return &decodedMedia{Container: c}, nil

	case len(head) >= 4 && string(head[0:4]) == "OggS":
		c, err := ReadOGGTags(r)
		if err != nil {
			return nil, err
		}
		return &decodedMedia{Container: c}, nil

	case len(head) >= 4 && iffContainerIDs[string(head[0:4])]:
		res, err := ReadIFFTags(r)
		if err != nil {
			return nil, err
		}
		dm := &decodedMedia{Container: res.Container}
		if res.HasMP3 {
			dm.HasMP3 = true
			dm.MP3Start = res.MP3Start
			dm.MP3End = res.MP3End
		}
		return dm, nil

	default:
		return decodeMP3(r)
	}
}

// decodeMP3 decodes the three MP3-hosted tag sources independently, per
// spec.md §7's policy: "a failure in one does not prevent the others from
// being decoded". It is also the fallback branch of format dispatch.
func decodeMP3(r io.ReadSeeker) (*decodedMedia, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}

	c := NewMetadataContainer()
	dm := &decodedMedia{Container: c, Editable: true}
	found := false

	if _, err := r.Seek(0, io.SeekStart); err == nil {
		if res, err := ReadID3v2Tags(r); err == nil {
			// Keep the ID3v2 container itself so managed dicts, images and
			// unknown frames survive into MP3Editor.Save/Dump.
			c = res.Container
			dm.Container = c
			dm.HasID3v2 = true
			dm.ID3v2Version = res.Version
			dm.ID3v2Start = res.Start
			dm.ID3v2End = res.End
			found = true
		}
	}

	if v1, err := ReadID3v1Tags(r); err == nil {
		mergeContainer(c, v1)
		dm.HasID3v1 = true
		dm.ID3v1Start = end - id3v1Size
		found = true
	}

	syncStart := int64(0)
	if dm.HasID3v2 {
		syncStart = dm.ID3v2End
	}
	if _, err := r.Seek(syncStart, io.SeekStart); err == nil {
		if sync, err := syncMP3(r); err == nil {
			dm.HasMP3 = true
			dm.MP3Start = sync.Offset
			dm.MP3End = end
			if dm.HasID3v1 {
				dm.MP3End = dm.ID3v1Start
			}
			found = true
		}
	}

	if !found {
		return nil, ErrNoTagsFound
	}
	c.Reset()
	return dm, nil
}

// MetadataView is a read-only wrapper around a decoded MetadataContainer,
// returned by Open for every format except a bare MP3 requested for
// editing (see OpenMP3Editor).
type MetadataView struct {
	c *MetadataContainer
}

func (v *MetadataView) Get(name string) (interface{}, bool)        { return v.c.Get(name) }
func (v *MetadataView) IteratePublic() []string                    { return v.c.IteratePublic() }
func (v *MetadataView) Equal(other *MetadataView) bool             { return v.c.Equal(other.c) }
func (v *MetadataView) GetComment(key interface{}) (DictKey, string, bool) {
	return v.c.GetDict("_comment", key)
}
func (v *MetadataView) GetLyrics(key interface{}) (DictKey, string, bool) {
	return v.c.GetDict("_lyrics", key)
}
func (v *MetadataView) GetImage(key interface{}) (string, IDictEntry, bool) {
	return v.c.GetIDict(key)
}

// Open implements `tagopen(source, read_only=true)`: it dispatches the
// source to the right decoder and returns an immutable view.
func Open(source interface{}) (*MetadataView, error) {
	acq, err := acquireSource(source, false)
	if err != nil {
		return nil, err
	}
	defer acq.release(false)

	dm, err := decodeSource(acq.source)
	if err != nil {
		return nil, err
	}
	return &MetadataView{c: dm.Container}, nil
}

// MP3Editor implements `tagopen(source, read_only=false)`'s mutating
// surface for a bare MP3 file: direct attribute assignment plus the
// managed comment/lyrics/image views, and Save/Dump to persist changes.
//
// Editing an MP3 payload embedded in an IFF container (AIFF/WAV) is not
// implemented: the spec's "pass-through rewrite of MP3 inside IFF" would
// require re-framing the owning RIFF/FORM chunk sizes on every save, a
// second axis of complexity beyond what this build covers; OpenMP3Editor
// returns EncodeError for such sources. Read access via Open is
// unaffected.
type MP3Editor struct {
	container *MetadataContainer
	acq       *acquired

	hasID3v2     bool
	id3v2Version int
	id3v2Start   int64
	id3v2End     int64

	hasMP3   bool
	mp3Start int64
	mp3End   int64

	hasID3v1   bool
	id3v1Start int64

	fileEnd int64
}

// OpenMP3Editor opens source for mutation. Only bare MP3 files (ID3v1
// and/or ID3v2 tags around an MP3 frame stream) are editable.
func OpenMP3Editor(source interface{}) (*MP3Editor, error) {
	acq, err := acquireSource(source, true)
	if err != nil {
		return nil, err
	}

	head := make([]byte, 4)
	n, _ := io.ReadFull(acq.source, head)
	head = head[:n]
	if _, err := acq.source.Seek(0, io.SeekStart); err != nil {
		acq.release(false)
		return nil, err
	}
	if iffContainerIDs[string(head)] || string(head) == "fLaC" || string(head) == "OggS" {
		acq.release(false)
		return nil, newEncodeError("source is not a bare MP3 file")
	}

	dm, err := decodeMP3(acq.source)
	if err != nil {
		acq.release(false)
		return nil, err
	}
	end, err := acq.source.Seek(0, io.SeekEnd)
	if err != nil {
		acq.release(false)
		return nil, err
	}

	return &MP3Editor{
		container:    dm.Container,
		acq:          acq,
		hasID3v2:     dm.HasID3v2,
		id3v2Version: dm.ID3v2Version,
		id3v2Start:   dm.ID3v2Start,
		id3v2End:     dm.ID3v2End,
		hasMP3:       dm.HasMP3,
		mp3Start:     dm.MP3Start,
		mp3End:       dm.MP3End,
		hasID3v1:     dm.HasID3v1,
		id3v1Start:   dm.ID3v1Start,
		fileEnd:      end,
	}, nil
}

// Close releases the underlying source (closing it if this editor opened
// it from a path).
func (e *MP3Editor) Close() error { return e.acq.release(false) }

// Get/Set/Del delegate directly to the underlying container.
func (e *MP3Editor) Get(name string) (interface{}, bool)  { return e.container.Get(name) }
func (e *MP3Editor) Set(name string, value interface{}) error { return e.container.Set(name, value) }
func (e *MP3Editor) Del(name string)                       { e.container.Del(name) }

// GetComment returns one _comment entry; key is a DictKey or AnyItem.
func (e *MP3Editor) GetComment(key interface{}) (DictKey, string, bool) {
	return e.container.GetDict("_comment", key)
}

// SetComment sets one _comment entry.
func (e *MP3Editor) SetComment(language, key, value string) {
	e.container.SetDict("_comment", DictKey{Language: language, Key: key}, value)
}

// GetLyrics/SetLyrics mirror GetComment/SetComment for _lyrics.
func (e *MP3Editor) GetLyrics(key interface{}) (DictKey, string, bool) {
	return e.container.GetDict("_lyrics", key)
}

func (e *MP3Editor) SetLyrics(language, key, value string) {
	e.container.SetDict("_lyrics", DictKey{Language: language, Key: key}, value)
}

// GetImage/SetImage mirror GetComment/SetComment for _image.
func (e *MP3Editor) GetImage(key interface{}) (string, IDictEntry, bool) {
	return e.container.GetIDict(key)
}

func (e *MP3Editor) SetImage(key string, entry IDictEntry) {
	e.container.SetIDict(key, entry)
}

// resolveVersion implements "Version defaults: id3v2_version of the
// source if present, else 2."
func (e *MP3Editor) resolveVersion(requested int) int {
	if requested == 2 || requested == 3 || requested == 4 {
		return requested
	}
	if e.hasID3v2 {
		return e.id3v2Version
	}
	return 2
}

// Dump writes a fresh, out-of-place copy of the file to w: a newly
// encoded ID3v2 tag (with padding, default 128 bytes), the MP3 payload
// byte-for-byte, and an ID3v1 trailer if the source had one. Returns
// EncodeError when no MP3 frame stream was found in the source.
func (e *MP3Editor) Dump(w io.Writer, version int, preserveUnknown bool, padding int) error {
	if !e.hasMP3 {
		return newEncodeError("no MP3 payload to write after the ID3v2 tag")
	}
	if padding <= 0 {
		padding = 128
	}
	v := e.resolveVersion(version)

	tagBytes, err := encodeID3v2(e.container, v, preserveUnknown, padding)
	if err != nil {
		return err
	}
	if _, err := w.Write(tagBytes); err != nil {
		return err
	}

	start := int64(0)
	if e.hasID3v2 {
		start = e.id3v2End
	}
	payloadEnd := e.fileEnd
	if e.hasID3v1 {
		payloadEnd = e.id3v1Start
	}
	if _, err := e.acq.source.Seek(start, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.CopyN(w, e.acq.source, payloadEnd-start); err != nil {
		return err
	}

	if e.hasID3v1 {
		trailer := EncodeID3v1(e.container)
		if _, err := w.Write(trailer[:]); err != nil {
			return err
		}
	}
	return nil
}

// Save rewrites the file in place: the encoded ID3v2 tag must fit within
// the existing tag span (header plus frames, per spec.md §6); any unused
// space is zero-filled. Returns EncodeError if there is no existing
// ID3v2 region, the source is not writable, or the encoded tag does not
// fit.
func (e *MP3Editor) Save(version int, preserveUnknown bool) error {
	if !e.hasID3v2 {
		return newEncodeError("no existing ID3v2 region to rewrite in place; use Dump")
	}
	w, ok := e.acq.source.(io.Writer)
	if !ok {
		return newEncodeError("source is not writable")
	}

	v := e.resolveVersion(version)
	span := e.id3v2End - e.id3v2Start

	unpadded, err := encodeID3v2(e.container, v, preserveUnknown, 0)
	if err != nil {
		return err
	}
	extraPad := span - int64(len(unpadded))
	if extraPad < 0 {
		return newEncodeError("encoded tag does not fit within the existing ID3v2 span")
	}

	final, err := encodeID3v2(e.container, v, preserveUnknown, int(extraPad))
	if err != nil {
		return err
	}
	if _, err := e.acq.source.Seek(e.id3v2Start, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.Write(final); err != nil {
		return err
	}

	if e.hasID3v1 {
		trailer := EncodeID3v1(e.container)
		if _, err := e.acq.source.Seek(e.id3v1Start, io.SeekStart); err != nil {
			return err
		}
		if _, err := w.Write(trailer[:]); err != nil {
			return err
		}
	}
	return nil
}
